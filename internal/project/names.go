package project

import (
	"strings"
	"unicode"
)

// IsValidIdent reports whether name is an ASCII identifier.
func IsValidIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// IsValidPackageName reports whether name is a dotted sequence of
// identifiers, e.g. `kotlin.collections`. The empty string is the root
// package and is valid.
func IsValidPackageName(name string) bool {
	if name == "" {
		return true
	}
	for _, seg := range strings.Split(name, ".") {
		if !IsValidIdent(seg) {
			return false
		}
	}
	return true
}
