package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lowering
	LowerInfo                Code = 1000
	LowerUnresolvedReference Code = 1001
	LowerInvariant           Code = 1003

	// Input/output
	IOLoadFileError Code = 4001
	IODecodeError   Code = 4002

	// Project manifest
	ProjInfo            Code = 5000
	ProjInvalidManifest Code = 5001
	ProjUnknownPackage  Code = 5002

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:              "Unknown error",
		LowerInfo:                "Lowering information",
		LowerUnresolvedReference: "Unresolved reference",
		LowerInvariant:           "Internal lowering error",
		IOLoadFileError:          "I/O load file error",
		IODecodeError:            "Tree snapshot decode error",
		ProjInfo:                 "Project information",
		ProjInvalidManifest:      "Invalid project manifest",
		ProjUnknownPackage:       "Package not declared in manifest",
		ObsInfo:                  "Observability information",
		ObsTimings:               "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
