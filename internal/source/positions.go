package source

// Positions answers source ranges for tree nodes. The start of a range skips
// any leading whitespace and comments attached to the node; the end is kept.
// When the file text is not loaded the raw span is returned unchanged.
type Positions struct {
	files *FileSet
}

// NewPositions builds an oracle over fs. A nil fs is allowed.
func NewPositions(fs *FileSet) *Positions {
	return &Positions{files: fs}
}

// Range returns sp with its start moved past leading trivia.
func (p *Positions) Range(sp Span) Span {
	if p == nil || p.files == nil || sp.Empty() {
		return sp
	}
	f := p.files.Get(sp.File)
	if f == nil || int(sp.End) > len(f.Content) {
		return sp
	}
	return sp.WithStart(SkipLeadingComments(f.Content, sp.Start, sp.End))
}

// SkipLeadingComments returns the first offset in content[start:end] that is
// neither whitespace nor part of a line or block comment. Block comments
// nest. An unterminated block comment consumes the rest of the range.
func SkipLeadingComments(content []byte, start, end uint32) uint32 {
	pos := start
	for pos < end {
		switch b := content[pos]; {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			pos++
		case b == '/' && pos+1 < end && content[pos+1] == '/':
			pos += 2
			for pos < end && content[pos] != '\n' {
				pos++
			}
		case b == '/' && pos+1 < end && content[pos+1] == '*':
			pos = skipBlockComment(content, pos+2, end)
		default:
			return pos
		}
	}
	return end
}

func skipBlockComment(content []byte, pos, end uint32) uint32 {
	depth := 1
	for pos < end {
		switch {
		case content[pos] == '/' && pos+1 < end && content[pos+1] == '*':
			depth++
			pos += 2
		case content[pos] == '*' && pos+1 < end && content[pos+1] == '/':
			depth--
			pos += 2
			if depth == 0 {
				return pos
			}
		default:
			pos++
		}
	}
	return end
}
