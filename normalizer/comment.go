package normalizer

import "strings"

// lineMarkers are comment wrappers recognised at the start of a line
var lineMarkers = []string{"/**", "/*", "*/", "<!--", "//", "#", "*"}

// trailingMarkers are comment wrappers recognised at the end of a line
var trailingMarkers = []string{"*/", "-->"}

// commentState carries block comment context from one line to the next
type commentState struct {
	inBlock bool
}

// blankLeading replaces leading comment wrappers with spaces so that
// token columns keep pointing at the original text.
// A leading "*" is a gutter only inside a block comment, and only one is taken per line.
func (s *commentState) blankLeading(line []rune) {
	start := skipSpaces(line, 0)
	gutter := false
	for start < len(line) {
		end, marker := s.leadingMarker(line, start, gutter)
		if marker == "" {
			return
		}
		switch marker {
		case "/**", "/*":
			s.inBlock = true
		case "*/":
			s.inBlock = false
		case "*":
			gutter = true
		}
		blank(line, start, end)
		start = skipSpaces(line, end)
	}
}

// blankTrailing removes a closing wrapper at the end of line
func (s *commentState) blankTrailing(line []rune) {
	end := len(line)
	for end > 0 && isSpace(line[end-1]) {
		end--
	}
	for _, marker := range trailingMarkers {
		if end < len(marker) || string(line[end-len(marker):end]) != marker {
			continue
		}
		from := end - len(marker)
		for from > 0 && line[from-1] == '*' {
			from--
		}
		blank(line, from, end)
		if marker == "*/" {
			s.inBlock = false
		}
		return
	}
}

// leadingMarker returns the end of the comment marker starting at offset
func (s *commentState) leadingMarker(line []rune, offset int, gutter bool) (int, string) {
	if isRemark(line, offset) {
		return offset + 3, "rem"
	}
	for _, marker := range lineMarkers {
		if !hasPrefixAt(line, offset, marker) {
			continue
		}
		end := offset + len(marker)
		switch marker {
		case "//", "#":
			for end < len(line) && line[end] == line[offset] {
				end++
			}
		case "*":
			if !s.inBlock || gutter {
				return 0, ""
			}
			if end < len(line) && !isSpace(line[end]) && line[end] != '/' {
				return 0, ""
			}
		}
		return end, marker
	}
	return 0, ""
}

// isRemark detects batch file REM comments, in any letter case
func isRemark(line []rune, offset int) bool {
	if offset+3 > len(line) || !strings.EqualFold(string(line[offset:offset+3]), "rem") {
		return false
	}
	return offset+3 == len(line) || isSpace(line[offset+3])
}

func hasPrefixAt(line []rune, offset int, prefix string) bool {
	i := offset
	for _, r := range prefix {
		if i >= len(line) || line[i] != r {
			return false
		}
		i++
	}
	return true
}

func skipSpaces(line []rune, offset int) int {
	for offset < len(line) && isSpace(line[offset]) {
		offset++
	}
	return offset
}

func blank(line []rune, from, to int) {
	for i := from; i < to; i++ {
		line[i] = ' '
	}
}
