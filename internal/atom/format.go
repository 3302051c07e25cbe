package atom

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Serialize renders an atom in record notation. It is the syntactic inverse
// of ParseRecord:
//   - Symbol and Number are written bare
//   - String is wrapped in double quotes, with '"' and '\' escaped
//   - List is wrapped in parens with single spaces between children and no
//     trailing space
//
// Text is NFC normalized at this boundary so that equal records serialize to
// identical bytes.
func Serialize(a Atom) string {
	var sb strings.Builder
	writeAtom(&sb, a)
	return sb.String()
}

func writeAtom(sb *strings.Builder, a Atom) {
	switch v := a.(type) {
	case Symbol:
		sb.WriteString(norm.NFC.String(string(v)))
	case Number:
		sb.WriteString(string(v))
	case String:
		writeQuoted(sb, norm.NFC.String(string(v)))
	case List:
		sb.WriteByte('(')
		for i, child := range v {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeAtom(sb, child)
		}
		sb.WriteByte(')')
	}
}

func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	sb.WriteByte('"')
}
