package schema

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/atomstore/internal/atom"
)

// Normalize renders an atom to its comparison key: the atom's text with
// every double quote removed, in NFC. Lists are rendered serialized.
//
// Normalize(String("no of days")) == Normalize(Symbol("no of days")) ==
// "no of days".
func Normalize(a atom.Atom) string {
	if a == nil {
		return ""
	}
	text := a.Text()
	if strings.ContainsRune(text, '"') {
		text = strings.ReplaceAll(text, `"`, "")
	}
	return norm.NFC.String(text)
}
