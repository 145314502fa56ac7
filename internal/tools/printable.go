// Package tools holds small string helpers shared by the codec and
// session logging.
package tools

import "unicode"

// Printable strips non-printable runes from s, so a raw command or
// reply line is safe to put in a structured log field.
func Printable(s string) string {
	var result []rune
	for _, r := range s {
		if unicode.IsPrint(r) {
			result = append(result, r)
		}
	}
	return string(result)
}
