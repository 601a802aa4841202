package encoding

import (
	"fmt"
	"unicode/utf8"
)

// CheckText checks whether a value can be written to a UTF-8
// encoded document.
func CheckText(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: %q is no valid UTF-8", ErrUnrepresentable, s)
	}
	return nil
}

// CheckXMLText additionally checks the characters against the
// XML 1.0 character range.
func CheckXMLText(s string) error {
	if err := CheckText(s); err != nil {
		return err
	}
	for _, r := range s {
		if !isXMLChar(r) {
			return fmt.Errorf("%w: %q contains character %U not allowed in XML", ErrUnrepresentable, s, r)
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	default:
		return r >= 0x10000 && r <= utf8.MaxRune
	}
}
