package metamodel

import (
	"fmt"
	"strings"
	"unicode"
)

// IsNCName checks whether a name can be used as unprefixed XML name.
func IsNCName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)):
		default:
			return false
		}
	}
	return true
}

// checkIdentifier validates class and feature names and namespace
// prefixes. Names starting with xml are reserved by XML.
func checkIdentifier(kind, name string) error {
	if !IsNCName(name) {
		return fmt.Errorf("%w: %s name %q is no valid identifier", ErrInvalidDefinition, kind, name)
	}
	if strings.HasPrefix(strings.ToLower(name), "xml") {
		return fmt.Errorf("%w: %s name %q uses the reserved prefix xml", ErrInvalidDefinition, kind, name)
	}
	return nil
}
