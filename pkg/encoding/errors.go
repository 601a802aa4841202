package encoding

import (
	"fmt"
)

var (
	ErrUnresolvedType    = fmt.Errorf("unresolved type")
	ErrMalformedValue    = fmt.Errorf("malformed value")
	ErrDanglingReference = fmt.Errorf("dangling reference")
	ErrInvalidDocument   = fmt.Errorf("invalid document")
	ErrUnknownFormat     = fmt.Errorf("unknown format")
	ErrUnrepresentable   = fmt.Errorf("unrepresentable value")
)
