package metamodel

import (
	"fmt"
)

var (
	ErrUnknownNamespace     = fmt.Errorf("unknown namespace")
	ErrUnknownClass         = fmt.Errorf("unknown class")
	ErrUnknownDataType      = fmt.Errorf("unknown data type")
	ErrDuplicateClass       = fmt.Errorf("duplicate class name")
	ErrDuplicateFeatureName = fmt.Errorf("duplicate feature name")
	ErrContainmentCycle     = fmt.Errorf("containment cycle")
	ErrInheritanceCycle     = fmt.Errorf("inheritance cycle")
	ErrSealed               = fmt.Errorf("descriptor is sealed")
	ErrConflictingPackage   = fmt.Errorf("conflicting package registration")
	ErrInvalidDefinition    = fmt.Errorf("invalid definition")
)
