package model

import (
	"fmt"
)

var (
	ErrUnknownFeature     = fmt.Errorf("unknown feature")
	ErrTypeMismatch       = fmt.Errorf("type mismatch")
	ErrMultiValued        = fmt.Errorf("feature is multi-valued")
	ErrSingleValued       = fmt.Errorf("feature is single-valued")
	ErrAlreadyContained   = fmt.Errorf("already contained")
	ErrContainmentCycle   = fmt.Errorf("containment cycle")
	ErrNotContainment     = fmt.Errorf("no containment reference")
	ErrNotReferenced      = fmt.Errorf("value not referenced")
	ErrAbstractClass      = fmt.Errorf("abstract class")
	ErrNotInResource      = fmt.Errorf("object not in resource")
	ErrInvalidFragment    = fmt.Errorf("invalid URI fragment")
	ErrStructuralMismatch = fmt.Errorf("structural mismatch")
)

// FeatureError describes a rejected feature access. The object
// is left unchanged.
type FeatureError struct {
	Op      string
	Class   string
	Feature string
	Value   any
	Err     error
}

func (e *FeatureError) Error() string {
	msg := fmt.Sprintf("%s %s.%s: %s", e.Op, e.Class, e.Feature, e.Err)
	if e.Value != nil {
		msg += fmt.Sprintf(" (value %v of type %T)", e.Value, e.Value)
	}
	return msg
}

func (e *FeatureError) Unwrap() error {
	return e.Err
}

func (o *Object) fail(op, feature string, value any, err error) error {
	return &FeatureError{
		Op:      op,
		Class:   o.class.Name(),
		Feature: feature,
		Value:   value,
		Err:     err,
	}
}
