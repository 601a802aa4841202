package metamodel

import (
	"fmt"
)

type FeatureKind string

const (
	Attribute FeatureKind = "attribute"
	Reference FeatureKind = "reference"
)

type Multiplicity int

const (
	Single Multiplicity = iota
	Many
)

func (m Multiplicity) String() string {
	if m == Many {
		return "*"
	}
	return "1"
}

// Feature describes a structural feature of a class,
// either a primitive valued attribute or an object valued
// reference.
type Feature struct {
	name        string
	kind        FeatureKind
	owner       *Class
	dataType    DataType
	target      *Class
	containment bool
	many        bool
	id          bool
}

type FeatureOption func(f *Feature)

// AsID marks an attribute as the identifying attribute of its class.
// Its value is used to address objects in cross references.
func AsID() FeatureOption {
	return func(f *Feature) {
		f.id = true
	}
}

func (f *Feature) Name() string {
	return f.name
}

func (f *Feature) Kind() FeatureKind {
	return f.kind
}

func (f *Feature) Owner() *Class {
	return f.owner
}

// DataType returns the value type of an attribute.
func (f *Feature) DataType() DataType {
	return f.dataType
}

// Target returns the target class of a reference.
func (f *Feature) Target() *Class {
	return f.target
}

func (f *Feature) IsAttribute() bool {
	return f.kind == Attribute
}

func (f *Feature) IsReference() bool {
	return f.kind == Reference
}

func (f *Feature) IsContainment() bool {
	return f.containment
}

func (f *Feature) IsMany() bool {
	return f.many
}

func (f *Feature) Multiplicity() Multiplicity {
	if f.many {
		return Many
	}
	return Single
}

func (f *Feature) IsID() bool {
	return f.id
}

func (f *Feature) String() string {
	return fmt.Sprintf("%s.%s", f.owner.Name(), f.name)
}

func (f *Feature) typeName() string {
	if f.kind == Attribute {
		return f.dataType.Name()
	}
	return f.target.Name()
}
