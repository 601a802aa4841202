package model

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/mandelsoft/emodel/pkg/metamodel"
)

// Object is an instance of a class. Feature values are kept
// in typed slots keyed by the feature descriptor. Every access is
// validated against the feature model of the class.
type Object struct {
	class *metamodel.Class
	slots map[*metamodel.Feature]*slot

	container *Object
	feature   *metamodel.Feature
	resource  *Resource

	id string
}

type slot struct {
	set     bool
	value   any
	values  []any
	object  *Object
	objects []*Object
}

func newObject(c *metamodel.Class) *Object {
	o := &Object{
		class: c,
		slots: map[*metamodel.Feature]*slot{},
	}
	for _, f := range c.AllFeatures() {
		s := &slot{}
		if f.IsAttribute() && !f.IsMany() {
			s.value = f.DataType().Default()
		}
		o.slots[f] = s
	}
	return o
}

func (o *Object) Class() *metamodel.Class {
	return o.class
}

// ID returns the object identifier used by ID based serialization.
func (o *Object) ID() string {
	return o.id
}

func (o *Object) SetID(id string) {
	o.id = id
}

// EnsureID assigns a random UUID if the object has no identifier yet.
func (o *Object) EnsureID() string {
	if o.id == "" {
		o.id = uuid.NewString()
	}
	return o.id
}

func (o *Object) String() string {
	if f := o.class.IDAttribute(); f != nil {
		if s := o.slots[f]; s.set {
			return fmt.Sprintf("%s[%v]", o.class.Name(), s.value)
		}
	}
	if o.id != "" {
		return fmt.Sprintf("%s[%s]", o.class.Name(), o.id)
	}
	return o.class.Name()
}

// Setting is a feature with its actual value.
type Setting struct {
	Feature *metamodel.Feature
	Value   any
	IsSet   bool
}

// Settings returns the value of every feature of the object's class,
// in feature order.
func (o *Object) Settings() []Setting {
	var r []Setting
	for _, f := range o.class.AllFeatures() {
		r = append(r, Setting{Feature: f, Value: o.get(f), IsSet: o.isSet(f)})
	}
	return r
}

func (o *Object) lookup(op, name string) (*metamodel.Feature, *slot, error) {
	f := o.class.Feature(name)
	if f == nil {
		return nil, nil, o.fail(op, name, nil, ErrUnknownFeature)
	}
	return f, o.slots[f], nil
}

// Get returns the value of a feature. Single valued attributes
// provide their value or the default, single valued references an
// *Object or nil, many valued attributes a []any and many valued
// references a []*Object.
func (o *Object) Get(name string) (any, error) {
	f, _, err := o.lookup("get", name)
	if err != nil {
		return nil, err
	}
	return o.get(f), nil
}

func (o *Object) get(f *metamodel.Feature) any {
	s := o.slots[f]
	switch {
	case f.IsAttribute() && f.IsMany():
		return slices.Clone(s.values)
	case f.IsAttribute():
		return s.value
	case f.IsMany():
		return slices.Clone(s.objects)
	default:
		if s.object == nil {
			return nil
		}
		return s.object
	}
}

// Values returns the values of a many valued attribute.
func (o *Object) Values(name string) ([]any, error) {
	f, s, err := o.lookup("get", name)
	if err != nil {
		return nil, err
	}
	if !f.IsAttribute() || !f.IsMany() {
		return nil, o.fail("get", name, nil, fmt.Errorf("%w: no many valued attribute", ErrTypeMismatch))
	}
	return slices.Clone(s.values), nil
}

// Objects returns the targets of a reference. For single valued
// references the list contains at most one element.
func (o *Object) Objects(name string) ([]*Object, error) {
	f, s, err := o.lookup("get", name)
	if err != nil {
		return nil, err
	}
	if !f.IsReference() {
		return nil, o.fail("get", name, nil, fmt.Errorf("%w: no reference", ErrTypeMismatch))
	}
	if f.IsMany() {
		return slices.Clone(s.objects), nil
	}
	if s.object == nil {
		return nil, nil
	}
	return []*Object{s.object}, nil
}

// Object returns the target of a single valued reference.
func (o *Object) Object(name string) (*Object, error) {
	f, s, err := o.lookup("get", name)
	if err != nil {
		return nil, err
	}
	if !f.IsReference() || f.IsMany() {
		return nil, o.fail("get", name, nil, fmt.Errorf("%w: no single valued reference", ErrTypeMismatch))
	}
	return s.object, nil
}

// IsSet reports whether a feature has a value different from its
// initial state.
func (o *Object) IsSet(name string) (bool, error) {
	f, _, err := o.lookup("isset", name)
	if err != nil {
		return false, err
	}
	return o.isSet(f), nil
}

func (o *Object) isSet(f *metamodel.Feature) bool {
	s := o.slots[f]
	switch {
	case f.IsAttribute() && f.IsMany():
		return len(s.values) > 0
	case f.IsAttribute():
		return s.set
	case f.IsMany():
		return len(s.objects) > 0
	default:
		return s.object != nil
	}
}

// Set sets a single valued feature. A nil value unsets the feature.
func (o *Object) Set(name string, value any) error {
	f, s, err := o.lookup("set", name)
	if err != nil {
		return err
	}
	if f.IsMany() {
		return o.fail("set", name, value, ErrMultiValued)
	}
	if v, ok := value.(*Object); value == nil || ok && v == nil {
		o.unset(f)
		return nil
	}
	if f.IsAttribute() {
		if !f.DataType().Accepts(value) {
			return o.fail("set", name, value, fmt.Errorf("%w: expected %s", ErrTypeMismatch, f.DataType().Name()))
		}
		s.value = value
		s.set = true
		return nil
	}

	v, err := o.checkTarget("set", f, value)
	if err != nil {
		return err
	}
	if v == s.object {
		return nil
	}
	if f.IsContainment() {
		if err := o.checkAdopt("set", f, v); err != nil {
			return err
		}
		if s.object != nil {
			s.object.release()
		}
		v.attach(o, f)
	}
	s.object = v
	return nil
}

// Unset resets a feature to its initial state. Contained objects
// are detached, not deleted.
func (o *Object) Unset(name string) error {
	f, _, err := o.lookup("unset", name)
	if err != nil {
		return err
	}
	o.unset(f)
	return nil
}

func (o *Object) unset(f *metamodel.Feature) {
	s := o.slots[f]
	if f.IsContainment() {
		if s.object != nil {
			s.object.release()
		}
		for _, c := range s.objects {
			c.release()
		}
	}
	*s = slot{}
	if f.IsAttribute() && !f.IsMany() {
		s.value = f.DataType().Default()
	}
}

func (o *Object) checkTarget(op string, f *metamodel.Feature, value any) (*Object, error) {
	v, ok := value.(*Object)
	if !ok || v == nil {
		return nil, o.fail(op, f.Name(), value, fmt.Errorf("%w: expected object of class %s", ErrTypeMismatch, f.Target().Name()))
	}
	if !v.class.IsA(f.Target()) {
		return nil, o.fail(op, f.Name(), value, fmt.Errorf("%w: class %s is no %s", ErrTypeMismatch, v.class.Name(), f.Target().Name()))
	}
	return v, nil
}
