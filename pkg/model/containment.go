package model

import (
	"fmt"
	"slices"

	"github.com/mandelsoft/emodel/pkg/metamodel"
)

// Container returns the containing object or nil.
func (o *Object) Container() *Object {
	return o.container
}

// ContainingFeature returns the containment reference of the
// container holding the object.
func (o *Object) ContainingFeature() *metamodel.Feature {
	return o.feature
}

// Resource returns the resource the object is a root of.
func (o *Object) Resource() *Resource {
	return o.resource
}

// Root returns the top-most container.
func (o *Object) Root() *Object {
	r := o
	for r.container != nil {
		r = r.container
	}
	return r
}

// Contents returns the directly contained objects, ordered by
// feature declaration and list position.
func (o *Object) Contents() []*Object {
	var r []*Object
	for _, f := range o.class.AllFeatures() {
		if !f.IsContainment() {
			continue
		}
		s := o.slots[f]
		if f.IsMany() {
			r = append(r, s.objects...)
		} else if s.object != nil {
			r = append(r, s.object)
		}
	}
	return r
}

// isContainedIn checks whether o is c or (transitively) contained by c.
func (o *Object) isContainedIn(c *Object) bool {
	for p := o; p != nil; p = p.container {
		if p == c {
			return true
		}
	}
	return false
}

func (o *Object) checkAdopt(op string, f *metamodel.Feature, child *Object) error {
	if child.container != nil {
		return o.fail(op, f.Name(), child, fmt.Errorf("%w by %s.%s", ErrAlreadyContained, child.container.class.Name(), child.feature.Name()))
	}
	if child.resource != nil {
		return o.fail(op, f.Name(), child, fmt.Errorf("%w: root of resource %q", ErrAlreadyContained, child.resource.uri))
	}
	return o.checkCycle(op, f, child)
}

func (o *Object) checkCycle(op string, f *metamodel.Feature, child *Object) error {
	if o.isContainedIn(child) {
		return o.fail(op, f.Name(), child, fmt.Errorf("%w: object would contain itself", ErrContainmentCycle))
	}
	return nil
}

func (o *Object) attach(parent *Object, f *metamodel.Feature) {
	o.container = parent
	o.feature = f
}

// release forgets the container without touching its slots.
func (o *Object) release() {
	o.container = nil
	o.feature = nil
}

// detach removes the object from its container slot or resource.
func (o *Object) detach() {
	if p := o.container; p != nil {
		s := p.slots[o.feature]
		if o.feature.IsMany() {
			s.objects = slices.DeleteFunc(s.objects, func(e *Object) bool { return e == o })
		} else {
			s.object = nil
		}
		o.release()
	}
	if r := o.resource; r != nil {
		r.roots = slices.DeleteFunc(r.roots, func(e *Object) bool { return e == o })
		o.resource = nil
	}
}

// Append adds a value to a many valued feature. An object appended
// to a containment reference must not already be contained elsewhere
// or be a resource root; use MoveUnder to re-parent it.
func (o *Object) Append(name string, value any) error {
	f, s, err := o.lookup("append", name)
	if err != nil {
		return err
	}
	if !f.IsMany() {
		return o.fail("append", name, value, ErrSingleValued)
	}
	if f.IsAttribute() {
		if value == nil || !f.DataType().Accepts(value) {
			return o.fail("append", name, value, fmt.Errorf("%w: expected %s", ErrTypeMismatch, f.DataType().Name()))
		}
		s.values = append(s.values, value)
		return nil
	}
	v, err := o.checkTarget("append", f, value)
	if err != nil {
		return err
	}
	if f.IsContainment() {
		if err := o.checkAdopt("append", f, v); err != nil {
			return err
		}
		v.attach(o, f)
	}
	s.objects = append(s.objects, v)
	return nil
}

// Remove removes a value from a feature. Objects removed from a
// containment reference become parentless, they are not deleted.
func (o *Object) Remove(name string, value any) error {
	f, s, err := o.lookup("remove", name)
	if err != nil {
		return err
	}
	switch {
	case f.IsAttribute() && f.IsMany():
		i := slices.Index(s.values, value)
		if i < 0 {
			return o.fail("remove", name, value, ErrNotReferenced)
		}
		s.values = slices.Delete(s.values, i, i+1)
	case f.IsAttribute():
		if !s.set || s.value != value {
			return o.fail("remove", name, value, ErrNotReferenced)
		}
		o.unset(f)
	case f.IsMany():
		v, _ := value.(*Object)
		i := slices.Index(s.objects, v)
		if v == nil || i < 0 {
			return o.fail("remove", name, value, ErrNotReferenced)
		}
		s.objects = slices.Delete(s.objects, i, i+1)
		if f.IsContainment() {
			v.release()
		}
	default:
		v, _ := value.(*Object)
		if v == nil || s.object != v {
			return o.fail("remove", name, value, ErrNotReferenced)
		}
		o.unset(f)
	}
	return nil
}

// MoveUnder re-parents child into the containment reference name of
// parent. The child is detached from its former container or resource
// and attached to the new parent in one step. If the move is rejected,
// neither side is modified. Moving into a single valued reference
// detaches the object held so far.
func MoveUnder(parent *Object, name string, child *Object) error {
	f, s, err := parent.lookup("move", name)
	if err != nil {
		return err
	}
	if !f.IsContainment() {
		return parent.fail("move", name, child, ErrNotContainment)
	}
	if _, err := parent.checkTarget("move", f, child); err != nil {
		return err
	}
	if err := parent.checkCycle("move", f, child); err != nil {
		return err
	}

	child.detach()
	if f.IsMany() {
		s.objects = append(s.objects, child)
	} else {
		if s.object != nil {
			s.object.release()
		}
		s.object = child
	}
	child.attach(parent, f)
	log.Trace("moved {{child}} under {{feature}}", "child", child, "feature", f)
	return nil
}
