package metamodel

import (
	"fmt"
	"slices"
)

// Class is a class descriptor. It is created by its Package
// and becomes immutable once the package is registered.
type Class struct {
	name     string
	pkg      *Package
	super    *Class
	abstract bool
	features []*Feature
}

type ClassOption func(c *Class) error

func Abstract() ClassOption {
	return func(c *Class) error {
		c.abstract = true
		return nil
	}
}

func Extends(super *Class) ClassOption {
	return func(c *Class) error {
		return c.SetSuper(super)
	}
}

func (c *Class) Name() string {
	return c.name
}

func (c *Class) Package() *Package {
	return c.pkg
}

// QualifiedName returns the class name qualified by the
// namespace URI of its package.
func (c *Class) QualifiedName() string {
	return c.pkg.uri + "#" + c.name
}

func (c *Class) Super() *Class {
	return c.super
}

func (c *Class) IsAbstract() bool {
	return c.abstract
}

func (c *Class) String() string {
	return c.name
}

// IsA checks whether c is the given class or a subclass of it.
func (c *Class) IsA(o *Class) bool {
	for s := c; s != nil; s = s.super {
		if s == o {
			return true
		}
	}
	return false
}

// Ancestors lists the superclass chain, the direct superclass first.
func (c *Class) Ancestors() []*Class {
	var r []*Class
	for s := c.super; s != nil; s = s.super {
		r = append(r, s)
	}
	return r
}

// Features returns the features declared by the class itself.
func (c *Class) Features() []*Feature {
	return slices.Clone(c.features)
}

// AllFeatures returns the inherited features followed by the own
// features, each group in declaration order.
func (c *Class) AllFeatures() []*Feature {
	if c.super == nil {
		return slices.Clone(c.features)
	}
	return append(c.super.AllFeatures(), c.features...)
}

// Feature looks up a feature by name on the class or an ancestor.
func (c *Class) Feature(name string) *Feature {
	for s := c; s != nil; s = s.super {
		for _, f := range s.features {
			if f.name == name {
				return f
			}
		}
	}
	return nil
}

// IDAttribute returns the identifying attribute, if any.
func (c *Class) IDAttribute() *Feature {
	for _, f := range c.AllFeatures() {
		if f.id {
			return f
		}
	}
	return nil
}

func (c *Class) checkModifiable() error {
	if c.pkg.sealed {
		return fmt.Errorf("%w: class %q of package %q", ErrSealed, c.name, c.pkg.uri)
	}
	return nil
}

// SetSuper sets the single superclass. Inheritance cycles, name
// collisions and containment cycles introduced by the new
// superclass are rejected and leave the class unchanged.
func (c *Class) SetSuper(super *Class) error {
	if err := c.checkModifiable(); err != nil {
		return err
	}
	if super != nil && super.IsA(c) {
		return fmt.Errorf("%w: %s cannot extend %s", ErrInheritanceCycle, c.name, super.name)
	}
	old := c.super
	c.super = super
	if err := c.checkHierarchy(); err != nil {
		c.super = old
		return err
	}
	return nil
}

// checkHierarchy validates the name uniqueness and the containment
// invariant for the class and all its known subclasses.
func (c *Class) checkHierarchy() error {
	for _, s := range c.pkg.classes {
		if !s.IsA(c) {
			continue
		}
		seen := map[string]*Feature{}
		for _, f := range s.AllFeatures() {
			if o := seen[f.name]; o != nil {
				return fmt.Errorf("%w: %s collides with %s in class %s", ErrDuplicateFeatureName, f, o, s.name)
			}
			seen[f.name] = f
			if f.containment {
				if path := containmentPath(s, f.target); path != nil {
					return fmt.Errorf("%w: %s", ErrContainmentCycle, describePath(f, path))
				}
			}
		}
	}
	return nil
}

func (c *Class) checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: feature without name in class %q", ErrInvalidDefinition, c.name)
	}
	if err := checkIdentifier("feature", name); err != nil {
		return err
	}
	if f := c.Feature(name); f != nil {
		return fmt.Errorf("%w: %q already declared by %s", ErrDuplicateFeatureName, name, f)
	}
	for _, s := range c.pkg.classes {
		if s != c && s.IsA(c) {
			for _, f := range s.features {
				if f.name == name {
					return fmt.Errorf("%w: %q already declared by subclass feature %s", ErrDuplicateFeatureName, name, f)
				}
			}
		}
	}
	return nil
}

// DefineAttribute adds a primitive valued feature.
func (c *Class) DefineAttribute(name string, typ DataType, mult Multiplicity, opts ...FeatureOption) (*Feature, error) {
	if err := c.checkModifiable(); err != nil {
		return nil, err
	}
	if err := c.checkName(name); err != nil {
		return nil, err
	}
	if typ == nil {
		return nil, fmt.Errorf("%w: attribute %s.%s without data type", ErrInvalidDefinition, c.name, name)
	}
	f := &Feature{
		name:     name,
		kind:     Attribute,
		owner:    c,
		dataType: typ,
		many:     mult == Many,
	}
	for _, o := range opts {
		o(f)
	}
	if f.id {
		if f.many {
			return nil, fmt.Errorf("%w: identifying attribute %s must be single valued", ErrInvalidDefinition, f)
		}
		if id := c.IDAttribute(); id != nil {
			return nil, fmt.Errorf("%w: class %q already has identifying attribute %s", ErrInvalidDefinition, c.name, id)
		}
	}
	c.features = append(c.features, f)
	return f, nil
}

// DefineReference adds an object valued feature. Containment
// references must not allow an instance to (transitively) contain
// itself.
func (c *Class) DefineReference(name string, target *Class, containment bool, mult Multiplicity) (*Feature, error) {
	if err := c.checkModifiable(); err != nil {
		return nil, err
	}
	if err := c.checkName(name); err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("%w: reference %s.%s without target class", ErrInvalidDefinition, c.name, name)
	}
	f := &Feature{
		name:        name,
		kind:        Reference,
		owner:       c,
		target:      target,
		containment: containment,
		many:        mult == Many,
	}
	if containment {
		for _, s := range c.pkg.classes {
			if !s.IsA(c) {
				continue
			}
			if path := containmentPath(s, target); path != nil {
				return nil, fmt.Errorf("%w: %s", ErrContainmentCycle, describePath(f, path))
			}
		}
	}
	c.features = append(c.features, f)
	return f, nil
}
