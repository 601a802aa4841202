package metamodel

import (
	"fmt"
	"slices"
)

// Package is a named collection of classes identified by a
// globally unique namespace URI.
type Package struct {
	name   string
	uri    string
	prefix string

	classes []*Class
	index   map[string]*Class
	sealed  bool
}

func NewPackage(name, uri, prefix string) *Package {
	return &Package{
		name:   name,
		uri:    uri,
		prefix: prefix,
		index:  map[string]*Class{},
	}
}

func (p *Package) Name() string {
	return p.name
}

func (p *Package) URI() string {
	return p.uri
}

// Prefix is the preferred namespace prefix used by serializers.
func (p *Package) Prefix() string {
	return p.prefix
}

// Classes returns the classes in definition order.
func (p *Package) Classes() []*Class {
	return slices.Clone(p.classes)
}

func (p *Package) Class(name string) *Class {
	return p.index[name]
}

// IsSealed reports whether the package has been registered
// and is therefore immutable.
func (p *Package) IsSealed() bool {
	return p.sealed
}

func (p *Package) String() string {
	return fmt.Sprintf("%s (%s)", p.name, p.uri)
}

// NewClass creates and adds a new class. If an option fails,
// the class is not added.
func (p *Package) NewClass(name string, opts ...ClassOption) (*Class, error) {
	if p.sealed {
		return nil, fmt.Errorf("%w: package %q", ErrSealed, p.uri)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: class without name in package %q", ErrInvalidDefinition, p.uri)
	}
	if err := checkIdentifier("class", name); err != nil {
		return nil, err
	}
	if p.index[name] != nil {
		return nil, fmt.Errorf("%w: %q in package %q", ErrDuplicateClass, name, p.uri)
	}
	c := &Class{name: name, pkg: p}
	p.classes = append(p.classes, c)
	p.index[name] = c
	for _, o := range opts {
		if err := o(c); err != nil {
			p.classes = p.classes[:len(p.classes)-1]
			delete(p.index, name)
			return nil, err
		}
	}
	return c, nil
}

// MustNewClass is NewClass for statically known, valid
// definitions.
func (p *Package) MustNewClass(name string, opts ...ClassOption) *Class {
	c, err := p.NewClass(name, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (p *Package) seal() {
	p.sealed = true
}
