package model

import (
	"fmt"

	"github.com/mandelsoft/emodel/pkg/metamodel"
)

// Factory creates objects for classes of the packages
// registered with its registry.
type Factory struct {
	registry *metamodel.Registry
}

func NewFactory(reg *metamodel.Registry) *Factory {
	return &Factory{registry: reg}
}

func (f *Factory) Registry() *metamodel.Registry {
	return f.registry
}

// Instantiate creates a new object with all features initialized
// to their defaults.
func (f *Factory) Instantiate(c *metamodel.Class) (*Object, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: no class given", metamodel.ErrUnknownClass)
	}
	if !f.registry.IsRegistered(c.Package()) {
		return nil, fmt.Errorf("%w: package %q of class %s is not registered", metamodel.ErrUnknownNamespace, c.Package().URI(), c.Name())
	}
	if c.IsAbstract() {
		return nil, fmt.Errorf("%w: %s cannot be instantiated", ErrAbstractClass, c.QualifiedName())
	}
	return newObject(c), nil
}

// Create resolves a class and instantiates it.
func (f *Factory) Create(uri, name string) (*Object, error) {
	c, err := f.registry.ResolveClass(uri, name)
	if err != nil {
		return nil, err
	}
	return f.Instantiate(c)
}
