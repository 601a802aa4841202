package encoding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mandelsoft/emodel/pkg/metamodel"
	"github.com/mandelsoft/emodel/pkg/model"
)

// Loader builds a resource while a document is read. Cross references
// are recorded and resolved by Finish, after the complete object tree
// is known.
type Loader struct {
	registry *metamodel.Registry
	factory  *model.Factory
	resource *model.Resource
	ids      map[string]*model.Object
	deferred []deferred
}

type deferred struct {
	object   *model.Object
	feature  *metamodel.Feature
	pointers []string
	location string
}

func NewLoader(reg *metamodel.Registry, uri string) *Loader {
	return &Loader{
		registry: reg,
		factory:  model.NewFactory(reg),
		resource: model.NewResource(uri),
		ids:      map[string]*model.Object{},
	}
}

// ResolveClass resolves an element type.
func (l *Loader) ResolveClass(uri, name, location string) (*metamodel.Class, error) {
	c, err := l.registry.ResolveClass(uri, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", location, ErrUnresolvedType, err)
	}
	return c, nil
}

// Instantiate creates an object of the given class. If expected is
// given, the class must be compatible with it.
func (l *Loader) Instantiate(c *metamodel.Class, expected *metamodel.Class, location string) (*model.Object, error) {
	if expected != nil && !c.IsA(expected) {
		return nil, fmt.Errorf("%s: %w: %s is no %s", location, model.ErrTypeMismatch, c.QualifiedName(), expected.QualifiedName())
	}
	o, err := l.factory.Instantiate(c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return o, nil
}

// Feature looks up a feature of the class of an object.
func (l *Loader) Feature(o *model.Object, name, location string) (*metamodel.Feature, error) {
	f := o.Class().Feature(name)
	if f == nil {
		return nil, fmt.Errorf("%s: %w %q in class %s", location, model.ErrUnknownFeature, name, o.Class().QualifiedName())
	}
	return f, nil
}

func (l *Loader) SetID(o *model.Object, id, location string) error {
	if id == "" {
		return nil
	}
	if other := l.ids[id]; other != nil {
		return fmt.Errorf("%s: %w: duplicate id %q", location, ErrInvalidDocument, id)
	}
	l.ids[id] = o
	o.SetID(id)
	return nil
}

// SetAttribute parses the textual value of an attribute according to
// its data type and sets or, for many valued attributes, appends it.
func (l *Loader) SetAttribute(o *model.Object, f *metamodel.Feature, text, location string) error {
	if !f.IsAttribute() {
		return fmt.Errorf("%s: %w: %s is no attribute", location, ErrInvalidDocument, f)
	}
	v, err := f.DataType().Parse(text)
	if err != nil {
		return fmt.Errorf("%s: %w: %s: %q is no valid %s: %s", location, ErrMalformedValue, f, text, f.DataType().Name(), err)
	}
	if f.IsMany() {
		err = o.Append(f.Name(), v)
	} else {
		if set, _ := o.IsSet(f.Name()); set {
			return fmt.Errorf("%s: %w: multiple values for single valued %s", location, ErrInvalidDocument, f)
		}
		err = o.Set(f.Name(), v)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", location, err)
	}
	return nil
}

// Contain adds a child to a containment reference.
func (l *Loader) Contain(parent *model.Object, f *metamodel.Feature, child *model.Object, location string) error {
	var err error
	if !f.IsContainment() {
		return fmt.Errorf("%s: %w: %s is no containment reference", location, ErrInvalidDocument, f)
	}
	if f.IsMany() {
		err = parent.Append(f.Name(), child)
	} else {
		if set, _ := parent.IsSet(f.Name()); set {
			return fmt.Errorf("%s: %w: multiple values for single valued %s", location, ErrInvalidDocument, f)
		}
		err = parent.Set(f.Name(), child)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", location, err)
	}
	return nil
}

// Defer records the pointers of a non-containment reference.
func (l *Loader) Defer(o *model.Object, f *metamodel.Feature, pointers []string, location string) error {
	if !f.IsReference() || f.IsContainment() {
		return fmt.Errorf("%s: %w: %s is no cross reference", location, ErrInvalidDocument, f)
	}
	l.deferred = append(l.deferred, deferred{o, f, pointers, location})
	return nil
}

// SplitPointers splits a whitespace separated pointer list.
func SplitPointers(s string) []string {
	return strings.Fields(s)
}

func (l *Loader) AddRoot(o *model.Object) error {
	return l.resource.Append(o)
}

// Finish resolves all recorded cross references and returns the
// resource.
func (l *Loader) Finish() (*model.Resource, error) {
	for _, d := range l.deferred {
		if !d.feature.IsMany() && len(d.pointers) > 1 {
			return nil, fmt.Errorf("%s: %w: multiple targets for single valued %s", d.location, ErrInvalidDocument, d.feature)
		}
		for _, p := range d.pointers {
			t, err := l.resolve(p)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", d.location, d.feature, err)
			}
			if d.feature.IsMany() {
				err = d.object.Append(d.feature.Name(), t)
			} else {
				err = d.object.Set(d.feature.Name(), t)
			}
			if err != nil {
				return nil, fmt.Errorf("%s: %w", d.location, err)
			}
		}
	}
	log.Debug("loaded resource {{uri}} with {{roots}} roots and {{refs}} cross references",
		"uri", l.resource.URI(), "roots", len(l.resource.Roots()), "refs", len(l.deferred))
	return l.resource, nil
}

func (l *Loader) resolve(p string) (*model.Object, error) {
	if base, frag, ok := strings.Cut(p, "#"); ok {
		if base != "" && base != l.resource.URI() {
			return nil, fmt.Errorf("%w %q: references to other documents are not supported", ErrDanglingReference, p)
		}
		o, err := l.resource.Resolve(frag)
		if err != nil {
			if errors.Is(err, model.ErrInvalidFragment) {
				return nil, fmt.Errorf("%w %q: %s", ErrMalformedValue, p, err)
			}
			return nil, fmt.Errorf("%w %q: %s", ErrDanglingReference, p, err)
		}
		return o, nil
	}
	if strings.HasPrefix(p, "/") {
		o, err := l.resource.Resolve(p)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %s", ErrDanglingReference, p, err)
		}
		return o, nil
	}
	if o := l.ids[p]; o != nil {
		return o, nil
	}
	return nil, fmt.Errorf("%w %q: no object with this id", ErrDanglingReference, p)
}
