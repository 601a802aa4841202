package metamodel

import (
	"fmt"
	"sync"

	"github.com/mandelsoft/goutils/sliceutils"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// Registry maps namespace URIs to registered packages and
// provides the primitive data types.
// There is no implicit default registry, it has to be passed
// to all operations requiring type resolution.
type Registry struct {
	lock      sync.RWMutex
	packages  map[string]*Package
	order     []string
	datatypes map[string]DataType
}

func NewRegistry() *Registry {
	r := &Registry{
		packages:  map[string]*Package{},
		datatypes: map[string]DataType{},
	}
	for _, t := range PrimitiveTypes() {
		r.datatypes[t.Name()] = t
	}
	return r
}

// RegisterPackage validates and registers a package. On success the
// package is sealed. Registering the same package again, or a package
// with identical content for the same URI, returns the already
// registered descriptor. On failure nothing is registered.
func (r *Registry) RegisterPackage(p *Package) (*Package, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if old := r.packages[p.uri]; old != nil {
		if old == p || old.Fingerprint() == p.Fingerprint() {
			log.Debug("package {{uri}} already registered", "uri", p.uri)
			return old, nil
		}
		return nil, fmt.Errorf("%w: namespace %q is already registered with different content", ErrConflictingPackage, p.uri)
	}

	if err := r.validate(p); err != nil {
		log.Error("registration of package {{uri}} failed", "uri", p.uri, "error", err)
		return nil, fmt.Errorf("invalid package %q: %w", p.uri, err)
	}
	p.seal()
	r.packages[p.uri] = p
	r.order = append(r.order, p.uri)
	log.Info("registered package {{name}} ({{uri}}) with {{classes}} classes", "name", p.name, "uri", p.uri, "classes", len(p.classes))
	return p, nil
}

// MustRegisterPackage is RegisterPackage for statically defined
// packages.
func (r *Registry) MustRegisterPackage(p *Package) *Package {
	p, err := r.RegisterPackage(p)
	if err != nil {
		panic(err)
	}
	return p
}

func (r *Registry) known(c *Class, p *Package) bool {
	return c.pkg == p || r.packages[c.pkg.uri] == c.pkg
}

func (r *Registry) validate(p *Package) error {
	var errs []error

	if p.uri == "" {
		errs = append(errs, fmt.Errorf("%w: package %q requires a namespace URI", ErrInvalidDefinition, p.name))
	}
	if p.name == "" {
		errs = append(errs, fmt.Errorf("%w: package without name", ErrInvalidDefinition))
	}
	if p.prefix != "" {
		if err := checkIdentifier("prefix", p.prefix); err != nil {
			errs = append(errs, err)
		}
	}
	for _, c := range p.classes {
		if c.super != nil && !r.known(c.super, p) {
			errs = append(errs, fmt.Errorf("%w: superclass %s of class %q", ErrUnknownNamespace, c.super.QualifiedName(), c.name))
		}
		seen := map[string]*Feature{}
		for _, f := range c.AllFeatures() {
			if o := seen[f.name]; o != nil {
				errs = append(errs, fmt.Errorf("%w: %s collides with %s in class %s", ErrDuplicateFeatureName, f, o, c.name))
			}
			seen[f.name] = f
		}
		for _, f := range c.features {
			switch f.kind {
			case Attribute:
				if t := r.datatypes[f.dataType.Name()]; t == nil {
					errs = append(errs, fmt.Errorf("%w: %q used by %s", ErrUnknownDataType, f.dataType.Name(), f))
				}
			case Reference:
				if !r.known(f.target, p) {
					errs = append(errs, fmt.Errorf("%w: target %s of %s", ErrUnknownNamespace, f.target.QualifiedName(), f))
				}
				if f.containment {
					if path := containmentPath(c, f.target); path != nil {
						errs = append(errs, fmt.Errorf("%w: %s", ErrContainmentCycle, describePath(f, path)))
					}
				}
			}
		}
	}
	return utilerrors.NewAggregate(errs)
}

// ResolveClass looks up a class by namespace URI and class name.
func (r *Registry) ResolveClass(uri, name string) (*Class, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	p := r.packages[uri]
	if p == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownNamespace, uri)
	}
	c := p.Class(name)
	if c == nil {
		return nil, fmt.Errorf("%w %q in namespace %q", ErrUnknownClass, name, uri)
	}
	return c, nil
}

// ResolvePrimitiveType looks up a data type by its name or a short
// alias (String, Int, ...).
func (r *Registry) ResolvePrimitiveType(name string) (DataType, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if t := r.datatypes[name]; t != nil {
		return t, nil
	}
	if a, ok := aliases[name]; ok {
		if t := r.datatypes[a]; t != nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownDataType, name)
}

// Package returns the package registered for a namespace URI or nil.
func (r *Registry) Package(uri string) *Package {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.packages[uri]
}

// Packages returns all packages in registration order.
func (r *Registry) Packages() []*Package {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return sliceutils.Transform(r.order, func(uri string) *Package { return r.packages[uri] })
}

// IsRegistered checks whether exactly this package descriptor
// is registered.
func (r *Registry) IsRegistered(p *Package) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return p != nil && r.packages[p.uri] == p
}
