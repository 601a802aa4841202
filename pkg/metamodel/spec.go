package metamodel

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mandelsoft/emodel/pkg/utils"
)

type FeatureSpecification struct {
	Name string      `json:"name"`
	Kind FeatureKind `json:"kind"`
	// Type is the data type name of an attribute.
	Type string `json:"type,omitempty"`
	// Target is the target class of a reference. Classes of other
	// packages are given as <namespace uri>#<class name>.
	Target      string `json:"target,omitempty"`
	Containment bool   `json:"containment,omitempty"`
	Many        bool   `json:"many,omitempty"`
	ID          bool   `json:"id,omitempty"`
}

type ClassSpecification struct {
	Name     string                 `json:"name"`
	Super    string                 `json:"super,omitempty"`
	Abstract bool                   `json:"abstract,omitempty"`
	Features []FeatureSpecification `json:"features,omitempty"`
}

type PackageSpecification struct {
	Name    string               `json:"name"`
	URI     string               `json:"uri"`
	Prefix  string               `json:"prefix,omitempty"`
	Classes []ClassSpecification `json:"classes,omitempty"`
}

func ClassSpec(name string, features ...FeatureSpecification) ClassSpecification {
	return ClassSpecification{
		Name:     name,
		Features: slices.Clone(features),
	}
}

func (s ClassSpecification) WithSuper(super string) ClassSpecification {
	s.Super = super
	return s
}

func (s ClassSpecification) AsAbstract() ClassSpecification {
	s.Abstract = true
	return s
}

func Attr(name, typ string) FeatureSpecification {
	return FeatureSpecification{Name: name, Kind: Attribute, Type: typ}
}

func Ref(name, target string, containment bool, mult Multiplicity) FeatureSpecification {
	return FeatureSpecification{Name: name, Kind: Reference, Target: target, Containment: containment, Many: mult == Many}
}

func (s FeatureSpecification) WithMany() FeatureSpecification {
	s.Many = true
	return s
}

func (s FeatureSpecification) AsID() FeatureSpecification {
	s.ID = true
	return s
}

func PackageSpec(name, uri, prefix string, classes ...ClassSpecification) PackageSpecification {
	return PackageSpecification{
		Name:    name,
		URI:     uri,
		Prefix:  prefix,
		Classes: slices.Clone(classes),
	}
}

// NewPackageFromSpec compiles a package specification into an
// unregistered package. Data types and foreign classes are
// resolved with the given registry.
func NewPackageFromSpec(spec PackageSpecification, reg *Registry) (*Package, error) {
	p := NewPackage(spec.Name, spec.URI, spec.Prefix)

	for _, c := range spec.Classes {
		var opts []ClassOption
		if c.Abstract {
			opts = append(opts, Abstract())
		}
		if _, err := p.NewClass(c.Name, opts...); err != nil {
			return nil, err
		}
	}

	for _, c := range spec.Classes {
		if c.Super == "" {
			continue
		}
		s, err := resolveClassRef(p, reg, c.Super)
		if err != nil {
			return nil, fmt.Errorf("superclass of class %q: %w", c.Name, err)
		}
		if err := p.Class(c.Name).SetSuper(s); err != nil {
			return nil, err
		}
	}

	for _, c := range spec.Classes {
		cls := p.Class(c.Name)
		for _, f := range c.Features {
			mult := Single
			if f.Many {
				mult = Many
			}
			switch f.Kind {
			case Attribute:
				t, err := reg.ResolvePrimitiveType(f.Type)
				if err != nil {
					return nil, fmt.Errorf("attribute %s.%s: %w", c.Name, f.Name, err)
				}
				var opts []FeatureOption
				if f.ID {
					opts = append(opts, AsID())
				}
				if _, err := cls.DefineAttribute(f.Name, t, mult, opts...); err != nil {
					return nil, err
				}
			case Reference:
				t, err := resolveClassRef(p, reg, f.Target)
				if err != nil {
					return nil, fmt.Errorf("reference %s.%s: %w", c.Name, f.Name, err)
				}
				if _, err := cls.DefineReference(f.Name, t, f.Containment, mult); err != nil {
					return nil, err
				}
			default:
				return nil, fmt.Errorf("%w: feature %s.%s has invalid kind %q", ErrInvalidDefinition, c.Name, f.Name, f.Kind)
			}
		}
	}
	return p, nil
}

func resolveClassRef(p *Package, reg *Registry, name string) (*Class, error) {
	if i := strings.LastIndex(name, "#"); i >= 0 {
		uri := name[:i]
		if uri != p.uri {
			return reg.ResolveClass(uri, name[i+1:])
		}
		name = name[i+1:]
	}
	c := p.Class(name)
	if c == nil {
		return nil, fmt.Errorf("%w %q in namespace %q", ErrUnknownClass, name, p.uri)
	}
	return c, nil
}

func (p *Package) classRef(c *Class) string {
	if c.pkg == p {
		return c.name
	}
	return c.QualifiedName()
}

// Specification returns the specification describing the package.
func (p *Package) Specification() PackageSpecification {
	spec := PackageSpecification{
		Name:   p.name,
		URI:    p.uri,
		Prefix: p.prefix,
	}
	for _, c := range p.classes {
		cs := ClassSpecification{
			Name:     c.name,
			Abstract: c.abstract,
		}
		if c.super != nil {
			cs.Super = p.classRef(c.super)
		}
		for _, f := range c.features {
			fs := FeatureSpecification{
				Name:        f.name,
				Kind:        f.kind,
				Containment: f.containment,
				Many:        f.many,
				ID:          f.id,
			}
			if f.kind == Attribute {
				fs.Type = f.dataType.Name()
			} else {
				fs.Target = p.classRef(f.target)
			}
			cs.Features = append(cs.Features, fs)
		}
		spec.Classes = append(spec.Classes, cs)
	}
	return spec
}

// Fingerprint is a content hash of the package specification.
func (p *Package) Fingerprint() string {
	return utils.HashData(p.Specification())
}
