package ecore

import (
	"fmt"
	"strings"

	"github.com/mandelsoft/emodel/pkg/metamodel"
	"github.com/mandelsoft/emodel/pkg/model"
)

type builder struct {
	factory *model.Factory
	err     error
}

func (b *builder) create(name string) *model.Object {
	if b.err != nil {
		return nil
	}
	o, err := b.factory.Create(NS_URI, name)
	b.err = err
	return o
}

func (b *builder) set(o *model.Object, name string, v any) {
	if b.err == nil {
		b.err = o.Set(name, v)
	}
}

func (b *builder) append(o *model.Object, name string, v any) {
	if b.err == nil {
		b.err = o.Append(name, v)
	}
}

// ToModel describes a package as an EPackage instance graph. The
// factory must know the bootstrap package. Classes of the package may
// only refer to classes of the same package.
func ToModel(f *model.Factory, p *metamodel.Package) (*model.Object, error) {
	b := &builder{factory: f}

	classes := map[*metamodel.Class]*model.Object{}
	root := b.create(EPACKAGE)
	b.set(root, "name", p.Name())
	b.set(root, "nsURI", p.URI())
	if p.Prefix() != "" {
		b.set(root, "nsPrefix", p.Prefix())
	}
	for _, c := range p.Classes() {
		o := b.create(ECLASS)
		b.set(o, "name", c.Name())
		if c.IsAbstract() {
			b.set(o, "abstract", true)
		}
		b.append(root, "eClassifiers", o)
		classes[c] = o
	}
	if b.err != nil {
		return nil, b.err
	}

	lookup := func(c *metamodel.Class, use string) (*model.Object, error) {
		if o := classes[c]; o != nil {
			return o, nil
		}
		return nil, fmt.Errorf("%w: %s refers to class %s of another package", ErrInvalidMetamodel, use, c.QualifiedName())
	}

	for _, c := range p.Classes() {
		o := classes[c]
		if s := c.Super(); s != nil {
			so, err := lookup(s, "class "+c.Name())
			if err != nil {
				return nil, err
			}
			b.append(o, "eSuperTypes", so)
		}
		for _, feat := range c.Features() {
			var fo *model.Object
			if feat.IsAttribute() {
				fo = b.create(EATTRIBUTE)
				b.set(fo, "eType", DataTypeRef(feat.DataType()))
				if feat.IsID() {
					b.set(fo, "iD", true)
				}
			} else {
				t, err := lookup(feat.Target(), feat.String())
				if err != nil {
					return nil, err
				}
				fo = b.create(EREFERENCE)
				b.set(fo, "eType", t)
				if feat.IsContainment() {
					b.set(fo, "containment", true)
				}
			}
			b.set(fo, "name", feat.Name())
			if feat.IsMany() {
				b.set(fo, "upperBound", -1)
			}
			b.append(o, "eStructuralFeatures", fo)
		}
	}
	if b.err != nil {
		return nil, b.err
	}
	log.Debug("converted package {{uri}} to model", "uri", p.URI())
	return root, nil
}

////////////////////////////////////////////////////////////////////////////////

type reader struct {
	err error
}

func (r *reader) string(o *model.Object, name string) string {
	if r.err != nil {
		return ""
	}
	v, err := o.Get(name)
	if err != nil {
		r.err = err
		return ""
	}
	s, _ := v.(string)
	return s
}

func (r *reader) bool(o *model.Object, name string) bool {
	if r.err != nil {
		return false
	}
	v, err := o.Get(name)
	if err != nil {
		r.err = err
		return false
	}
	b, _ := v.(bool)
	return b
}

func (r *reader) int(o *model.Object, name string) int {
	if r.err != nil {
		return 0
	}
	v, err := o.Get(name)
	if err != nil {
		r.err = err
		return 0
	}
	i, _ := v.(int)
	return i
}

func (r *reader) objects(o *model.Object, name string) []*model.Object {
	if r.err != nil {
		return nil
	}
	list, err := o.Objects(name)
	r.err = err
	return list
}

func isA(o *model.Object, name string) bool {
	return o.Class().IsA(Package().Class(name))
}

// DataTypeName extracts the data type name from an Ecore data type
// reference.
func DataTypeName(ref string) string {
	if i := strings.LastIndex(ref, "#"); i >= 0 {
		ref = ref[i+1:]
	}
	return strings.TrimPrefix(ref, "//")
}

// FromModel compiles an EPackage instance into an unregistered package.
// Data types and classes of other packages are resolved with the
// given registry.
func FromModel(reg *metamodel.Registry, o *model.Object) (*metamodel.Package, error) {
	spec, err := Spec(o)
	if err != nil {
		return nil, err
	}
	p, err := metamodel.NewPackageFromSpec(spec, reg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMetamodel, err)
	}
	return p, nil
}

// Spec extracts the package specification from an EPackage
// instance.
func Spec(o *model.Object) (metamodel.PackageSpecification, error) {
	var spec metamodel.PackageSpecification
	if o == nil || !isA(o, EPACKAGE) {
		return spec, fmt.Errorf("%w: root object %s is no %s", ErrInvalidMetamodel, o, EPACKAGE)
	}

	r := &reader{}
	spec.Name = r.string(o, "name")
	spec.URI = r.string(o, "nsURI")
	spec.Prefix = r.string(o, "nsPrefix")

	classRef := func(c *model.Object) string {
		name := r.string(c, "name")
		if p := c.Container(); p != nil && p != o {
			return r.string(p, "nsURI") + "#" + name
		}
		return name
	}

	for _, c := range r.objects(o, "eClassifiers") {
		if !isA(c, ECLASS) {
			return spec, fmt.Errorf("%w: unsupported classifier %s", ErrInvalidMetamodel, c)
		}
		cs := metamodel.ClassSpecification{
			Name:     r.string(c, "name"),
			Abstract: r.bool(c, "abstract"),
		}
		supers := r.objects(c, "eSuperTypes")
		switch len(supers) {
		case 0:
		case 1:
			cs.Super = classRef(supers[0])
		default:
			return spec, fmt.Errorf("%w: class %q has multiple super types", ErrInvalidMetamodel, cs.Name)
		}

		for _, f := range r.objects(c, "eStructuralFeatures") {
			fs := metamodel.FeatureSpecification{
				Name: r.string(f, "name"),
			}
			upper := r.int(f, "upperBound")
			fs.Many = upper == -1 || upper > 1
			switch {
			case isA(f, EATTRIBUTE):
				fs.Kind = metamodel.Attribute
				fs.Type = DataTypeName(r.string(f, "eType"))
				fs.ID = r.bool(f, "iD")
			case isA(f, EREFERENCE):
				fs.Kind = metamodel.Reference
				fs.Containment = r.bool(f, "containment")
				if r.err == nil {
					t, err := f.Object("eType")
					if err != nil {
						return spec, err
					}
					if t == nil {
						return spec, fmt.Errorf("%w: reference %s.%s without type", ErrInvalidMetamodel, cs.Name, fs.Name)
					}
					fs.Target = classRef(t)
				}
			default:
				return spec, fmt.Errorf("%w: unsupported feature %s", ErrInvalidMetamodel, f)
			}
			cs.Features = append(cs.Features, fs)
		}
		spec.Classes = append(spec.Classes, cs)
	}
	if r.err != nil {
		return spec, r.err
	}
	return spec, nil
}
