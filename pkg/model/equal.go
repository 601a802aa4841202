package model

import (
	"fmt"

	"github.com/mandelsoft/emodel/pkg/metamodel"
)

// Equal checks two resources for structural equality: the same
// classes (by qualified name), attribute values, containment
// shape and reference targets. Object identity is not compared.
// The first difference found is returned as error.
func Equal(a, b *Resource) error {
	if len(a.roots) != len(b.roots) {
		return fmt.Errorf("%w: %d roots vs. %d roots", ErrStructuralMismatch, len(a.roots), len(b.roots))
	}
	m := map[*Object]*Object{}
	for i := range a.roots {
		if err := matchTree(fmt.Sprintf("/%d", i), a.roots[i], b.roots[i], m); err != nil {
			return err
		}
	}
	for x := range a.AllContents() {
		if err := matchReferences(x, m[x], m); err != nil {
			return err
		}
	}
	return nil
}

func matchTree(path string, x, y *Object, m map[*Object]*Object) error {
	if x.class.QualifiedName() != y.class.QualifiedName() {
		return fmt.Errorf("%w: %s: class %s vs. %s", ErrStructuralMismatch, path, x.class.QualifiedName(), y.class.QualifiedName())
	}
	m[x] = y
	for _, f := range x.class.AllFeatures() {
		g := y.class.Feature(f.Name())
		if g == nil || g.Kind() != f.Kind() || g.IsContainment() != f.IsContainment() || g.IsMany() != f.IsMany() {
			return fmt.Errorf("%w: %s: feature %q differs", ErrStructuralMismatch, path, f.Name())
		}
		xs, ys := x.slots[f], y.slots[g]
		switch {
		case f.IsAttribute() && f.IsMany():
			if len(xs.values) != len(ys.values) {
				return fmt.Errorf("%w: %s/%s: %d values vs. %d values", ErrStructuralMismatch, path, f.Name(), len(xs.values), len(ys.values))
			}
			for i := range xs.values {
				if err := matchValue(fmt.Sprintf("%s/%s.%d", path, f.Name(), i), f.DataType(), xs.values[i], ys.values[i]); err != nil {
					return err
				}
			}
		case f.IsAttribute():
			if err := matchValue(path+"/"+f.Name(), f.DataType(), xs.value, ys.value); err != nil {
				return err
			}
		case f.IsContainment() && f.IsMany():
			if len(xs.objects) != len(ys.objects) {
				return fmt.Errorf("%w: %s/@%s: %d children vs. %d children", ErrStructuralMismatch, path, f.Name(), len(xs.objects), len(ys.objects))
			}
			for i := range xs.objects {
				if err := matchTree(fmt.Sprintf("%s/@%s.%d", path, f.Name(), i), xs.objects[i], ys.objects[i], m); err != nil {
					return err
				}
			}
		case f.IsContainment():
			if (xs.object == nil) != (ys.object == nil) {
				return fmt.Errorf("%w: %s/@%s: child presence differs", ErrStructuralMismatch, path, f.Name())
			}
			if xs.object != nil {
				if err := matchTree(path+"/@"+f.Name(), xs.object, ys.object, m); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func matchValue(path string, t metamodel.DataType, a, b any) error {
	as, err := t.Format(a)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	bs, err := t.Format(b)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if as != bs {
		return fmt.Errorf("%w: %s: %q vs. %q", ErrStructuralMismatch, path, as, bs)
	}
	return nil
}

func matchReferences(x, y *Object, m map[*Object]*Object) error {
	for _, f := range x.class.AllFeatures() {
		if !f.IsReference() || f.IsContainment() {
			continue
		}
		xs, ys := x.slots[f], y.slots[y.class.Feature(f.Name())]
		xl, yl := xs.objects, ys.objects
		if !f.IsMany() {
			xl, yl = nil, nil
			if xs.object != nil {
				xl = []*Object{xs.object}
			}
			if ys.object != nil {
				yl = []*Object{ys.object}
			}
		}
		if len(xl) != len(yl) {
			return fmt.Errorf("%w: %s.%s: %d targets vs. %d targets", ErrStructuralMismatch, x, f.Name(), len(xl), len(yl))
		}
		for i := range xl {
			expected, ok := m[xl[i]]
			if !ok {
				// target outside of the resource, identity is required
				expected = xl[i]
			}
			if expected != yl[i] {
				return fmt.Errorf("%w: %s.%s: target %d differs", ErrStructuralMismatch, x, f.Name(), i)
			}
		}
	}
	return nil
}
