package model

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Resource is the unit of serialization. It holds an ordered list
// of root objects, only objects reachable from the roots belong to
// the resource.
type Resource struct {
	uri   string
	roots []*Object
}

func NewResource(uri string) *Resource {
	return &Resource{uri: uri}
}

func (r *Resource) URI() string {
	return r.uri
}

func (r *Resource) Roots() []*Object {
	return slices.Clone(r.roots)
}

// Append adds a root object. Contained objects and roots of
// resources cannot be added.
func (r *Resource) Append(o *Object) error {
	if o.container != nil {
		return fmt.Errorf("%w: %s is contained by %s.%s", ErrAlreadyContained, o, o.container.class.Name(), o.feature.Name())
	}
	if o.resource != nil {
		return fmt.Errorf("%w: %s is root of resource %q", ErrAlreadyContained, o, o.resource.uri)
	}
	o.resource = r
	r.roots = append(r.roots, o)
	return nil
}

// Remove removes a root object. It becomes a free object.
func (r *Resource) Remove(o *Object) error {
	if o.resource != r {
		return fmt.Errorf("%w: %s is no root of resource %q", ErrNotReferenced, o, r.uri)
	}
	o.detach()
	return nil
}

// AllContents yields all objects of the resource, root by root in
// depth first order.
func (r *Resource) AllContents() iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		for _, root := range r.roots {
			if !walk(root, yield) {
				return
			}
		}
	}
}

// Contains checks whether the object belongs to the resource.
func (r *Resource) Contains(o *Object) bool {
	return o.Root().resource == r
}

// Lookup finds an object by its identifier.
func (r *Resource) Lookup(id string) *Object {
	for o := range r.AllContents() {
		if o.id == id {
			return o
		}
	}
	return nil
}

// URIFragment describes the location of an object in the resource.
// The first segment is the root index (empty for the first root),
// followed by one segment per containment step. A step is given by
// the identifying attribute value of the child, if it is unique among
// its siblings, or by @<feature>[.<index>].
func (r *Resource) URIFragment(o *Object) (string, error) {
	var segs []string
	for c := o; ; c = c.container {
		if c.container == nil {
			if c.resource != r {
				return "", fmt.Errorf("%w: %s is not part of resource %q", ErrNotInResource, o, r.uri)
			}
			root := ""
			if i := slices.Index(r.roots, c); i > 0 {
				root = strconv.Itoa(i)
			}
			segs = append(segs, root)
			break
		}
		segs = append(segs, c.segment())
	}
	slices.Reverse(segs)
	return "/" + strings.Join(segs, "/"), nil
}

func (o *Object) idValue() string {
	f := o.class.IDAttribute()
	if f == nil {
		return ""
	}
	s := o.slots[f]
	if !s.set {
		return ""
	}
	v, err := f.DataType().Format(s.value)
	if err != nil {
		return ""
	}
	return v
}

func validSegmentName(s string) bool {
	return s != "" && !strings.HasPrefix(s, "@") && !strings.ContainsAny(s, "/# \t\n")
}

func (o *Object) segment() string {
	p := o.container
	if id := o.idValue(); validSegmentName(id) {
		unique := true
		for _, c := range p.Contents() {
			if c != o && c.idValue() == id {
				unique = false
				break
			}
		}
		if unique {
			return id
		}
	}
	if o.feature.IsMany() {
		return fmt.Sprintf("@%s.%d", o.feature.Name(), slices.Index(p.slots[o.feature].objects, o))
	}
	return "@" + o.feature.Name()
}

// Resolve finds the object described by a URI fragment. A leading #
// is ignored.
func (r *Resource) Resolve(fragment string) (*Object, error) {
	frag := strings.TrimPrefix(fragment, "#")
	if !strings.HasPrefix(frag, "/") {
		return nil, fmt.Errorf("%w %q", ErrInvalidFragment, fragment)
	}
	segs := strings.Split(frag[1:], "/")

	idx := 0
	if segs[0] != "" {
		i, err := strconv.Atoi(segs[0])
		if err != nil {
			return nil, fmt.Errorf("%w %q: invalid root index %q", ErrInvalidFragment, fragment, segs[0])
		}
		idx = i
	}
	if idx < 0 || idx >= len(r.roots) {
		return nil, fmt.Errorf("%w: fragment %q: no root %d", ErrNotInResource, fragment, idx)
	}
	cur := r.roots[idx]
	for _, seg := range segs[1:] {
		next, err := cur.resolveSegment(seg)
		if err != nil {
			return nil, fmt.Errorf("fragment %q: %w", fragment, err)
		}
		cur = next
	}
	return cur, nil
}

func (o *Object) resolveSegment(seg string) (*Object, error) {
	if !strings.HasPrefix(seg, "@") {
		for _, c := range o.Contents() {
			if c.idValue() == seg {
				return c, nil
			}
		}
		return nil, fmt.Errorf("%w: %s has no child %q", ErrNotInResource, o, seg)
	}
	name, index, indexed := strings.Cut(seg[1:], ".")
	f := o.class.Feature(name)
	if f == nil || !f.IsContainment() {
		return nil, fmt.Errorf("%w: %s has no containment reference %q", ErrInvalidFragment, o.class.Name(), name)
	}
	s := o.slots[f]
	if !f.IsMany() {
		if indexed || s.object == nil {
			return nil, fmt.Errorf("%w: %s has no child at %q", ErrNotInResource, o, seg)
		}
		return s.object, nil
	}
	i, err := strconv.Atoi(index)
	if !indexed || err != nil {
		return nil, fmt.Errorf("%w: segment %q requires an index", ErrInvalidFragment, seg)
	}
	if i < 0 || i >= len(s.objects) {
		return nil, fmt.Errorf("%w: %s has no child at %q", ErrNotInResource, o, seg)
	}
	return s.objects[i], nil
}
