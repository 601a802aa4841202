package yaml

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/mandelsoft/emodel/pkg/encoding"
	"github.com/mandelsoft/emodel/pkg/metamodel"
	"github.com/mandelsoft/emodel/pkg/model"
)

const NAME = "yaml"

type Namespace struct {
	Prefix string `json:"prefix"`
	URI    string `json:"uri"`
}

// Document is the serialized form of a resource.
type Document struct {
	Namespaces []Namespace `json:"namespaces,omitempty"`
	Contents   []*Element  `json:"contents"`
}

// Element is a serialized object. Features appear in the
// order of the class.
type Element struct {
	Type     string     `json:"type,omitempty"`
	ID       string     `json:"id,omitempty"`
	Features []*Feature `json:"features,omitempty"`
}

type Feature struct {
	Name     string     `json:"name"`
	Value    *string    `json:"value,omitempty"`
	Values   []string   `json:"values,omitempty"`
	Refs     []string   `json:"refs,omitempty"`
	Contents []*Element `json:"contents,omitempty"`
}

// Format serializes resources as YAML documents.
type Format struct{}

var _ encoding.Format = (*Format)(nil)

func New() *Format {
	return &Format{}
}

func (f *Format) Name() string {
	return NAME
}

func (f *Format) Extensions() []string {
	return []string{".yaml", ".yml"}
}

////////////////////////////////////////////////////////////////////////////////

func (f *Format) Encode(w io.Writer, res *model.Resource, opts encoding.Options) error {
	encoding.PrepareIDs(res, opts)
	ns := encoding.CollectNamespaces(res)

	doc := &Document{Contents: []*Element{}}
	for _, n := range ns.List() {
		doc.Namespaces = append(doc.Namespaces, Namespace{Prefix: n.Prefix, URI: n.URI})
	}
	for _, r := range res.Roots() {
		e, err := element(res, ns, r, opts)
		if err != nil {
			return err
		}
		doc.Contents = append(doc.Contents, e)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func element(res *model.Resource, ns *encoding.Namespaces, o *model.Object, opts encoding.Options) (*Element, error) {
	e := &Element{Type: ns.QName(o.Class())}
	if opts.UseIDs {
		if err := encoding.CheckText(o.ID()); err != nil {
			return nil, fmt.Errorf("id of %s: %w", o, err)
		}
		e.ID = o.ID()
	}
	for _, s := range o.Settings() {
		if !s.IsSet {
			continue
		}
		feat := s.Feature
		f := &Feature{Name: feat.Name()}
		switch {
		case feat.IsAttribute() && feat.IsMany():
			for _, v := range s.Value.([]any) {
				text, err := format(feat, v)
				if err != nil {
					return nil, err
				}
				f.Values = append(f.Values, text)
			}
		case feat.IsAttribute():
			text, err := format(feat, s.Value)
			if err != nil {
				return nil, err
			}
			f.Value = &text
		case feat.IsContainment():
			targets, _ := o.Objects(feat.Name())
			for _, t := range targets {
				c, err := element(res, ns, t, opts)
				if err != nil {
					return nil, err
				}
				f.Contents = append(f.Contents, c)
			}
		default:
			targets, _ := o.Objects(feat.Name())
			for _, t := range targets {
				p, err := encoding.Pointer(res, t, opts)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", feat, err)
				}
				f.Refs = append(f.Refs, p)
			}
		}
		e.Features = append(e.Features, f)
	}
	return e, nil
}

func format(feat *metamodel.Feature, v any) (string, error) {
	text, err := feat.DataType().Format(v)
	if err == nil {
		err = encoding.CheckText(text)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", feat, err)
	}
	return text, nil
}

////////////////////////////////////////////////////////////////////////////////

type decoder struct {
	uri        string
	namespaces map[string]string
	loader     *encoding.Loader
}

func (f *Format) Decode(r io.Reader, reg *metamodel.Registry, uri string) (*model.Resource, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.UnmarshalStrict(buf.Bytes(), &doc); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", uri, encoding.ErrInvalidDocument, err)
	}

	d := &decoder{
		uri:        uri,
		namespaces: map[string]string{},
		loader:     encoding.NewLoader(reg, uri),
	}
	for _, n := range doc.Namespaces {
		if _, ok := d.namespaces[n.Prefix]; ok {
			return nil, fmt.Errorf("%s: %w: duplicate namespace prefix %q", uri, encoding.ErrInvalidDocument, n.Prefix)
		}
		d.namespaces[n.Prefix] = n.URI
	}

	for i, e := range doc.Contents {
		loc := fmt.Sprintf("%s:contents[%d]", uri, i)
		if e == nil {
			return nil, fmt.Errorf("%s: %w: empty element", loc, encoding.ErrInvalidDocument)
		}
		if e.Type == "" {
			return nil, fmt.Errorf("%s: %w: root element without type", loc, encoding.ErrUnresolvedType)
		}
		o, err := d.object(e, nil, loc)
		if err != nil {
			return nil, err
		}
		if err := d.loader.AddRoot(o); err != nil {
			return nil, fmt.Errorf("%s: %w", loc, err)
		}
	}
	return d.loader.Finish()
}

// class resolves a type given as prefix:Name.
func (d *decoder) class(t string, loc string) (*metamodel.Class, error) {
	prefix, name, ok := strings.Cut(t, ":")
	if !ok {
		return nil, fmt.Errorf("%s: %w: type %q without namespace prefix", loc, encoding.ErrUnresolvedType, t)
	}
	uri, ok := d.namespaces[prefix]
	if !ok {
		return nil, fmt.Errorf("%s: %w: undeclared namespace prefix %q", loc, encoding.ErrUnresolvedType, prefix)
	}
	return d.loader.ResolveClass(uri, name, loc)
}

func (d *decoder) object(e *Element, expected *metamodel.Class, loc string) (*model.Object, error) {
	c := expected
	if e.Type != "" {
		var err error
		c, err = d.class(e.Type, loc)
		if err != nil {
			return nil, err
		}
	}
	o, err := d.loader.Instantiate(c, expected, loc)
	if err != nil {
		return nil, err
	}
	if err := d.loader.SetID(o, e.ID, loc); err != nil {
		return nil, err
	}

	for i, f := range e.Features {
		floc := fmt.Sprintf("%s.features[%d]", loc, i)
		if f == nil {
			return nil, fmt.Errorf("%s: %w: empty feature", floc, encoding.ErrInvalidDocument)
		}
		feat, err := d.loader.Feature(o, f.Name, floc)
		if err != nil {
			return nil, err
		}
		if err := d.feature(o, feat, f, floc); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (d *decoder) feature(o *model.Object, feat *metamodel.Feature, f *Feature, loc string) error {
	switch {
	case feat.IsAttribute():
		if len(f.Refs) > 0 || len(f.Contents) > 0 {
			return fmt.Errorf("%s: %w: attribute %s with object values", loc, encoding.ErrInvalidDocument, feat)
		}
		if f.Value != nil {
			if err := d.loader.SetAttribute(o, feat, *f.Value, loc); err != nil {
				return err
			}
		}
		if len(f.Values) > 0 && !feat.IsMany() {
			return fmt.Errorf("%s: %w: multiple values for single valued %s", loc, encoding.ErrInvalidDocument, feat)
		}
		for _, v := range f.Values {
			if err := d.loader.SetAttribute(o, feat, v, loc); err != nil {
				return err
			}
		}
	case feat.IsContainment():
		if f.Value != nil || len(f.Values) > 0 || len(f.Refs) > 0 {
			return fmt.Errorf("%s: %w: containment %s without contents", loc, encoding.ErrInvalidDocument, feat)
		}
		for i, c := range f.Contents {
			cloc := fmt.Sprintf("%s.contents[%d]", loc, i)
			if c == nil {
				return fmt.Errorf("%s: %w: empty element", cloc, encoding.ErrInvalidDocument)
			}
			child, err := d.object(c, feat.Target(), cloc)
			if err != nil {
				return err
			}
			if err := d.loader.Contain(o, feat, child, cloc); err != nil {
				return err
			}
		}
	default:
		if f.Value != nil || len(f.Values) > 0 || len(f.Contents) > 0 {
			return fmt.Errorf("%s: %w: reference %s without refs", loc, encoding.ErrInvalidDocument, feat)
		}
		return d.loader.Defer(o, feat, f.Refs, loc)
	}
	return nil
}
