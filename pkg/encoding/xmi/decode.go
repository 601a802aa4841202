package xmi

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mandelsoft/emodel/pkg/encoding"
	"github.com/mandelsoft/emodel/pkg/metamodel"
	"github.com/mandelsoft/emodel/pkg/model"
)

// node is a parsed element together with the namespace
// declarations in scope.
type node struct {
	name     xml.Name
	attrs    []xml.Attr
	children []*node
	text     strings.Builder
	scope    map[string]string
	line     int
}

func (n *node) location(uri string) string {
	return fmt.Sprintf("%s:%d", uri, n.line)
}

func (n *node) attr(space, local string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Local == local && isSpace(a.Name.Space, space) {
			return a.Value, true
		}
	}
	return "", false
}

// isSpace matches resolved namespace URIs and, for undeclared
// prefixes, the literal standard prefix.
func isSpace(space, uri string) bool {
	switch uri {
	case XMINamespace:
		return space == uri || space == "xmi"
	case XSINamespace:
		return space == uri || space == "xsi"
	default:
		return space == uri
	}
}

func parse(r io.Reader) (*node, error) {
	d := xml.NewDecoder(r)
	d.Strict = true

	var root *node
	var stack []*node
	for {
		line, _ := d.InputPos()
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s", encoding.ErrInvalidDocument, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name, attrs: t.Attr, line: line, scope: map[string]string{}}
			if len(stack) > 0 {
				p := stack[len(stack)-1]
				for k, v := range p.scope {
					n.scope[k] = v
				}
				p.children = append(p.children, n)
			} else {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple document elements", encoding.ErrInvalidDocument)
				}
				root = n
			}
			for _, a := range t.Attr {
				switch {
				case a.Name.Space == "xmlns":
					n.scope[a.Name.Local] = a.Value
				case a.Name.Space == "" && a.Name.Local == "xmlns":
					n.scope[""] = a.Value
				}
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no document element", encoding.ErrInvalidDocument)
	}
	return root, nil
}

type decoder struct {
	uri    string
	loader *encoding.Loader
}

func (f *Format) Decode(r io.Reader, reg *metamodel.Registry, uri string) (*model.Resource, error) {
	root, err := parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", uri, err)
	}

	d := &decoder{uri: uri, loader: encoding.NewLoader(reg, uri)}

	roots := []*node{root}
	if root.name.Local == "XMI" && isSpace(root.name.Space, XMINamespace) {
		roots = root.children
	}
	for _, n := range roots {
		o, err := d.root(n)
		if err != nil {
			return nil, err
		}
		if err := d.loader.AddRoot(o); err != nil {
			return nil, fmt.Errorf("%s: %w", n.location(uri), err)
		}
	}
	return d.loader.Finish()
}

func (d *decoder) root(n *node) (*model.Object, error) {
	var (
		c   *metamodel.Class
		err error
	)
	if t, ok := n.attr(XSINamespace, "type"); ok {
		c, err = d.qualified(n, t)
	} else {
		if n.name.Space == "" {
			return nil, fmt.Errorf("%s: %w: element %q has no namespace", n.location(d.uri), encoding.ErrUnresolvedType, n.name.Local)
		}
		c, err = d.loader.ResolveClass(n.name.Space, n.name.Local, n.location(d.uri))
	}
	if err != nil {
		return nil, err
	}
	return d.object(n, c, nil)
}

// qualified resolves a prefixed type name in the scope of an element.
func (d *decoder) qualified(n *node, qname string) (*metamodel.Class, error) {
	prefix, name, ok := strings.Cut(qname, ":")
	if !ok {
		prefix, name = "", qname
	}
	uri, ok := n.scope[prefix]
	if !ok {
		return nil, fmt.Errorf("%s: %w: undeclared namespace prefix %q in %q", n.location(d.uri), encoding.ErrUnresolvedType, prefix, qname)
	}
	return d.loader.ResolveClass(uri, name, n.location(d.uri))
}

func (d *decoder) object(n *node, c, expected *metamodel.Class) (*model.Object, error) {
	loc := n.location(d.uri)
	o, err := d.loader.Instantiate(c, expected, loc)
	if err != nil {
		return nil, err
	}

	for _, a := range n.attrs {
		switch {
		case a.Name.Space == "xmlns" || a.Name.Space == "" && a.Name.Local == "xmlns":
			continue
		case isSpace(a.Name.Space, XMINamespace):
			if a.Name.Local == "id" {
				if err := d.loader.SetID(o, a.Value, loc); err != nil {
					return nil, err
				}
			}
			continue
		case a.Name.Space != "":
			continue
		}
		f, err := d.loader.Feature(o, a.Name.Local, loc)
		if err != nil {
			return nil, err
		}
		switch {
		case f.IsAttribute():
			err = d.loader.SetAttribute(o, f, a.Value, loc)
		case f.IsContainment():
			err = fmt.Errorf("%s: %w: containment %s given as attribute", loc, encoding.ErrInvalidDocument, f)
		default:
			err = d.loader.Defer(o, f, encoding.SplitPointers(a.Value), loc)
		}
		if err != nil {
			return nil, err
		}
	}

	for _, cn := range n.children {
		cloc := cn.location(d.uri)
		f, err := d.loader.Feature(o, cn.name.Local, cloc)
		if err != nil {
			return nil, err
		}
		switch {
		case f.IsAttribute():
			err = d.loader.SetAttribute(o, f, cn.text.String(), cloc)
		case f.IsContainment():
			err = d.child(o, f, cn)
		default:
			href, ok := cn.attr("", "href")
			if !ok {
				return nil, fmt.Errorf("%s: %w: reference element %s without href", cloc, encoding.ErrInvalidDocument, f)
			}
			err = d.loader.Defer(o, f, []string{href}, cloc)
		}
		if err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (d *decoder) child(parent *model.Object, f *metamodel.Feature, n *node) error {
	c := f.Target()
	if t, ok := n.attr(XSINamespace, "type"); ok {
		var err error
		c, err = d.qualified(n, t)
		if err != nil {
			return err
		}
	}
	o, err := d.object(n, c, f.Target())
	if err != nil {
		if errors.Is(err, model.ErrAbstractClass) && c == f.Target() {
			return fmt.Errorf("%w: missing xsi:type for element %q", err, n.name.Local)
		}
		return err
	}
	return d.loader.Contain(parent, f, o, n.location(d.uri))
}
