package xmi

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/mandelsoft/emodel/pkg/encoding"
	"github.com/mandelsoft/emodel/pkg/metamodel"
	"github.com/mandelsoft/emodel/pkg/model"
)

type attr struct {
	name  string
	value string
}

type encoder struct {
	buf  bytes.Buffer
	res  *model.Resource
	ns   *encoding.Namespaces
	opts encoding.Options
}

func (f *Format) Encode(w io.Writer, res *model.Resource, opts encoding.Options) error {
	encoding.PrepareIDs(res, opts)

	e := &encoder{
		res:  res,
		ns:   encoding.CollectNamespaces(res, "xmi", "xsi", "xml", "xmlns"),
		opts: opts,
	}

	decls := []attr{
		{"xmi:version", Version},
		{"xmlns:xmi", XMINamespace},
	}
	if e.needsTypes() {
		decls = append(decls, attr{"xmlns:xsi", XSINamespace})
	}
	for _, n := range e.ns.List() {
		decls = append(decls, attr{"xmlns:" + n.Prefix, n.URI})
	}

	e.buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	roots := res.Roots()
	if len(roots) == 1 {
		if err := e.element(0, e.ns.QName(roots[0].Class()), roots[0], nil, decls); err != nil {
			return err
		}
	} else {
		e.start(0, "xmi:XMI", decls)
		e.buf.WriteString(">\n")
		for _, r := range roots {
			if err := e.element(1, e.ns.QName(r.Class()), r, nil, nil); err != nil {
				return err
			}
		}
		e.buf.WriteString("</xmi:XMI>\n")
	}
	_, err := w.Write(e.buf.Bytes())
	return err
}

func (e *encoder) needsTypes() bool {
	for o := range e.res.AllContents() {
		if f := o.ContainingFeature(); f != nil && o.Class() != f.Target() {
			return true
		}
	}
	return false
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

func (e *encoder) start(indent int, tag string, attrs []attr) {
	e.buf.WriteString(strings.Repeat("  ", indent))
	e.buf.WriteString("<" + tag)
	for _, a := range attrs {
		e.buf.WriteString(" " + a.name + `="` + escape(a.value) + `"`)
	}
}

func (e *encoder) text(feat *metamodel.Feature, v any) (string, error) {
	text, err := feat.DataType().Format(v)
	if err == nil {
		err = encoding.CheckXMLText(text)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", feat, err)
	}
	return text, nil
}

type child struct {
	feature *metamodel.Feature
	text    *string
	object  *model.Object
}

func (e *encoder) element(indent int, tag string, o *model.Object, f *metamodel.Feature, attrs []attr) error {
	if f != nil && o.Class() != f.Target() {
		attrs = append(attrs, attr{"xsi:type", e.ns.QName(o.Class())})
	}
	if e.opts.UseIDs && o.ID() != "" {
		if err := encoding.CheckXMLText(o.ID()); err != nil {
			return fmt.Errorf("id of %s: %w", o, err)
		}
		attrs = append(attrs, attr{"xmi:id", o.ID()})
	}

	var children []child
	for _, s := range o.Settings() {
		feat := s.Feature
		if !s.IsSet {
			continue
		}
		switch {
		case feat.IsAttribute() && feat.IsMany():
			for _, v := range s.Value.([]any) {
				text, err := e.text(feat, v)
				if err != nil {
					return err
				}
				children = append(children, child{feature: feat, text: &text})
			}
		case feat.IsAttribute():
			text, err := e.text(feat, s.Value)
			if err != nil {
				return err
			}
			attrs = append(attrs, attr{feat.Name(), text})
		case feat.IsContainment():
			targets, _ := o.Objects(feat.Name())
			for _, t := range targets {
				children = append(children, child{feature: feat, object: t})
			}
		default:
			targets, _ := o.Objects(feat.Name())
			p, err := encoding.Pointers(e.res, targets, e.opts)
			if err != nil {
				return fmt.Errorf("%s: %w", feat, err)
			}
			attrs = append(attrs, attr{feat.Name(), p})
		}
	}

	e.start(indent, tag, attrs)
	if len(children) == 0 {
		e.buf.WriteString("/>\n")
		return nil
	}
	e.buf.WriteString(">\n")
	for _, c := range children {
		if c.text != nil {
			e.buf.WriteString(strings.Repeat("  ", indent+1))
			e.buf.WriteString("<" + c.feature.Name() + ">" + escape(*c.text) + "</" + c.feature.Name() + ">\n")
			continue
		}
		if err := e.element(indent+1, c.feature.Name(), c.object, c.feature, nil); err != nil {
			return err
		}
	}
	e.buf.WriteString(strings.Repeat("  ", indent))
	e.buf.WriteString("</" + tag + ">\n")
	return nil
}
