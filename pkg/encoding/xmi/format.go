package xmi

import (
	"github.com/mandelsoft/emodel/pkg/encoding"
)

const (
	NAME = "xmi"

	XMINamespace = "http://www.omg.org/XMI"
	XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"
	Version      = "2.0"
)

// Format serializes resources as XMI 2.0 documents.
type Format struct{}

var _ encoding.Format = (*Format)(nil)

func New() *Format {
	return &Format{}
}

func (f *Format) Name() string {
	return NAME
}

func (f *Format) Extensions() []string {
	return []string{".xmi", ".ecore", ".xml"}
}
