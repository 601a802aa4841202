// Package formats provides the scheme of all supported
// serialization formats.
package formats

import (
	"sync"

	"github.com/mandelsoft/emodel/pkg/encoding"
	"github.com/mandelsoft/emodel/pkg/encoding/xmi"
	"github.com/mandelsoft/emodel/pkg/encoding/yaml"
)

// New creates a scheme with all standard formats.
func New() encoding.Scheme {
	s := encoding.NewScheme()
	encoding.MustRegister(s, xmi.New())
	encoding.MustRegister(s, yaml.New())
	return s
}

var (
	once     sync.Once
	standard encoding.Scheme
)

// Default returns a shared standard scheme.
func Default() encoding.Scheme {
	once.Do(func() {
		standard = New()
	})
	return standard
}
