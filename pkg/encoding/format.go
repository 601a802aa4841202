package encoding

import (
	"io"

	"github.com/mandelsoft/emodel/pkg/metamodel"
	"github.com/mandelsoft/emodel/pkg/model"
)

type Options struct {
	// UseIDs assigns identifiers to all objects, serializes them and
	// uses them for cross references instead of URI fragments.
	UseIDs bool
}

// Format is a textual tree representation of resources.
type Format interface {
	Name() string
	// Extensions lists the file extensions (including the dot)
	// handled by the format.
	Extensions() []string

	// Encode writes the resource. The output is stable: encoding the
	// same object graph twice yields identical bytes.
	Encode(w io.Writer, res *model.Resource, opts Options) error
	// Decode reads a resource using the classes of the given registry.
	// On error no (partial) resource is returned.
	Decode(r io.Reader, reg *metamodel.Registry, uri string) (*model.Resource, error)
}
