package store

import (
	"github.com/mandelsoft/goutils/general"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/mandelsoft/emodel/pkg/encoding"
	"github.com/mandelsoft/emodel/pkg/metamodel"
)

type Specification struct {
	Path       string
	FileSystem vfs.FileSystem
}

func NewSpecification(path string, fss ...vfs.FileSystem) *Specification {
	return &Specification{
		Path:       path,
		FileSystem: general.OptionalDefaulted(osfs.New(), fss...),
	}
}

func (s *Specification) Create(reg *metamodel.Registry, formats encoding.Scheme) (*Store, error) {
	return New(reg, formats, s.Path, s.FileSystem)
}
