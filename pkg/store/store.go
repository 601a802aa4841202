// Package store keeps resources and metamodels as files in a
// directory of a virtual file system. The file format is chosen
// by the file extension.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mandelsoft/goutils/general"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/mandelsoft/emodel/pkg/encoding"
	"github.com/mandelsoft/emodel/pkg/metamodel"
	"github.com/mandelsoft/emodel/pkg/metamodel/ecore"
	"github.com/mandelsoft/emodel/pkg/metamodel/hclschema"
	"github.com/mandelsoft/emodel/pkg/model"
)

type Store struct {
	lock     sync.Mutex
	registry *metamodel.Registry
	formats  encoding.Scheme
	path     string
	fs       vfs.FileSystem
}

// New creates a store for the given directory. The directory is
// created if it does not exist. The registry is extended by the
// bootstrap metamodel.
func New(reg *metamodel.Registry, formats encoding.Scheme, path string, fss ...vfs.FileSystem) (*Store, error) {
	fs := general.OptionalDefaulted(vfs.FileSystem(osfs.OsFs), fss...)

	err := fs.MkdirAll(path, 0o0700)
	if err != nil && !errors.Is(err, vfs.ErrExist) {
		return nil, err
	}
	if err := ecore.Register(reg); err != nil {
		return nil, err
	}
	return &Store{registry: reg, formats: formats, path: path, fs: fs}, nil
}

func (s *Store) Registry() *metamodel.Registry {
	return s.registry
}

func (s *Store) FileSystem() vfs.FileSystem {
	return s.fs
}

func (s *Store) Path(name string) string {
	return filepath.Join(s.path, name)
}

// Save writes a resource to the named file.
func (s *Store) Save(name string, res *model.Resource, opts encoding.Options) error {
	f, err := s.formats.ForPath(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := f.Encode(&buf, res, opts); err != nil {
		log.Error("encoding of {{name}} failed", "name", name, "error", err)
		return fmt.Errorf("cannot encode %q: %w", name, err)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	path := s.Path(name)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	if err := s.write(path, buf.Bytes()); err != nil {
		return err
	}
	log.Info("saved {{name}} ({{format}})", "name", name, "format", f.Name())
	return nil
}

func (s *Store) write(path string, data []byte) (err error) {
	file, err := s.fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = file.Write(data)
	return err
}

// Load reads the resource stored in the named file. All classes used
// by the document must be known by the registry of the store.
func (s *Store) Load(name string) (*model.Resource, error) {
	f, err := s.formats.ForPath(name)
	if err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	file, err := s.fs.Open(s.Path(name))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	res, err := f.Decode(file, s.registry, name)
	if err != nil {
		log.Error("loading of {{name}} failed", "name", name, "error", err)
		return nil, err
	}
	log.Info("loaded {{name}} ({{format}})", "name", name, "format", f.Name())
	return res, nil
}

// SaveMetamodel stores a package as Ecore document.
func (s *Store) SaveMetamodel(name string, p *metamodel.Package) error {
	root, err := ecore.ToModel(model.NewFactory(s.registry), p)
	if err != nil {
		return err
	}
	res := model.NewResource(name)
	if err := res.Append(root); err != nil {
		return err
	}
	return s.Save(name, res, encoding.Options{})
}

// LoadMetamodel reads the packages described by a file and registers
// them. Files with the extension .hcl are read as HCL schema, all
// others as Ecore documents.
func (s *Store) LoadMetamodel(name string) ([]*metamodel.Package, error) {
	if isSchema(name) {
		return s.loadSchema(name)
	}

	res, err := s.Load(name)
	if err != nil {
		return nil, err
	}

	var result []*metamodel.Package
	for _, root := range res.Roots() {
		p, err := ecore.FromModel(s.registry, root)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		p, err = s.registry.RegisterPackage(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		result = append(result, p)
	}
	return result, nil
}

func isSchema(name string) bool {
	return strings.EqualFold(filepath.Ext(name), hclschema.EXTENSION)
}

func (s *Store) loadSchema(name string) ([]*metamodel.Package, error) {
	s.lock.Lock()
	data, err := vfs.ReadFile(s.fs, s.Path(name))
	s.lock.Unlock()
	if err != nil {
		return nil, err
	}
	p, err := hclschema.Load(s.registry, data, name)
	if err != nil {
		return nil, err
	}
	p, err = s.registry.RegisterPackage(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return []*metamodel.Package{p}, nil
}

// List returns the names of all resource and schema files,
// relative to the store directory.
func (s *Store) List() ([]string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var result []string
	err := vfs.Walk(s.fs, s.path, func(path string, info vfs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if _, ferr := s.formats.ForPath(path); ferr != nil && !isSchema(path) {
			return nil
		}
		rel, err := filepath.Rel(s.path, path)
		if err != nil {
			return err
		}
		result = append(result, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if errors.Is(err, vfs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	sort.Strings(result)
	return result, nil
}
