package encoding

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Scheme is a set of formats addressable by name
// or file extension.
type Scheme interface {
	Register(f Format) error
	Names() []string
	Get(name string) Format
	ForPath(path string) (Format, error)
}

type scheme struct {
	lock       sync.Mutex
	formats    map[string]Format
	extensions map[string]Format
}

var _ Scheme = (*scheme)(nil)

func NewScheme() Scheme {
	return &scheme{
		formats:    map[string]Format{},
		extensions: map[string]Format{},
	}
}

func (s *scheme) Register(f Format) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.formats[f.Name()] != nil {
		return fmt.Errorf("format %q already registered", f.Name())
	}
	for _, e := range f.Extensions() {
		if o := s.extensions[strings.ToLower(e)]; o != nil {
			return fmt.Errorf("extension %q of format %q already used by format %q", e, f.Name(), o.Name())
		}
	}
	s.formats[f.Name()] = f
	for _, e := range f.Extensions() {
		s.extensions[strings.ToLower(e)] = f
	}
	return nil
}

func (s *scheme) Get(name string) Format {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.formats[name]
}

func (s *scheme) ForPath(path string) (Format, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	ext := strings.ToLower(filepath.Ext(path))
	f := s.extensions[ext]
	if f == nil {
		return nil, fmt.Errorf("%w for file %q", ErrUnknownFormat, path)
	}
	return f, nil
}

func (s *scheme) Names() []string {
	var names []string

	s.lock.Lock()
	defer s.lock.Unlock()

	for n := range s.formats {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func MustRegister(s Scheme, f Format) {
	err := s.Register(f)
	if err != nil {
		panic(err)
	}
}
