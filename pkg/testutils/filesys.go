package testutils

import (
	"github.com/mandelsoft/vfs/pkg/composefs"
	"github.com/mandelsoft/vfs/pkg/layerfs"
	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/projectionfs"
	"github.com/mandelsoft/vfs/pkg/readonlyfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
)

// TestFileSystem provides a file system with the content of the
// given directory mounted at the same path. Unless readonly, it is
// overlayed by a temporary layer so tests never modify the original.
// The file system must be released with vfs.Cleanup.
func TestFileSystem(path string, readonly bool) (vfs.FileSystem, error) {
	tmpfs, err := osfs.NewTempFileSystem()
	if err != nil {
		return nil, err
	}
	defer func() {
		if tmpfs != nil {
			vfs.Cleanup(tmpfs)
		}
	}()

	if err = tmpfs.MkdirAll(path, 0o700); err != nil {
		return nil, err
	}

	source, err := projectionfs.New(osfs.OsFs, path)
	if err != nil {
		return nil, err
	}
	if readonly {
		source = readonlyfs.New(source)
	} else {
		layer, err := projectionfs.New(tmpfs, path)
		if err != nil {
			return nil, err
		}
		source = layerfs.New(layer, source)
	}

	fs := composefs.New(tmpfs, "/tmp")
	if err = fs.Mount(path, source); err != nil {
		return nil, err
	}

	tmpfs = nil
	return fs, nil
}

// MemoryFileSystem provides an empty in-memory file system.
func MemoryFileSystem() vfs.FileSystem {
	return memoryfs.New()
}
