package main

import (
	"fmt"
	"os"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/spf13/pflag"

	"github.com/mandelsoft/emodel/pkg/encoding"
	"github.com/mandelsoft/emodel/pkg/encoding/formats"
	"github.com/mandelsoft/emodel/pkg/metamodel"
	"github.com/mandelsoft/emodel/pkg/metamodel/ecore"
	"github.com/mandelsoft/emodel/pkg/model"
	"github.com/mandelsoft/emodel/pkg/store"
)

const (
	METAMODEL_FILE = "library.ecore"
	INSTANCE_FILE  = "my_library_instance.xmi"
)

func Error(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}

func main() {
	var dir string = "model"
	var level string = "info"
	var embedded bool

	flags := pflag.NewFlagSet("librarydemo", pflag.ExitOnError)

	flags.StringVarP(&dir, "dir", "d", dir, "model directory")
	flags.StringVarP(&level, "log-level", "L", level, "log level")
	flags.BoolVarP(&embedded, "embedded", "e", false, "write the embedded Ecore document instead of defining the metamodel")

	err := flags.Parse(os.Args[1:])
	if err != nil {
		Error("invalid arguments: %s", err)
	}
	if err := configureLogging(level); err != nil {
		Error("invalid log level %q", level)
	}

	reg := ecore.NewRegistry()
	s, err := store.NewSpecification(dir).Create(reg, formats.New())
	if err != nil {
		Error("cannot create store: %s", err)
	}

	if embedded {
		err = vfs.WriteFile(s.FileSystem(), s.Path(METAMODEL_FILE), []byte(repairedLibraryEcore()), 0o600)
	} else {
		err = defineMetamodel(s)
	}
	if err != nil {
		Error("cannot write metamodel: %s", err)
	}
	fmt.Printf("metamodel written to %s\n", s.Path(METAMODEL_FILE))

	pkgs, err := s.LoadMetamodel(METAMODEL_FILE)
	if err != nil {
		Error("cannot load metamodel: %s", err)
	}
	p := pkgs[0]
	describe(p)

	res, err := instantiate(model.NewFactory(reg), p)
	if err != nil {
		Error("cannot instantiate model: %s", err)
	}
	if err := s.Save(INSTANCE_FILE, res, encoding.Options{}); err != nil {
		Error("cannot save instance: %s", err)
	}
	fmt.Printf("instance written to %s\n", s.Path(INSTANCE_FILE))
}

func defineMetamodel(s *store.Store) error {
	p, err := newLibraryPackage()
	if err != nil {
		return err
	}
	return s.SaveMetamodel(METAMODEL_FILE, p)
}

func describe(p *metamodel.Package) {
	fmt.Printf("package %s (%s)\n", p.Name(), p.URI())
	for _, c := range p.Classes() {
		fmt.Printf("  - class %s\n", c.Name())
		for _, f := range c.Features() {
			if f.IsAttribute() {
				fmt.Printf("    - attribute %s (type %s)\n", f.Name(), f.DataType().Name())
			} else {
				fmt.Printf("    - reference %s (target %s)\n", f.Name(), f.Target().Name())
			}
		}
	}
}

func instantiate(f *model.Factory, p *metamodel.Package) (*model.Resource, error) {
	author, err := f.Create(p.URI(), "Author")
	if err != nil {
		return nil, err
	}
	if err := author.Set("name", "J. R. R. Tolkien"); err != nil {
		return nil, err
	}
	log.Info("created author {{name}}", "name", "J. R. R. Tolkien")

	for _, title := range []string{"The Hobbit", "The Lord of the Rings"} {
		book, err := f.Create(p.URI(), "Book")
		if err != nil {
			return nil, err
		}
		if err := book.Set("title", title); err != nil {
			return nil, err
		}
		if err := author.Append("books", book); err != nil {
			return nil, err
		}
		log.Info("added book {{title}}", "title", title)
	}

	res := model.NewResource(INSTANCE_FILE)
	if err := res.Append(author); err != nil {
		return nil, err
	}
	return res, nil
}
