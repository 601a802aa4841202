package testutils

import (
	. "github.com/mandelsoft/goutils/testutils"

	"github.com/mandelsoft/emodel/pkg/metamodel"
	"github.com/mandelsoft/emodel/pkg/model"
)

const LIBRARY = "http://example.org/library"

// LibrarySpec describes a small library metamodel used by the
// encoding and storage tests.
var LibrarySpec = metamodel.PackageSpec("library", LIBRARY, "lib",
	metamodel.ClassSpec("Item",
		metamodel.Attr("name", "EString").AsID(),
	).AsAbstract(),
	metamodel.ClassSpec("Book",
		metamodel.Attr("title", "EString"),
		metamodel.Attr("pages", "EInt"),
		metamodel.Attr("tags", "EString").WithMany(),
	),
	metamodel.ClassSpec("Novel",
		metamodel.Attr("genre", "EString"),
	).WithSuper("Book"),
	metamodel.ClassSpec("Author",
		metamodel.Ref("books", "Book", true, metamodel.Many),
		metamodel.Ref("favorite", "Book", false, metamodel.Single),
		metamodel.Ref("coauthors", "Author", false, metamodel.Many),
	).WithSuper("Item"),
	metamodel.ClassSpec("Library",
		metamodel.Ref("authors", "Author", true, metamodel.Many),
		metamodel.Ref("founder", "Author", true, metamodel.Single),
	).WithSuper("Item"),
)

// LibraryRegistry returns a registry with the library package.
func LibraryRegistry() *metamodel.Registry {
	reg := metamodel.NewRegistry()
	reg.MustRegisterPackage(Must(metamodel.NewPackageFromSpec(LibrarySpec, reg)))
	return reg
}

// Tolkien creates a resource with a single author having two books.
func Tolkien(reg *metamodel.Registry, uri string) *model.Resource {
	f := model.NewFactory(reg)
	res := model.NewResource(uri)

	a := Must(f.Create(LIBRARY, "Author"))
	MustBeSuccessful(a.Set("name", "J. R. R. Tolkien"))
	for _, t := range []string{"The Hobbit", "The Lord of the Rings"} {
		b := Must(f.Create(LIBRARY, "Book"))
		MustBeSuccessful(b.Set("title", t))
		MustBeSuccessful(a.Append("books", b))
	}
	MustBeSuccessful(res.Append(a))
	return res
}
