package encoding_test

import (
	"io"

	. "github.com/mandelsoft/emodel/pkg/testutils"
	. "github.com/mandelsoft/goutils/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	me "github.com/mandelsoft/emodel/pkg/encoding"
	"github.com/mandelsoft/emodel/pkg/metamodel"
	"github.com/mandelsoft/emodel/pkg/model"
)

type format struct {
	name string
	exts []string
}

func (f *format) Name() string         { return f.name }
func (f *format) Extensions() []string { return f.exts }
func (f *format) Encode(w io.Writer, res *model.Resource, opts me.Options) error {
	return nil
}
func (f *format) Decode(r io.Reader, reg *metamodel.Registry, uri string) (*model.Resource, error) {
	return model.NewResource(uri), nil
}

var _ = Describe("encoding", func() {
	var reg *metamodel.Registry

	BeforeEach(func() {
		reg = LibraryRegistry()
	})

	Context("scheme", func() {
		It("selects formats by extension", func() {
			s := me.NewScheme()
			x := &format{"x", []string{".x", ".XD"}}
			y := &format{"y", []string{".y"}}
			MustBeSuccessful(s.Register(x))
			MustBeSuccessful(s.Register(y))

			Expect(s.Names()).To(Equal([]string{"x", "y"}))
			Expect(s.Get("y")).To(BeIdenticalTo(y))
			Expect(s.Get("z")).To(BeNil())
			Expect(s.ForPath("dir/model.xd")).To(BeIdenticalTo(x))
			Expect(s.ForPath("model.Y")).To(BeIdenticalTo(y))
			_, err := s.ForPath("model.z")
			Expect(err).To(MatchError(me.ErrUnknownFormat))
		})

		It("rejects conflicts", func() {
			s := me.NewScheme()
			MustBeSuccessful(s.Register(&format{"x", []string{".x"}}))
			Expect(s.Register(&format{"x", nil})).To(MatchError(`format "x" already registered`))
			Expect(s.Register(&format{"z", []string{".X"}})).To(MatchError(`extension ".X" of format "z" already used by format "x"`))
			Expect(s.Names()).To(Equal([]string{"x"}))
		})
	})

	Context("namespaces", func() {
		It("assigns unique prefixes", func() {
			p := reg.Package(LIBRARY)
			other := Must(metamodel.NewPackageFromSpec(metamodel.PackageSpec("other", "http://example.org/other", "lib",
				metamodel.ClassSpec("Shelf"),
			), reg))
			anon := Must(metamodel.NewPackageFromSpec(metamodel.PackageSpec("", "http://example.org/anon", ""), reg))

			ns := me.NewNamespaces("xmi")
			Expect(ns.Prefix(p)).To(Equal("lib"))
			Expect(ns.Prefix(other)).To(Equal("lib1"))
			Expect(ns.Prefix(p)).To(Equal("lib"))
			Expect(ns.Prefix(anon)).To(Equal("ns"))
			Expect(ns.QName(other.Class("Shelf"))).To(Equal("lib1:Shelf"))
			Expect(ns.List()).To(Equal([]me.Namespace{
				{"lib", LIBRARY},
				{"lib1", "http://example.org/other"},
				{"ns", "http://example.org/anon"},
			}))
		})

		It("avoids reserved prefixes", func() {
			p := Must(metamodel.NewPackageFromSpec(metamodel.PackageSpec("xmi", "http://example.org/xmi", ""), reg))
			Expect(me.NewNamespaces("xmi", "xmi1").Prefix(p)).To(Equal("xmi2"))
		})
	})

	Context("pointers", func() {
		var res *model.Resource
		var author *model.Object
		var books []*model.Object

		BeforeEach(func() {
			res = Tolkien(reg, "tolkien.xmi")
			author = res.Roots()[0]
			books = Must(author.Objects("books"))
		})

		It("uses fragments", func() {
			Expect(me.Pointer(res, books[1], me.Options{})).To(Equal("#//@books.1"))
			Expect(me.Pointers(res, books, me.Options{})).To(Equal("#//@books.0 #//@books.1"))
			Expect(me.Pointers(res, nil, me.Options{})).To(Equal(""))
		})

		It("uses identifiers", func() {
			opts := me.Options{UseIDs: true}
			books[0].SetID("hobbit")
			me.PrepareIDs(res, opts)
			Expect(author.ID()).NotTo(BeEmpty())
			Expect(me.Pointer(res, books[0], opts)).To(Equal("hobbit"))
			Expect(me.Pointer(res, books[1], opts)).To(Equal(books[1].ID()))
		})

		It("rejects foreign objects", func() {
			other := Must(model.NewFactory(reg).Create(LIBRARY, "Book"))
			_, err := me.Pointer(res, other, me.Options{})
			Expect(err).To(MatchError(me.ErrDanglingReference))
		})
	})

	Context("loader", func() {
		var l *me.Loader
		var author *model.Object

		BeforeEach(func() {
			l = me.NewLoader(reg, "doc.xmi")
			author = Must(l.Instantiate(Must(l.ResolveClass(LIBRARY, "Author", "doc.xmi:1")), nil, "doc.xmi:1"))
			MustBeSuccessful(l.AddRoot(author))
		})

		It("resolves deferred references", func() {
			books := Must(l.Feature(author, "books", "doc.xmi:2"))
			for i := 0; i < 2; i++ {
				b := Must(l.Instantiate(books.Target(), books.Target(), "doc.xmi:2"))
				MustBeSuccessful(l.Contain(author, books, b, "doc.xmi:2"))
			}
			second := Must(author.Objects("books"))[1]
			MustBeSuccessful(l.SetID(second, "b2", "doc.xmi:3"))

			favorite := Must(l.Feature(author, "favorite", "doc.xmi:1"))
			coauthors := Must(l.Feature(author, "coauthors", "doc.xmi:1"))
			MustBeSuccessful(l.Defer(author, favorite, []string{"b2"}, "doc.xmi:1"))
			MustBeSuccessful(l.Defer(author, coauthors, me.SplitPointers(" #/  doc.xmi#/ "), "doc.xmi:1"))

			res := Must(l.Finish())
			Expect(res.Roots()).To(Equal([]*model.Object{author}))
			Expect(author.Object("favorite")).To(BeIdenticalTo(second))
			Expect(author.Objects("coauthors")).To(Equal([]*model.Object{author, author}))
		})

		It("parses attribute values", func() {
			MustBeSuccessful(l.SetAttribute(author, Must(l.Feature(author, "name", "l")), "Tolkien", "l"))
			Expect(author.Get("name")).To(Equal("Tolkien"))

			b := Must(l.Instantiate(Must(l.ResolveClass(LIBRARY, "Book", "l")), nil, "l"))
			pages := b.Class().Feature("pages")
			tags := b.Class().Feature("tags")
			MustBeSuccessful(l.SetAttribute(b, pages, "42", "l"))
			MustBeSuccessful(l.SetAttribute(b, tags, "a", "l"))
			MustBeSuccessful(l.SetAttribute(b, tags, "b", "l"))
			Expect(b.Get("pages")).To(Equal(42))
			Expect(b.Values("tags")).To(Equal([]any{"a", "b"}))

			Expect(l.SetAttribute(b, pages, "many", "doc.xmi:7")).To(MatchError(`doc.xmi:7: malformed value: Book.pages: "many" is no valid EInt: strconv.Atoi: parsing "many": invalid syntax`))
			Expect(l.SetAttribute(b, pages, "43", "doc.xmi:8")).To(MatchError(me.ErrInvalidDocument))
			Expect(b.Get("pages")).To(Equal(42))
		})

		It("reports unknown elements", func() {
			_, err := l.ResolveClass(LIBRARY, "Shelf", "doc.xmi:4")
			Expect(err).To(MatchError(me.ErrUnresolvedType))
			Expect(err).To(MatchError(metamodel.ErrUnknownClass))
			_, err = l.ResolveClass("http://unknown", "Author", "doc.xmi:4")
			Expect(err).To(MatchError(me.ErrUnresolvedType))
			Expect(err).To(MatchError(metamodel.ErrUnknownNamespace))
			_, err = l.Feature(author, "title", "doc.xmi:4")
			Expect(err).To(MatchError(model.ErrUnknownFeature))
			Expect(err.Error()).To(HavePrefix("doc.xmi:4: "))

			book := Must(l.ResolveClass(LIBRARY, "Book", "doc.xmi:5"))
			_, err = l.Instantiate(book, author.Class(), "doc.xmi:5")
			Expect(err).To(MatchError(model.ErrTypeMismatch))
			_, err = l.Instantiate(Must(l.ResolveClass(LIBRARY, "Item", "doc.xmi:5")), nil, "doc.xmi:5")
			Expect(err).To(MatchError(model.ErrAbstractClass))
		})

		It("rejects duplicate identifiers", func() {
			MustBeSuccessful(l.SetID(author, "a", "doc.xmi:1"))
			other := Must(l.Instantiate(author.Class(), nil, "doc.xmi:2"))
			Expect(l.SetID(other, "a", "doc.xmi:2")).To(MatchError(me.ErrInvalidDocument))
		})

		It("rejects multiple values for single valued features", func() {
			favorite := author.Class().Feature("favorite")
			MustBeSuccessful(l.Defer(author, favorite, []string{"#/", "#/"}, "doc.xmi:1"))
			_, err := l.Finish()
			Expect(err).To(MatchError(me.ErrInvalidDocument))
		})

		It("reports dangling references", func() {
			coauthors := author.Class().Feature("coauthors")
			for _, p := range []string{"nobody", "#//@books.0", "/1", "other.xmi#/"} {
				l := me.NewLoader(reg, "doc.xmi")
				a := Must(l.Instantiate(author.Class(), nil, "l"))
				MustBeSuccessful(l.AddRoot(a))
				MustBeSuccessful(l.Defer(a, coauthors, []string{p}, "l"))
				_, err := l.Finish()
				Expect(err).To(MatchError(me.ErrDanglingReference), p)
			}
		})

		It("reports malformed fragments", func() {
			MustBeSuccessful(l.Defer(author, author.Class().Feature("coauthors"), []string{"#//@books"}, "doc.xmi:1"))
			_, err := l.Finish()
			Expect(err).To(MatchError(me.ErrMalformedValue))
		})
	})
})
