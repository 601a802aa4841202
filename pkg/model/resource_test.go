package model_test

import (
	. "github.com/mandelsoft/emodel/pkg/testutils"
	. "github.com/mandelsoft/goutils/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	me "github.com/mandelsoft/emodel/pkg/model"
)

var _ = Describe("resource", func() {
	var factory *me.Factory
	var res *me.Resource
	var lib, tolkien, lewis, hobbit, lotr, narnia *me.Object

	BeforeEach(func() {
		factory = me.NewFactory(newRegistry())
		res = me.NewResource("library.xmi")

		lib = Must(factory.Create(LIBRARY, "Library"))
		tolkien = Must(factory.Create(LIBRARY, "Author"))
		lewis = Must(factory.Create(LIBRARY, "Author"))
		hobbit = Must(factory.Create(LIBRARY, "Book"))
		lotr = Must(factory.Create(LIBRARY, "Book"))
		narnia = Must(factory.Create(LIBRARY, "Book"))

		MustBeSuccessful(tolkien.Set("name", "Tolkien"))
		MustBeSuccessful(lewis.Set("name", "Lewis"))
		MustBeSuccessful(lib.Append("authors", tolkien))
		MustBeSuccessful(lib.Set("founder", lewis))
		MustBeSuccessful(tolkien.Append("books", hobbit))
		MustBeSuccessful(tolkien.Append("books", lotr))
		MustBeSuccessful(lewis.Append("books", narnia))
		MustBeSuccessful(res.Append(lib))
	})

	Context("roots", func() {
		It("lists contents", func() {
			var list []*me.Object
			for o := range res.AllContents() {
				list = append(list, o)
			}
			Expect(list).To(Equal([]*me.Object{lib, tolkien, hobbit, lotr, lewis, narnia}))
			Expect(res.Contains(lotr)).To(BeTrue())
			Expect(lib.Resource()).To(BeIdenticalTo(res))
		})

		It("rejects contained objects", func() {
			Expect(res.Append(hobbit)).To(MatchError(me.ErrAlreadyContained))
			Expect(res.Append(lib)).To(MatchError(me.ErrAlreadyContained))
			Expect(res.Roots()).To(HaveLen(1))
		})

		It("removes roots", func() {
			other := Must(factory.Create(LIBRARY, "Book"))
			Expect(res.Remove(other)).To(MatchError(me.ErrNotReferenced))
			MustBeSuccessful(res.Remove(lib))
			Expect(res.Roots()).To(BeEmpty())
			Expect(res.Contains(hobbit)).To(BeFalse())
		})

		It("looks up identifiers", func() {
			lotr.SetID("lotr")
			Expect(res.Lookup("lotr")).To(BeIdenticalTo(lotr))
			Expect(res.Lookup("narnia")).To(BeNil())
		})
	})

	Context("fragments", func() {
		It("addresses objects", func() {
			Expect(res.URIFragment(lib)).To(Equal("/"))
			Expect(res.URIFragment(tolkien)).To(Equal("//Tolkien"))
			Expect(res.URIFragment(lotr)).To(Equal("//Tolkien/@books.1"))
			Expect(res.URIFragment(narnia)).To(Equal("//Lewis/@books.0"))

			second := Must(factory.Create(LIBRARY, "Book"))
			MustBeSuccessful(res.Append(second))
			Expect(res.URIFragment(second)).To(Equal("/1"))
		})

		It("falls back to positions for ambiguous names", func() {
			MustBeSuccessful(lewis.Set("name", "Tolkien"))
			Expect(res.URIFragment(tolkien)).To(Equal("//@authors.0"))
			Expect(res.URIFragment(lewis)).To(Equal("//@founder"))
		})

		It("resolves fragments", func() {
			for o := range res.AllContents() {
				frag := Must(res.URIFragment(o))
				Expect(res.Resolve(frag)).To(BeIdenticalTo(o))
				Expect(res.Resolve("#" + frag)).To(BeIdenticalTo(o))
			}
			Expect(res.Resolve("//@authors.0/@books.1")).To(BeIdenticalTo(lotr))
		})

		It("reports invalid fragments", func() {
			_, err := res.Resolve("Tolkien")
			Expect(err).To(MatchError(me.ErrInvalidFragment))
			_, err = res.Resolve("//@authors")
			Expect(err).To(MatchError(me.ErrInvalidFragment))
			_, err = res.Resolve("//@unknown.0")
			Expect(err).To(MatchError(me.ErrInvalidFragment))
			_, err = res.Resolve("//@authors.3")
			Expect(err).To(MatchError(me.ErrNotInResource))
			_, err = res.Resolve("/2")
			Expect(err).To(MatchError(me.ErrNotInResource))
			_, err = res.Resolve("//Nobody")
			Expect(err).To(MatchError(me.ErrNotInResource))
		})

		It("rejects foreign objects", func() {
			other := Must(factory.Create(LIBRARY, "Book"))
			_, err := res.URIFragment(other)
			Expect(err).To(MatchError(me.ErrNotInResource))
		})
	})

	Context("equality", func() {
		copyOf := func() *me.Resource {
			r := me.NewResource("copy.xmi")
			l := Must(factory.Create(LIBRARY, "Library"))
			t := Must(factory.Create(LIBRARY, "Author"))
			c := Must(factory.Create(LIBRARY, "Author"))
			MustBeSuccessful(t.Set("name", "Tolkien"))
			MustBeSuccessful(c.Set("name", "Lewis"))
			MustBeSuccessful(l.Append("authors", t))
			MustBeSuccessful(l.Set("founder", c))
			for _, o := range []*me.Object{t, t, c} {
				MustBeSuccessful(o.Append("books", Must(factory.Create(LIBRARY, "Book"))))
			}
			MustBeSuccessful(r.Append(l))
			return r
		}

		It("matches equal structures", func() {
			MustBeSuccessful(me.Equal(res, copyOf()))
		})

		It("detects different values", func() {
			c := copyOf()
			MustBeSuccessful(c.Roots()[0].Set("name", "Bodleian"))
			Expect(me.Equal(res, c)).To(MatchError(me.ErrStructuralMismatch))
		})

		It("detects different reference targets", func() {
			c := copyOf()
			MustBeSuccessful(tolkien.Set("favorite", lotr))
			Expect(me.Equal(res, c)).To(MatchError(me.ErrStructuralMismatch))

			ct := Must(c.Roots()[0].Objects("authors"))[0]
			books := Must(ct.Objects("books"))
			MustBeSuccessful(ct.Set("favorite", books[0]))
			Expect(me.Equal(res, c)).To(MatchError(me.ErrStructuralMismatch))
			MustBeSuccessful(ct.Set("favorite", books[1]))
			MustBeSuccessful(me.Equal(res, c))
		})
	})
})
