package yaml_test

import (
	"bytes"
	"strings"

	. "github.com/mandelsoft/emodel/pkg/testutils"
	. "github.com/mandelsoft/goutils/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"sigs.k8s.io/yaml"

	"github.com/mandelsoft/emodel/pkg/encoding"
	me "github.com/mandelsoft/emodel/pkg/encoding/yaml"
	"github.com/mandelsoft/emodel/pkg/metamodel"
	"github.com/mandelsoft/emodel/pkg/model"
)

func ptr(s string) *string {
	return &s
}

var _ = Describe("yaml", func() {
	var reg *metamodel.Registry
	var format *me.Format
	var res *model.Resource
	var author *model.Object
	var books []*model.Object

	encode := func(res *model.Resource, opts encoding.Options) []byte {
		var buf bytes.Buffer
		MustBeSuccessful(format.Encode(&buf, res, opts))
		return buf.Bytes()
	}

	document := func(data []byte) *me.Document {
		var doc me.Document
		MustBeSuccessful(yaml.UnmarshalStrict(data, &doc))
		return &doc
	}

	decode := func(doc string) (*model.Resource, error) {
		return format.Decode(strings.NewReader(doc), reg, "doc.yaml")
	}

	BeforeEach(func() {
		reg = LibraryRegistry()
		format = me.New()
		res = Tolkien(reg, "doc.yaml")
		author = res.Roots()[0]
		books = Must(author.Objects("books"))
	})

	It("encodes documents", func() {
		MustBeSuccessful(author.Set("favorite", books[1]))
		MustBeSuccessful(books[0].Append("tags", "fantasy"))
		MustBeSuccessful(books[0].Set("pages", 310))

		data := encode(res, encoding.Options{})
		Expect(encode(res, encoding.Options{})).To(Equal(data))
		Expect(document(data)).To(Equal(&me.Document{
			Namespaces: []me.Namespace{{Prefix: "lib", URI: LIBRARY}},
			Contents: []*me.Element{{
				Type: "lib:Author",
				Features: []*me.Feature{
					{Name: "name", Value: ptr("J. R. R. Tolkien")},
					{Name: "books", Contents: []*me.Element{
						{Type: "lib:Book", Features: []*me.Feature{
							{Name: "title", Value: ptr("The Hobbit")},
							{Name: "pages", Value: ptr("310")},
							{Name: "tags", Values: []string{"fantasy"}},
						}},
						{Type: "lib:Book", Features: []*me.Feature{
							{Name: "title", Value: ptr("The Lord of the Rings")},
						}},
					}},
					{Name: "favorite", Refs: []string{"#//@books.1"}},
				},
			}},
		}))
	})

	It("encodes identifiers", func() {
		author.SetID("tolkien")
		MustBeSuccessful(author.Append("coauthors", author))
		doc := document(encode(res, encoding.Options{UseIDs: true}))
		Expect(doc.Contents[0].ID).To(Equal("tolkien"))
		Expect(doc.Contents[0].Features[2]).To(Equal(&me.Feature{Name: "coauthors", Refs: []string{"tolkien"}}))
		Expect(doc.Contents[0].Features[1].Contents[0].ID).To(Equal(books[0].ID()))
	})

	It("encodes empty resources", func() {
		Expect(document(encode(model.NewResource("empty.yaml"), encoding.Options{}))).To(Equal(&me.Document{Contents: []*me.Element{}}))
	})

	It("round trips", func() {
		novel := Must(model.NewFactory(reg).Create(LIBRARY, "Novel"))
		MustBeSuccessful(novel.Set("genre", "epic"))
		MustBeSuccessful(author.Append("books", novel))
		MustBeSuccessful(author.Set("favorite", novel))
		lib := Must(model.NewFactory(reg).Create(LIBRARY, "Library"))
		MustBeSuccessful(lib.Set("name", "Bodleian"))
		MustBeSuccessful(res.Append(lib))

		for _, opts := range []encoding.Options{{}, {UseIDs: true}} {
			data := encode(res, opts)
			loaded := Must(format.Decode(bytes.NewReader(data), reg, "doc.yaml"))
			MustBeSuccessful(model.Equal(res, loaded))
			Expect(encode(loaded, opts)).To(Equal(data))
		}
	})

	It("defaults child types to the reference type", func() {
		loaded := Must(decode(`
namespaces:
- prefix: l
  uri: http://example.org/library
contents:
- type: l:Author
  features:
  - name: books
    contents:
    - features:
      - name: title
        value: The Hobbit
    - type: l:Novel
  - name: favorite
    refs:
    - "#//@books.1"
`))
		a := loaded.Roots()[0]
		list := Must(a.Objects("books"))
		Expect(list[0].Class().Name()).To(Equal("Book"))
		Expect(list[0].Get("title")).To(Equal("The Hobbit"))
		Expect(list[1].Class().Name()).To(Equal("Novel"))
		Expect(a.Object("favorite")).To(BeIdenticalTo(list[1]))
	})

	It("rejects values yaml cannot represent", func() {
		MustBeSuccessful(books[0].Set("title", "\xff"))
		Expect(format.Encode(&bytes.Buffer{}, res, encoding.Options{})).To(MatchError(encoding.ErrUnrepresentable))
	})

	It("reports unresolved types", func() {
		for _, doc := range []string{
			"contents:\n- {}\n",
			"contents:\n- type: Author\n",
			"contents:\n- type: x:Author\n",
			"namespaces:\n- {prefix: x, uri: 'http://unknown'}\ncontents:\n- type: x:Author\n",
		} {
			_, err := decode(doc)
			Expect(err).To(MatchError(encoding.ErrUnresolvedType), doc)
		}
	})

	It("reports invalid documents", func() {
		for _, doc := range []string{
			"contents: [",
			"contents: []\nunknown: true\n",
			"namespaces:\n- {prefix: l, uri: a}\n- {prefix: l, uri: b}\ncontents: []\n",
			"namespaces:\n- {prefix: l, uri: 'http://example.org/library'}\ncontents:\n- type: l:Author\n  features:\n  - {name: name, refs: [x]}\n",
			"namespaces:\n- {prefix: l, uri: 'http://example.org/library'}\ncontents:\n- type: l:Author\n  features:\n  - {name: books, value: x}\n",
			"namespaces:\n- {prefix: l, uri: 'http://example.org/library'}\ncontents:\n- type: l:Author\n  features:\n  - {name: favorite, value: x}\n",
			"namespaces:\n- {prefix: l, uri: 'http://example.org/library'}\ncontents:\n- type: l:Book\n  features:\n  - {name: title, values: [a, b]}\n",
			"namespaces:\n- {prefix: l, uri: 'http://example.org/library'}\ncontents:\n- type: l:Book\n  features:\n  - {name: title, value: a}\n  - {name: title, value: b}\n",
		} {
			_, err := decode(doc)
			Expect(err).To(MatchError(encoding.ErrInvalidDocument), doc)
		}
	})

	It("reports feature errors with their location", func() {
		_, err := decode("namespaces:\n- {prefix: l, uri: 'http://example.org/library'}\ncontents:\n- type: l:Book\n  features:\n  - {name: title}\n  - {name: pages, value: many}\n")
		Expect(err).To(MatchError(encoding.ErrMalformedValue))
		Expect(err.Error()).To(HavePrefix("doc.yaml:contents[0].features[1]: "))

		_, err = decode("namespaces:\n- {prefix: l, uri: 'http://example.org/library'}\ncontents:\n- type: l:Book\n  features:\n  - {name: author}\n")
		Expect(err).To(MatchError(model.ErrUnknownFeature))

		_, err = decode("namespaces:\n- {prefix: l, uri: 'http://example.org/library'}\ncontents:\n- type: l:Author\n  features:\n  - {name: favorite, refs: ['#//@books.0']}\n")
		Expect(err).To(MatchError(encoding.ErrDanglingReference))
	})
})
