package ecore_test

import (
	"bytes"
	"strings"

	. "github.com/mandelsoft/emodel/pkg/testutils"
	. "github.com/mandelsoft/goutils/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mandelsoft/emodel/pkg/encoding"
	"github.com/mandelsoft/emodel/pkg/encoding/xmi"
	"github.com/mandelsoft/emodel/pkg/metamodel"
	me "github.com/mandelsoft/emodel/pkg/metamodel/ecore"
	"github.com/mandelsoft/emodel/pkg/model"
)

const LIBRARY_ECORE = `<?xml version="1.0" encoding="UTF-8"?>
<ecore:EPackage xmi:version="2.0" xmlns:xmi="http://www.omg.org/XMI" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:ecore="http://www.eclipse.org/emf/2002/Ecore" name="library" nsURI="http://example.org/library" nsPrefix="lib">
  <eClassifiers xsi:type="ecore:EClass" name="Book">
    <eStructuralFeatures xsi:type="ecore:EAttribute" name="title" eType="ecore:EDataType http://www.eclipse.org/emf/2002/Ecore#//EString"/>
  </eClassifiers>
  <eClassifiers xsi:type="ecore:EClass" name="Author">
    <eStructuralFeatures xsi:type="ecore:EAttribute" name="name" eType="ecore:EDataType http://www.eclipse.org/emf/2002/Ecore#//EString"/>
    <eStructuralFeatures xsi:type="ecore:EReference" name="books" upperBound="-1" eType="#//Book" containment="true"/>
  </eClassifiers>
</ecore:EPackage>
`

var simpleLibrary = metamodel.PackageSpec("library", LIBRARY, "lib",
	metamodel.ClassSpec("Book",
		metamodel.Attr("title", "EString"),
	),
	metamodel.ClassSpec("Author",
		metamodel.Attr("name", "EString"),
		metamodel.Ref("books", "Book", true, metamodel.Many),
	),
)

var _ = Describe("ecore", func() {
	var reg *metamodel.Registry
	var factory *model.Factory

	encode := func(o *model.Object) string {
		res := model.NewResource("library.ecore")
		MustBeSuccessful(res.Append(o))
		var buf bytes.Buffer
		MustBeSuccessful(xmi.New().Encode(&buf, res, encoding.Options{}))
		return buf.String()
	}

	decode := func(doc string) *model.Object {
		res := Must(xmi.New().Decode(strings.NewReader(doc), reg, "library.ecore"))
		Expect(res.Roots()).To(HaveLen(1))
		return res.Roots()[0]
	}

	BeforeEach(func() {
		reg = me.NewRegistry()
		factory = model.NewFactory(reg)
	})

	It("provides a valid bootstrap package", func() {
		p := me.Package()
		Expect(p.URI()).To(Equal(me.NS_URI))
		Expect(reg.Package(me.NS_URI)).To(BeIdenticalTo(p))
		Expect(p.Class(me.EREFERENCE).IsA(p.Class(me.ENAMED_ELEMENT))).To(BeTrue())
		Expect(p.Class(me.ECLASSIFIER).IsAbstract()).To(BeTrue())
		Expect(me.NewRegistry().Package(me.NS_URI)).To(BeIdenticalTo(p))
	})

	It("handles data type references", func() {
		Expect(me.DataTypeRef(metamodel.EInt)).To(Equal("ecore:EDataType http://www.eclipse.org/emf/2002/Ecore#//EInt"))
		Expect(me.DataTypeName(me.DataTypeRef(metamodel.EInt))).To(Equal("EInt"))
		Expect(me.DataTypeName("EString")).To(Equal("EString"))
		Expect(me.DataTypeName("#//EBoolean")).To(Equal("EBoolean"))
	})

	It("describes packages", func() {
		p := Must(metamodel.NewPackageFromSpec(simpleLibrary, reg))
		Expect(encode(Must(me.ToModel(factory, p)))).To(Equal(LIBRARY_ECORE))
	})

	It("compiles descriptions", func() {
		p := Must(me.FromModel(reg, decode(LIBRARY_ECORE)))
		Expect(p.Specification()).To(Equal(simpleLibrary))
		Expect(p.IsSealed()).To(BeFalse())
		Expect(Must(reg.RegisterPackage(p)).IsSealed()).To(BeTrue())
	})

	It("round trips packages", func() {
		p := Must(metamodel.NewPackageFromSpec(LibrarySpec, reg))
		doc := encode(Must(me.ToModel(factory, p)))
		q := Must(me.FromModel(reg, decode(doc)))
		Expect(q.Specification()).To(Equal(p.Specification()))
		Expect(q.Fingerprint()).To(Equal(p.Fingerprint()))
		Expect(doc).To(ContainSubstring(`<eClassifiers xsi:type="ecore:EClass" name="Item" abstract="true">`))
		Expect(doc).To(ContainSubstring(`name="name" eType="ecore:EDataType http://www.eclipse.org/emf/2002/Ecore#//EString" iD="true"`))
		Expect(doc).To(ContainSubstring(`<eClassifiers xsi:type="ecore:EClass" name="Novel" eSuperTypes="#//Book">`))
	})

	It("describes the bootstrap package", func() {
		doc := encode(Must(me.ToModel(factory, me.Package())))
		q := Must(me.Spec(decode(doc)))
		Expect(q).To(Equal(me.Specification))
	})

	It("refers to classes of other packages", func() {
		other := Must(factory.Create(me.NS_URI, me.EPACKAGE))
		MustBeSuccessful(other.Set("nsURI", "http://example.org/other"))
		shelf := Must(factory.Create(me.NS_URI, me.ECLASS))
		MustBeSuccessful(shelf.Set("name", "Shelf"))
		MustBeSuccessful(other.Append("eClassifiers", shelf))

		pkg := Must(factory.Create(me.NS_URI, me.EPACKAGE))
		MustBeSuccessful(pkg.Set("nsURI", "http://example.org/main"))
		c := Must(factory.Create(me.NS_URI, me.ECLASS))
		MustBeSuccessful(c.Set("name", "Box"))
		MustBeSuccessful(c.Append("eSuperTypes", shelf))
		MustBeSuccessful(pkg.Append("eClassifiers", c))

		spec := Must(me.Spec(pkg))
		Expect(spec.Classes[0].Super).To(Equal("http://example.org/other#Shelf"))

		_, err := me.FromModel(reg, pkg)
		Expect(err).To(MatchError(me.ErrInvalidMetamodel))
		Expect(err).To(MatchError(metamodel.ErrUnknownNamespace))
	})

	Context("errors", func() {
		It("rejects foreign classes", func() {
			base := Must(metamodel.NewPackageFromSpec(metamodel.PackageSpec("base", "http://example.org/base", "",
				metamodel.ClassSpec("Base"),
			), reg))
			reg.MustRegisterPackage(base)
			p := Must(metamodel.NewPackageFromSpec(metamodel.PackageSpec("derived", "http://example.org/derived", "",
				metamodel.ClassSpec("Derived").WithSuper("http://example.org/base#Base"),
			), reg))
			_, err := me.ToModel(factory, p)
			Expect(err).To(MatchError(me.ErrInvalidMetamodel))
		})

		It("rejects unsupported roots", func() {
			_, err := me.Spec(Must(factory.Create(me.NS_URI, me.ECLASS)))
			Expect(err).To(MatchError(me.ErrInvalidMetamodel))
			_, err = me.Spec(nil)
			Expect(err).To(MatchError(me.ErrInvalidMetamodel))
		})

		It("rejects multiple super types", func() {
			doc := strings.Replace(LIBRARY_ECORE, `name="Author"`, `name="Author" eSuperTypes="#//Book #//Book"`, 1)
			_, err := me.FromModel(reg, decode(doc))
			Expect(err).To(MatchError(me.ErrInvalidMetamodel))
		})

		It("rejects untyped references", func() {
			doc := strings.Replace(LIBRARY_ECORE, ` eType="#//Book"`, ``, 1)
			_, err := me.FromModel(reg, decode(doc))
			Expect(err).To(MatchError(me.ErrInvalidMetamodel))
		})

		It("rejects unknown data types", func() {
			doc := strings.Replace(LIBRARY_ECORE, `#//EString"/>`, `#//EWhatever"/>`, 1)
			_, err := me.FromModel(reg, decode(doc))
			Expect(err).To(MatchError(me.ErrInvalidMetamodel))
		})
	})
})
