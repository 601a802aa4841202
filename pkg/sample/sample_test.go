package sample_test

import (
	"bytes"

	. "github.com/mandelsoft/emodel/pkg/testutils"
	. "github.com/mandelsoft/goutils/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mandelsoft/emodel/pkg/encoding"
	"github.com/mandelsoft/emodel/pkg/encoding/formats"
	"github.com/mandelsoft/emodel/pkg/metamodel"
	"github.com/mandelsoft/emodel/pkg/model"
	me "github.com/mandelsoft/emodel/pkg/sample"
)

var _ = Describe("sample", func() {
	var reg *metamodel.Registry
	var factory *model.Factory
	var library *metamodel.Class

	generate := func(seed int64) *model.Resource {
		g := me.New(factory, seed)
		g.MaxDepth = 4
		g.MaxValues = 4
		return Must(g.Generate(library, "sample.xmi"))
	}

	BeforeEach(func() {
		reg = LibraryRegistry()
		factory = model.NewFactory(reg)
		library = Must(reg.ResolveClass(LIBRARY, "Library"))
	})

	It("is reproducible", func() {
		MustBeSuccessful(model.Equal(generate(42), generate(42)))
	})

	It("generates valid graphs", func() {
		for seed := int64(0); seed < 20; seed++ {
			res := generate(seed)
			Expect(res.Roots()).To(HaveLen(1))
			names := map[string]bool{}
			for o := range res.AllContents() {
				for _, f := range o.Class().AllFeatures() {
					switch {
					case f.IsID():
						name := Must(o.Get(f.Name())).(string)
						Expect(names).NotTo(HaveKey(name))
						names[name] = true
					case f.IsReference() && !f.IsContainment():
						for _, t := range Must(o.Objects(f.Name())) {
							Expect(res.Contains(t)).To(BeTrue())
							Expect(t.Class().IsA(f.Target())).To(BeTrue())
						}
					}
				}
				Expect(o.Class().IsAbstract()).To(BeFalse())
			}
		}
	})

	It("limits the depth", func() {
		g := me.New(factory, 7)
		g.MaxDepth = 0
		res := Must(g.Generate(library, "flat.xmi"))
		Expect(res.Roots()[0].Contents()).To(BeEmpty())
	})

	It("round trips all formats", func() {
		for seed := int64(0); seed < 5; seed++ {
			res := generate(seed)
			for _, name := range formats.Default().Names() {
				f := formats.Default().Get(name)
				for _, opts := range []encoding.Options{{}, {UseIDs: true}} {
					var buf bytes.Buffer
					MustBeSuccessful(f.Encode(&buf, res, opts))
					loaded := Must(f.Decode(bytes.NewReader(buf.Bytes()), reg, "sample"))
					MustBeSuccessful(model.Equal(res, loaded))
				}
			}
		}
	})

	It("rejects abstract classes", func() {
		_, err := me.New(factory, 1).Generate(Must(reg.ResolveClass(LIBRARY, "Item")), "item.xmi")
		Expect(err).To(MatchError(model.ErrAbstractClass))
	})
})
