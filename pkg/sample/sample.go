// Package sample generates random object graphs conforming to
// a metamodel.
package sample

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/goombaio/namegenerator"

	"github.com/mandelsoft/emodel/pkg/metamodel"
	"github.com/mandelsoft/emodel/pkg/model"
)

type Generator struct {
	factory *model.Factory
	names   namegenerator.Generator
	rnd     *rand.Rand
	count   int

	// MaxDepth limits the depth of the containment tree.
	MaxDepth int
	// MaxValues limits the number of values of many valued features.
	MaxValues int
}

func New(f *model.Factory, seed int64) *Generator {
	return &Generator{
		factory:   f,
		names:     namegenerator.NewNameGenerator(seed),
		rnd:       rand.New(rand.NewSource(seed)),
		MaxDepth:  3,
		MaxValues: 3,
	}
}

// Generate creates a resource with a random graph below an object
// of the given class.
func (g *Generator) Generate(root *metamodel.Class, uri string) (*model.Resource, error) {
	o, err := g.object(root, 0)
	if err != nil {
		return nil, err
	}
	res := model.NewResource(uri)
	if err := res.Append(o); err != nil {
		return nil, err
	}

	var all []*model.Object
	for x := range res.AllContents() {
		all = append(all, x)
	}
	for _, o := range all {
		if err := g.references(o, all); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// candidates returns all concrete classes of registered packages
// compatible with the given class.
func (g *Generator) candidates(c *metamodel.Class) []*metamodel.Class {
	var result []*metamodel.Class
	for _, p := range g.factory.Registry().Packages() {
		for _, k := range p.Classes() {
			if !k.IsAbstract() && k.IsA(c) {
				result = append(result, k)
			}
		}
	}
	return result
}

func (g *Generator) amount(many bool) int {
	if !many {
		return g.rnd.Intn(2)
	}
	return g.rnd.Intn(g.MaxValues + 1)
}

func (g *Generator) object(c *metamodel.Class, depth int) (*model.Object, error) {
	o, err := g.factory.Instantiate(c)
	if err != nil {
		return nil, err
	}
	for _, f := range c.AllFeatures() {
		switch {
		case f.IsAttribute():
			n := g.amount(f.IsMany())
			if f.IsID() {
				n = 1
			}
			for i := 0; i < n; i++ {
				v := g.value(f)
				if f.IsMany() {
					err = o.Append(f.Name(), v)
				} else {
					err = o.Set(f.Name(), v)
				}
				if err != nil {
					return nil, err
				}
			}
		case f.IsContainment():
			if depth >= g.MaxDepth {
				continue
			}
			classes := g.candidates(f.Target())
			if len(classes) == 0 {
				continue
			}
			n := g.amount(f.IsMany())
			for i := 0; i < n; i++ {
				child, err := g.object(classes[g.rnd.Intn(len(classes))], depth+1)
				if err != nil {
					return nil, err
				}
				if f.IsMany() {
					err = o.Append(f.Name(), child)
				} else {
					err = o.Set(f.Name(), child)
				}
				if err != nil {
					return nil, err
				}
			}
		}
	}
	return o, nil
}

func (g *Generator) references(o *model.Object, all []*model.Object) error {
	for _, f := range o.Class().AllFeatures() {
		if !f.IsReference() || f.IsContainment() {
			continue
		}
		var targets []*model.Object
		for _, t := range all {
			if t.Class().IsA(f.Target()) {
				targets = append(targets, t)
			}
		}
		if len(targets) == 0 {
			continue
		}
		n := g.amount(f.IsMany())
		for i := 0; i < n; i++ {
			t := targets[g.rnd.Intn(len(targets))]
			var err error
			if f.IsMany() {
				err = o.Append(f.Name(), t)
			} else {
				err = o.Set(f.Name(), t)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Generator) value(f *metamodel.Feature) any {
	switch f.DataType().Default().(type) {
	case string:
		if f.IsID() {
			g.count++
			return fmt.Sprintf("%s-%d", g.names.Generate(), g.count)
		}
		return g.names.Generate()
	case int:
		return g.rnd.Intn(10000) - 5000
	case int64:
		return g.rnd.Int63()
	case float32:
		return g.rnd.Float32() * 100
	case float64:
		return g.rnd.NormFloat64() * 1000
	case bool:
		return g.rnd.Intn(2) == 1
	case time.Time:
		return time.Unix(g.rnd.Int63n(4102444800), int64(g.rnd.Intn(1000000000))).UTC()
	default:
		return f.DataType().Default()
	}
}
