package encoding

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/mandelsoft/emodel/pkg/metamodel"
	"github.com/mandelsoft/emodel/pkg/model"
)

type Namespace struct {
	Prefix string
	URI    string
}

// Namespaces assigns unique prefixes to packages in the order
// of their first use.
type Namespaces struct {
	list   []Namespace
	byURI  map[string]string
	prefix sets.Set[string]
}

// NewNamespaces creates an empty prefix assignment. Reserved
// prefixes are never assigned to packages.
func NewNamespaces(reserved ...string) *Namespaces {
	return &Namespaces{
		byURI:  map[string]string{},
		prefix: sets.New[string](reserved...),
	}
}

// CollectNamespaces assigns prefixes to all packages used by the
// objects of a resource.
func CollectNamespaces(res *model.Resource, reserved ...string) *Namespaces {
	n := NewNamespaces(reserved...)
	for o := range res.AllContents() {
		n.Prefix(o.Class().Package())
	}
	return n
}

func (n *Namespaces) Prefix(p *metamodel.Package) string {
	if pre, ok := n.byURI[p.URI()]; ok {
		return pre
	}
	base := p.Prefix()
	if base == "" {
		base = p.Name()
	}
	if !metamodel.IsNCName(base) || strings.HasPrefix(strings.ToLower(base), "xml") {
		base = "ns"
	}
	pre := base
	for i := 1; n.prefix.Has(pre); i++ {
		pre = fmt.Sprintf("%s%d", base, i)
	}
	n.prefix.Insert(pre)
	n.byURI[p.URI()] = pre
	n.list = append(n.list, Namespace{Prefix: pre, URI: p.URI()})
	return pre
}

// QName returns the prefixed class name.
func (n *Namespaces) QName(c *metamodel.Class) string {
	return n.Prefix(c.Package()) + ":" + c.Name()
}

func (n *Namespaces) List() []Namespace {
	return append([]Namespace(nil), n.list...)
}
