package encoding

import (
	"fmt"
	"strings"

	"github.com/mandelsoft/emodel/pkg/model"
)

// PrepareIDs assigns identifiers to all objects of the resource
// if requested by the options.
func PrepareIDs(res *model.Resource, opts Options) {
	if !opts.UseIDs {
		return
	}
	for o := range res.AllContents() {
		o.EnsureID()
	}
}

// Pointer renders a cross reference to an object of the same resource.
func Pointer(res *model.Resource, target *model.Object, opts Options) (string, error) {
	if !res.Contains(target) {
		return "", fmt.Errorf("%w: %s is not part of resource %q", ErrDanglingReference, target, res.URI())
	}
	if opts.UseIDs && target.ID() != "" {
		return target.ID(), nil
	}
	frag, err := res.URIFragment(target)
	if err != nil {
		return "", err
	}
	return "#" + frag, nil
}

// Pointers renders the targets of a reference as a white space
// separated list.
func Pointers(res *model.Resource, targets []*model.Object, opts Options) (string, error) {
	list := make([]string, len(targets))
	for i, t := range targets {
		p, err := Pointer(res, t, opts)
		if err != nil {
			return "", err
		}
		list[i] = p
	}
	return strings.Join(list, " "), nil
}
