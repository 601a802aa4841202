package metamodel

import (
	"slices"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// containmentPath checks whether instances of target may (transitively)
// contain an instance of owner. Because an instance of a subclass may be
// used wherever its superclass is expected, a class on the way conflicts
// with owner if either one is a kind of the other, and the features of
// all known subclasses of a class on the way are followed, too.
// It returns the offending class path starting at target, or nil.
func containmentPath(owner, target *Class) []*Class {
	visited := sets.New[*Class]()

	var walk func(c *Class, path []*Class) []*Class
	walk = func(c *Class, path []*Class) []*Class {
		path = append(path, c)
		if owner.IsA(c) || c.IsA(owner) {
			return path
		}
		if visited.Has(c) {
			return nil
		}
		visited.Insert(c)
		for _, s := range c.pkg.classes {
			if !s.IsA(c) {
				continue
			}
			spath := path
			if s != c {
				spath = append(slices.Clip(path), s)
			}
			for _, f := range s.AllFeatures() {
				if f.containment {
					if r := walk(f.target, spath); r != nil {
						return r
					}
				}
			}
		}
		return nil
	}
	return walk(target, nil)
}

func describePath(f *Feature, path []*Class) string {
	names := []string{f.String()}
	for _, c := range path {
		names = append(names, c.name)
	}
	return strings.Join(names, " -> ")
}
