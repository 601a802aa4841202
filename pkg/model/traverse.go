package model

import (
	"iter"
)

// DepthFirst lazily yields root and all objects it (transitively)
// contains in pre-order: an object is followed by its children in
// feature declaration order and list order.
func DepthFirst(root *Object) iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		walk(root, yield)
	}
}

func walk(o *Object, yield func(*Object) bool) bool {
	if !yield(o) {
		return false
	}
	for _, c := range o.Contents() {
		if !walk(c, yield) {
			return false
		}
	}
	return true
}
