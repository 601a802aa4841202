package metamodel

import (
	"fmt"
	"io"
	"strings"
)

func (p *Package) Dump(w io.Writer) {
	fmt.Fprintf(w, "Package: %s\n", p.name)
	fmt.Fprintf(w, "  namespace: %s\n", p.uri)
	fmt.Fprintf(w, "  prefix:    %s\n", p.prefix)
	fmt.Fprintf(w, "Classes:\n")
	for _, c := range p.classes {
		fmt.Fprintf(w, "- %s\n", c.name)
		if c.abstract {
			fmt.Fprintf(w, "  abstract: true\n")
		}
		if c.super != nil {
			fmt.Fprintf(w, "  extends: %s\n", p.classRef(c.super))
		}
		dumpFeatures(w, "attributes", c, Attribute)
		dumpFeatures(w, "references", c, Reference)
	}
}

func dumpFeatures(w io.Writer, title string, c *Class, kind FeatureKind) {
	var lines []string
	for _, f := range c.features {
		if f.kind != kind {
			continue
		}
		var flags []string
		if f.containment {
			flags = append(flags, "containment")
		}
		if f.many {
			flags = append(flags, "many")
		}
		if f.id {
			flags = append(flags, "id")
		}
		line := fmt.Sprintf("  - %s: %s", f.name, f.typeName())
		if len(flags) > 0 {
			line += " [" + strings.Join(flags, ", ") + "]"
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", title)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
