// Package hclschema reads metamodel definitions written in HCL.
//
//	package "library" {
//	  uri    = "http://example.org/library"
//	  prefix = "lib"
//
//	  class "Book" {
//	    attribute "title" {
//	      type = "EString"
//	      id   = true
//	    }
//	  }
//
//	  class "Author" {
//	    attribute "name" {
//	      type = "EString"
//	    }
//	    reference "books" {
//	      target      = "Book"
//	      containment = true
//	      many        = true
//	    }
//	  }
//	}
//
// Within a class all attributes precede the references.
package hclschema

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/mandelsoft/emodel/pkg/metamodel"
)

const EXTENSION = ".hcl"

type hclFile struct {
	Package hclPackage `hcl:"package,block"`
}

type hclPackage struct {
	Name    string     `hcl:"name,label"`
	URI     string     `hcl:"uri"`
	Prefix  string     `hcl:"prefix,optional"`
	Classes []hclClass `hcl:"class,block"`
}

type hclClass struct {
	Name       string         `hcl:"name,label"`
	Extends    string         `hcl:"extends,optional"`
	Abstract   bool           `hcl:"abstract,optional"`
	Attributes []hclAttribute `hcl:"attribute,block"`
	References []hclReference `hcl:"reference,block"`
}

type hclAttribute struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
	Many bool   `hcl:"many,optional"`
	ID   bool   `hcl:"id,optional"`
}

type hclReference struct {
	Name        string `hcl:"name,label"`
	Target      string `hcl:"target"`
	Containment bool   `hcl:"containment,optional"`
	Many        bool   `hcl:"many,optional"`
}

// Decode parses an HCL schema into a package specification.
func Decode(src []byte, filename string) (metamodel.PackageSpecification, error) {
	var spec metamodel.PackageSpecification

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return spec, fmt.Errorf("failed to parse schema %s: %w", filename, diags)
	}

	var parsed hclFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return spec, fmt.Errorf("failed to decode schema %s: %w", filename, diags)
	}

	p := parsed.Package
	spec = metamodel.PackageSpecification{
		Name:   p.Name,
		URI:    p.URI,
		Prefix: p.Prefix,
	}
	for _, c := range p.Classes {
		cs := metamodel.ClassSpecification{
			Name:     c.Name,
			Super:    c.Extends,
			Abstract: c.Abstract,
		}
		for _, a := range c.Attributes {
			cs.Features = append(cs.Features, metamodel.FeatureSpecification{
				Name: a.Name,
				Kind: metamodel.Attribute,
				Type: a.Type,
				Many: a.Many,
				ID:   a.ID,
			})
		}
		for _, r := range c.References {
			cs.Features = append(cs.Features, metamodel.FeatureSpecification{
				Name:        r.Name,
				Kind:        metamodel.Reference,
				Target:      r.Target,
				Containment: r.Containment,
				Many:        r.Many,
			})
		}
		spec.Classes = append(spec.Classes, cs)
	}
	return spec, nil
}

// Load decodes an HCL schema and compiles it into an unregistered
// package.
func Load(reg *metamodel.Registry, src []byte, filename string) (*metamodel.Package, error) {
	spec, err := Decode(src, filename)
	if err != nil {
		return nil, err
	}
	p, err := metamodel.NewPackageFromSpec(spec, reg)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", filename, err)
	}
	return p, nil
}
