// Package ecore provides the bootstrap metamodel used to describe
// metamodels as instance graphs, and the conversion between package
// descriptors and such graphs.
package ecore

import (
	"fmt"
	"sync"

	"github.com/mandelsoft/logging"

	"github.com/mandelsoft/emodel/pkg/metamodel"
)

const (
	NS_URI    = "http://www.eclipse.org/emf/2002/Ecore"
	NS_PREFIX = "ecore"
)

const (
	ENAMED_ELEMENT       = "ENamedElement"
	EPACKAGE             = "EPackage"
	ECLASSIFIER          = "EClassifier"
	ECLASS               = "EClass"
	ESTRUCTURAL_FEATURE  = "EStructuralFeature"
	EATTRIBUTE           = "EAttribute"
	EREFERENCE           = "EReference"
	EDATATYPE_REF_PREFIX = "ecore:EDataType "
)

var REALM = logging.DefineRealm("ecore", "ecore metamodel conversion")
var log = logging.DynamicLogger(logging.DefaultContext(), REALM)

var ErrInvalidMetamodel = fmt.Errorf("invalid metamodel")

// Specification describes the subset of Ecore required to
// describe packages of classes with attributes and references.
var Specification = metamodel.PackageSpec("ecore", NS_URI, NS_PREFIX,
	metamodel.ClassSpec(ENAMED_ELEMENT,
		metamodel.Attr("name", metamodel.EString.Name()).AsID(),
	).AsAbstract(),
	metamodel.ClassSpec(EPACKAGE,
		metamodel.Attr("nsURI", metamodel.EString.Name()),
		metamodel.Attr("nsPrefix", metamodel.EString.Name()),
		metamodel.Ref("eClassifiers", ECLASSIFIER, true, metamodel.Many),
	).WithSuper(ENAMED_ELEMENT),
	metamodel.ClassSpec(ECLASSIFIER).WithSuper(ENAMED_ELEMENT).AsAbstract(),
	metamodel.ClassSpec(ECLASS,
		metamodel.Attr("abstract", metamodel.EBoolean.Name()),
		metamodel.Ref("eSuperTypes", ECLASS, false, metamodel.Many),
		metamodel.Ref("eStructuralFeatures", ESTRUCTURAL_FEATURE, true, metamodel.Many),
	).WithSuper(ECLASSIFIER),
	metamodel.ClassSpec(ESTRUCTURAL_FEATURE,
		metamodel.Attr("lowerBound", metamodel.EInt.Name()),
		metamodel.Attr("upperBound", metamodel.EInt.Name()),
	).WithSuper(ENAMED_ELEMENT).AsAbstract(),
	metamodel.ClassSpec(EATTRIBUTE,
		metamodel.Attr("eType", metamodel.EString.Name()),
		metamodel.Attr("iD", metamodel.EBoolean.Name()),
	).WithSuper(ESTRUCTURAL_FEATURE),
	metamodel.ClassSpec(EREFERENCE,
		metamodel.Ref("eType", ECLASS, false, metamodel.Single),
		metamodel.Attr("containment", metamodel.EBoolean.Name()),
	).WithSuper(ESTRUCTURAL_FEATURE),
)

var (
	once    sync.Once
	ecore   *metamodel.Package
	initErr error
)

// Package returns the bootstrap package. It is shared by
// all registries.
func Package() *metamodel.Package {
	once.Do(func() {
		ecore, initErr = metamodel.NewPackageFromSpec(Specification, metamodel.NewRegistry())
	})
	if initErr != nil {
		panic(fmt.Sprintf("invalid ecore specification: %s", initErr))
	}
	return ecore
}

// Register registers the bootstrap package.
func Register(reg *metamodel.Registry) error {
	_, err := reg.RegisterPackage(Package())
	return err
}

// NewRegistry provides a registry with the bootstrap package.
func NewRegistry() *metamodel.Registry {
	reg := metamodel.NewRegistry()
	if err := Register(reg); err != nil {
		panic(err)
	}
	return reg
}

// DataTypeRef is the Ecore notation of a data type reference.
func DataTypeRef(t metamodel.DataType) string {
	return EDATATYPE_REF_PREFIX + NS_URI + "#//" + t.Name()
}
