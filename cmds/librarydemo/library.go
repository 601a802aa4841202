package main

import (
	"strings"

	"github.com/mandelsoft/emodel/pkg/metamodel"
)

const (
	LIBRARY_URI    = "http://example.org/library"
	LIBRARY_PREFIX = "lib"
)

// newLibraryPackage defines the library metamodel.
func newLibraryPackage() (*metamodel.Package, error) {
	p := metamodel.NewPackage("library", LIBRARY_URI, LIBRARY_PREFIX)

	book, err := p.NewClass("Book")
	if err != nil {
		return nil, err
	}
	author, err := p.NewClass("Author")
	if err != nil {
		return nil, err
	}
	if _, err := book.DefineAttribute("title", metamodel.EString, metamodel.Single); err != nil {
		return nil, err
	}
	if _, err := author.DefineAttribute("name", metamodel.EString, metamodel.Single); err != nil {
		return nil, err
	}
	if _, err := author.DefineReference("books", book, true, metamodel.Many); err != nil {
		return nil, err
	}
	return p, nil
}

// libraryEcore is the library metamodel as written by an editor
// which split the EReference type tag.
const libraryEcore = `<?xml version='1.0' encoding='UTF-8'?>
<ecore:EPackage xmlns:xmi="http://www.omg.org/XMI" xmlns:ecore="http://www.eclipse.org/emf/2002/Ecore" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" name="library" nsURI="http://example.org/library" nsPrefix="lib" xmi:version="2.0">
  <eClassifiers xsi:type="ecore:EClass" name="Book">
    <eStructuralFeatures xsi:type="ecore:EAttribute" name="title" eType="ecore:EDataType http://www.eclipse.org/emf/2002/Ecore#//EString"/>
  </eClassifiers>
  <eClassifiers xsi:type="ecore:EClass" name="Author">
    <eStructuralFeatures xsi:type="ecore:EAttribute" name="name" eType="ecore:EDataType http://www.eclipse.org/emf/2002/Ecore#//EString"/>
    <eStructuralFeatures xsi:type="ecore:ERefere
nce" name="books" eType="#//Book" upperBound="-1" containment="true"/>
  </eClassifiers>
</ecore:EPackage>
`

func repairedLibraryEcore() string {
	return strings.ReplaceAll(libraryEcore, "ecore:ERefere\nnce", "ecore:EReference")
}
