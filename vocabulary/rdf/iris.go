// Package rdf provides the RDF core vocabulary IRIs used by the transcoder.
package rdf

// Namespace is the RDF syntax namespace.
const Namespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// Prefix is the conventional prefix for Namespace.
const Prefix = "rdf"

const (
	// Type is rdf:type, written as the "a" keyword in Turtle.
	Type = Namespace + "type"

	// Value is rdf:value.
	Value = Namespace + "value"

	// LangString is the datatype of language-tagged strings.
	LangString = Namespace + "langString"
)
