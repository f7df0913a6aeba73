// Package xsd provides XML Schema datatype IRIs for RDF literals.
package xsd

// Namespace is the XML Schema datatype namespace.
const Namespace = "http://www.w3.org/2001/XMLSchema#"

// Prefix is the conventional prefix for Namespace.
const Prefix = "xsd"

const (
	String  = Namespace + "string"
	Boolean = Namespace + "boolean"
	Decimal = Namespace + "decimal"
	Double  = Namespace + "double"
	Float   = Namespace + "float"

	Integer            = Namespace + "integer"
	Long               = Namespace + "long"
	Int                = Namespace + "int"
	Short              = Namespace + "short"
	Byte               = Namespace + "byte"
	NonNegativeInteger = Namespace + "nonNegativeInteger"
	PositiveInteger    = Namespace + "positiveInteger"
	NonPositiveInteger = Namespace + "nonPositiveInteger"
	NegativeInteger    = Namespace + "negativeInteger"
	UnsignedLong       = Namespace + "unsignedLong"
	UnsignedInt        = Namespace + "unsignedInt"
	UnsignedShort      = Namespace + "unsignedShort"
	UnsignedByte       = Namespace + "unsignedByte"
)

// IsInteger reports whether datatype is xsd:integer or one of its derived types.
func IsInteger(datatype string) bool {
	switch datatype {
	case Integer, Long, Int, Short, Byte,
		NonNegativeInteger, PositiveInteger, NonPositiveInteger, NegativeInteger,
		UnsignedLong, UnsignedInt, UnsignedShort, UnsignedByte:
		return true
	}
	return false
}

// IsNumeric reports whether datatype is one of the XSD numeric types.
func IsNumeric(datatype string) bool {
	switch datatype {
	case Decimal, Double, Float:
		return true
	}
	return IsInteger(datatype)
}
