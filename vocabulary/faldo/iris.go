// Package faldo provides IRIs for the Feature Annotation Location Description
// Ontology, used to attach sequence coordinates to path steps.
package faldo

// Namespace is the base IRI for FALDO terms.
const Namespace = "http://biohackathon.org/resource/faldo#"

// Prefix is the conventional prefix for Namespace.
const Prefix = "faldo"

// Class IRIs.
const (
	Position              = Namespace + "Position"
	ExactPosition         = Namespace + "ExactPosition"
	FuzzyPosition         = Namespace + "FuzzyPosition"
	InBetweenPosition     = Namespace + "InBetweenPosition"
	InRangePosition       = Namespace + "InRangePosition"
	OneOfPosition         = Namespace + "OneOfPosition"
	StrandedPosition      = Namespace + "StrandedPosition"
	ForwardStrandPosition = Namespace + "ForwardStrandPosition"
	ReverseStrandPosition = Namespace + "ReverseStrandPosition"
	BothStrandsPosition   = Namespace + "BothStrandsPosition"
	Region                = Namespace + "Region"
	CollectionOfRegions   = Namespace + "CollectionOfRegions"
	BagOfRegions          = Namespace + "BagOfRegions"
	ListOfRegions         = Namespace + "ListOfRegions"
)

// Property IRIs.
const (
	// Begin links a region to its first position.
	Begin = Namespace + "begin"

	// End links a region to its last position.
	End = Namespace + "end"

	// PositionProp holds the integer coordinate of an exact position.
	PositionProp = Namespace + "position"

	Reference        = Namespace + "reference"
	Location         = Namespace + "location"
	PossiblePosition = Namespace + "possiblePosition"
	After            = Namespace + "after"
	Before           = Namespace + "before"
)
