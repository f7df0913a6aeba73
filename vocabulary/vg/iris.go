package vg

// Namespace is the base IRI for all variation graph terms.
const Namespace = "http://biohackathon.org/resource/vg#"

// Prefix is the conventional prefix for Namespace.
const Prefix = "vg"

// Class IRIs.
const (
	// Node is a node in the variation graph, representing a sequence section.
	Node = Namespace + "Node"

	// Path is an assembled sequence threaded through the graph as ranked steps.
	Path = Namespace + "Path"

	// Step is one element of a path. It points to a node (or its reverse
	// complement) and carries a rank.
	Step = Namespace + "Step"
)

// Property IRIs.
const (
	// Rank records the place of a step along its path.
	Rank = Namespace + "rank"

	// Position is the position on the reference path at which a step starts.
	Position = Namespace + "position"

	// PathProp links a step to the path it occurs on.
	PathProp = Namespace + "path"

	// NodeProp links a step to the forward strand of a node.
	NodeProp = Namespace + "node"

	// ReverseOfNode links a step to the reverse strand of a node.
	ReverseOfNode = Namespace + "reverseOfNode"

	// Links says two nodes are adjacent without saying which sides touch.
	// It is the super property of the four directed link predicates.
	Links = Namespace + "links"

	// LinksForwardToForward links the forward strand of the subject to the
	// forward strand of the object.
	LinksForwardToForward = Namespace + "linksForwardToForward"

	// LinksForwardToReverse links the forward strand of the subject to the
	// reverse strand of the object.
	LinksForwardToReverse = Namespace + "linksForwardToReverse"

	// LinksReverseToForward links the reverse strand of the subject to the
	// forward strand of the object.
	LinksReverseToForward = Namespace + "linksReverseToForward"

	// LinksReverseToReverse links the reverse strand of the subject to the
	// reverse strand of the object.
	LinksReverseToReverse = Namespace + "linksReverseToReverse"
)
