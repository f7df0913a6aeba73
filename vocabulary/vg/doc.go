// Package vg provides IRIs for the variation graph vocabulary.
//
// A variation graph is a set of nodes carrying sequence, links between node
// strands, and paths made of ranked steps over those nodes. The terms here
// are the minimal subset needed to describe a GFA1 graph in RDF:
//
//	node:1 a vg:Node ; rdf:value "CAAATAAG" .
//	node:1 vg:linksForwardToForward node:2 .
//	pathstepx:0 vg:path pathx: ; vg:rank 0 ; vg:node node:1 .
//
// See http://biohackathon.org/resource/vg for the OWL description.
package vg
