// Package vocab defines the RDF namespaces, predicates, and prefix blocks
// shared by the harvest and sync pipelines.
//
// Source-side constants cover the Fedora/LDP and EBUCore terms the crawler
// and transformer react to; target-side constants cover the CIDOC CRM /
// ResearchSpace ontology the transformed dataset is written in.
package vocab
