package vocab

// Source-repository namespaces encountered when harvesting Fedora RDF.
const (
	// LDPNamespace is the W3C Linked Data Platform namespace.
	LDPNamespace = "http://www.w3.org/ns/ldp#"

	// EBUCoreNamespace is the EBU Core metadata ontology namespace.
	EBUCoreNamespace = "http://www.ebu.ch/metadata/ontologies/ebucore/ebucore#"

	// FedoraNamespace is the Fedora repository ontology namespace.
	FedoraNamespace = "http://fedora.info/definitions/v4/repository#"
)

// Target ontology namespaces used by the transformed dataset.
const (
	// CRMNamespace is the CIDOC Conceptual Reference Model namespace.
	CRMNamespace = "http://www.cidoc-crm.org/cidoc-crm/"

	// CRMDigNamespace is the CRMdig extension for digital provenance.
	CRMDigNamespace = "http://www.cidoc-crm.org/cidoc-crm-dig/"

	// ResearchSpaceNamespace is the ResearchSpace platform ontology namespace.
	ResearchSpaceNamespace = "http://www.researchspace.org/ontology/"

	// RDFNamespace is the RDF syntax namespace.
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	// RDFSNamespace is the RDF Schema namespace.
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"

	// SKOSNamespace is the SKOS core namespace.
	SKOSNamespace = "http://www.w3.org/2004/02/skos/core#"

	// PROVNamespace is the W3C provenance ontology namespace.
	PROVNamespace = "http://www.w3.org/ns/prov#"

	// XSDNamespace is the XML Schema datatype namespace.
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"
)
