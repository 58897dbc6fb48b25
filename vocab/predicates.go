package vocab

// Predicates the harvester reacts to while crawling a Fedora tree.
const (
	// LDPContains links a container resource to its children. Crawling
	// follows these links; there is no separate listing call.
	LDPContains = LDPNamespace + "contains"

	// EBUCoreFilename holds the original filename of a binary resource.
	// An empty object triggers synthetic filename derivation.
	EBUCoreFilename = EBUCoreNamespace + "filename"

	// EBUCoreHasMimeType holds the detected MIME type of a binary resource.
	EBUCoreHasMimeType = EBUCoreNamespace + "hasMimeType"
)

// Target predicates emitted by the synthetic-filename rule.
const (
	// HasFileName binds the flattened media filename in the target ontology.
	HasFileName = "ex:PX_has_file_name"

	// RDFSLabel binds the human-readable simple filename.
	RDFSLabel = "rdfs:label"
)

// MetadataSuffix is the Fedora sidecar endpoint appended to binary
// (NonRDFSource) resource URIs to reach their RDF description.
const MetadataSuffix = "/fcr:metadata"
