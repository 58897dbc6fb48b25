package vocab

// PrefixBlock is the prefix preamble emitted at the top of every generated
// SPARQL insert file. The dataset triples reference these prefixes.
const PrefixBlock = `PREFIX crm: <` + CRMNamespace + `>
PREFIX dig: <` + CRMDigNamespace + `>
PREFIX rdf: <` + RDFNamespace + `>
PREFIX rdfs: <` + RDFSNamespace + `>
PREFIX skos: <` + SKOSNamespace + `>
PREFIX ex:  <` + ResearchSpaceNamespace + `>
PREFIX prov: <` + PROVNamespace + `>
PREFIX ldp: <` + LDPNamespace + `>
`
