package omeka

// Property IDs of the Dublin Core terms vocabulary as installed by Omeka S
// core. Value payloads must carry the numeric ID alongside the term.
const IdentifierPropertyID = 10

var propertyIDs = map[string]int{
	"dcterms:title":       1,
	"dcterms:creator":     2,
	"dcterms:subject":     3,
	"dcterms:description": 4,
	"dcterms:publisher":   5,
	"dcterms:contributor": 6,
	"dcterms:date":        7,
	"dcterms:type":        8,
	"dcterms:format":      9,
	"dcterms:identifier":  10,
	"dcterms:source":      11,
	"dcterms:language":    12,
	"dcterms:relation":    13,
	"dcterms:coverage":    14,
	"dcterms:rights":      15,
}

// PropertyID resolves a dcterms term to its Omeka property ID.
func PropertyID(term string) (int, bool) {
	id, ok := propertyIDs[term]
	return id, ok
}
