package rules

import "strings"

// Placeholder enumerates the bindable slots of a target pattern.
type Placeholder int

const (
	// PlaceholderSubject binds the canonical serialization of the source
	// triple's subject (written ?s in the catalogue).
	PlaceholderSubject Placeholder = iota

	// PlaceholderObject binds the canonical serialization of the source
	// triple's object (written ?o in the catalogue).
	PlaceholderObject
)

// segment is one parsed piece of a template: either literal text or a
// placeholder reference.
type segment struct {
	text        string
	placeholder Placeholder
	isRef       bool
}

// Template is a target pattern parsed into typed segments. Parsing up front
// keeps expansion a single walk and rules out accidental substring
// collisions if the placeholder set ever grows.
type Template struct {
	raw      string
	segments []segment
}

// ParseTemplate splits a raw target pattern on its ?s/?o placeholders.
// A '?' not followed by a known placeholder letter stays literal text.
func ParseTemplate(raw string) Template {
	t := Template{raw: raw}
	var lit strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '?' && i+1 < len(raw) && (raw[i+1] == 's' || raw[i+1] == 'o') {
			if lit.Len() > 0 {
				t.segments = append(t.segments, segment{text: lit.String()})
				lit.Reset()
			}
			ph := PlaceholderSubject
			if raw[i+1] == 'o' {
				ph = PlaceholderObject
			}
			t.segments = append(t.segments, segment{placeholder: ph, isRef: true})
			i++
			continue
		}
		lit.WriteByte(raw[i])
	}
	if lit.Len() > 0 {
		t.segments = append(t.segments, segment{text: lit.String()})
	}
	return t
}

// Raw returns the original pattern text.
func (t Template) Raw() string {
	return t.raw
}

// Expand renders the template with the given canonical term serializations
// and trims trailing whitespace.
func (t Template) Expand(subject, object string) string {
	var sb strings.Builder
	for _, seg := range t.segments {
		if !seg.isRef {
			sb.WriteString(seg.text)
			continue
		}
		switch seg.placeholder {
		case PlaceholderSubject:
			sb.WriteString(subject)
		case PlaceholderObject:
			sb.WriteString(object)
		}
	}
	return strings.TrimRight(sb.String(), " \t\r\n")
}
