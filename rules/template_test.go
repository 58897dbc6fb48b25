package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplate_Expand(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		subject string
		object  string
		want    string
	}{
		{
			name:    "subject and object",
			raw:     "?s crm:P1_is_identified_by ?o .",
			subject: "<http://example.org/a>",
			object:  `"label"`,
			want:    `<http://example.org/a> crm:P1_is_identified_by "label" .`,
		},
		{
			name:    "subject only",
			raw:     "?s a crm:E22_Man-Made_Object .",
			subject: "<http://example.org/a>",
			object:  `"ignored"`,
			want:    "<http://example.org/a> a crm:E22_Man-Made_Object .",
		},
		{
			name:    "repeated placeholders",
			raw:     "?s ex:self ?s .",
			subject: "<http://example.org/a>",
			want:    "<http://example.org/a> ex:self <http://example.org/a> .",
		},
		{
			name:    "trailing whitespace trimmed",
			raw:     "?s ex:p ?o .   \n",
			subject: "<s>",
			object:  "<o>",
			want:    "<s> ex:p <o> .",
		},
		{
			name:    "multi-line expansion",
			raw:     "?s ex:p [\n  a ex:Node ;\n  ex:value ?o\n] .",
			subject: "<s>",
			object:  `"v"`,
			want:    "<s> ex:p [\n  a ex:Node ;\n  ex:value \"v\"\n] .",
		},
		{
			name:    "question mark without placeholder stays literal",
			raw:     "?s ex:query \"?x\" .",
			subject: "<s>",
			want:    "<s> ex:query \"?x\" .",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := ParseTemplate(tt.raw)
			assert.Equal(t, tt.want, tmpl.Expand(tt.subject, tt.object))
			assert.Equal(t, tt.raw, tmpl.Raw())
		})
	}
}
