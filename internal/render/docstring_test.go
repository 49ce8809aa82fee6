package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDocstring(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", NoDocumentation},
		{"whitespace only", "  \n ", NoDocumentation},
		{"plain", "Adds two numbers.", "Adds two numbers."},
		{
			name: "section markers bolded",
			in:   "Adds.\n\nArgs:\n    a: first\nReturns:\n    sum",
			want: "Adds.\n\n\n**Args:**\n\n    a: first\n\n**Returns:**\n\n    sum",
		},
		{"indented marker matched on trimmed line", "  Raises:  ", "\n**Raises:**\n"},
		{"case sensitive", "args:", "args:"},
		{"colon required", "Returns", "Returns"},
		{"marker with trailing text passes", "Note: be careful", "Note: be careful"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDocstring(tt.in))
		})
	}
}
