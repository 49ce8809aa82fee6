package pysource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringLiteralValue(t *testing.T) {
	tests := []struct {
		literal string
		want    string
		ok      bool
	}{
		{`"plain"`, "plain", true},
		{`'single'`, "single", true},
		{`"""triple"""`, "triple", true},
		{`'''triple single'''`, "triple single", true},
		{`r"raw \n kept"`, `raw \n kept`, true},
		{`u"unicode prefix"`, "unicode prefix", true},
		{`"tab\there"`, "tab\there", true},
		{`"\x41é\N"`, "Aé\\N", true},
		{`"\101"`, "A", true},
		{`b"bytes"`, "", false},
		{`f"format {x}"`, "", false},
		{`Rb"raw bytes"`, "", false},
		{`"unterminated`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			got, ok := stringLiteralValue(tt.literal)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCleanDocstring(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single line", "  Summary.  ", "Summary.  "},
		{
			name: "common indentation removed",
			in:   "Summary.\n\n    Args:\n        x: value\n    ",
			want: "Summary.\n\nArgs:\n    x: value",
		},
		{
			name: "leading blank lines dropped",
			in:   "\n    First line.\n    Second line.\n",
			want: "First line.\nSecond line.",
		},
		{
			name: "tabs expanded",
			in:   "Summary.\n\tIndented.",
			want: "Summary.\nIndented.",
		},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanDocstring(tt.in))
		})
	}
}
