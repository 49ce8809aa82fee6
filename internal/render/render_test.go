package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdxgen/internal/docmodel"
	"git.home.luguber.info/inful/mdxgen/internal/frontmatter"
)

func TestRender_NotebookDocument(t *testing.T) {
	doc := &docmodel.Document{
		Kind:       docmodel.KindNotebook,
		Title:      "Intro",
		SourceLink: "https://colab.research.google.com/github/AgentOpt/Trace/blob/main/examples/basics/intro.ipynb",
		Body: []docmodel.Block{
			docmodel.Markdown{Text: "Some text."},
			docmodel.Code{Language: "python", Source: "print(1)", Output: docmodel.OutputText("1")},
		},
	}

	out, err := Render(doc, Options{})
	require.NoError(t, err)

	want := "---\n" +
		"title: Intro\n" +
		"description: Tutorial notebook - Intro\n" +
		"---\n" +
		"\n" +
		NoticeGenerated + "\n" +
		NoticeEditable + "\n" +
		"\n" +
		"<Callout type=\"tip\">\n" +
		"  [![Open In Colab](https://colab.research.google.com/assets/colab-badge.svg)](https://colab.research.google.com/github/AgentOpt/Trace/blob/main/examples/basics/intro.ipynb)\n" +
		"</Callout>\n" +
		"\n" +
		"Some text.\n" +
		"\n" +
		"```python\nprint(1)\n```\n" +
		"\n" +
		"<Callout type=\"info\" title=\"Output\">\n" +
		"\n" +
		"```\n1\n```\n" +
		"\n" +
		"</Callout>\n"
	assert.Equal(t, want, out)
}

func TestRender_NotebookWithoutSourceLinkHasNoBadge(t *testing.T) {
	out, err := Render(&docmodel.Document{Kind: docmodel.KindNotebook, Title: "Untitled"}, Options{})
	require.NoError(t, err)
	assert.NotContains(t, out, "Open In Colab")
	assert.True(t, strings.HasSuffix(out, NoticeEditable+"\n"))
}

func TestRender_ExplicitDescriptionAndExtraFields(t *testing.T) {
	doc := &docmodel.Document{
		Kind:        docmodel.KindModule,
		Title:       "trace.nodes",
		Description: "Custom",
		Fields:      map[string]any{"weight": 10},
		Body:        []docmodel.Block{docmodel.Heading{Level: 1, Text: "trace.nodes"}},
	}

	out, err := Render(doc, Options{})
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: trace.nodes\ndescription: Custom\nweight: 10\n---\n\n# trace.nodes\n", out)
}

func TestRender_Deterministic(t *testing.T) {
	doc := &docmodel.Document{
		Kind:   docmodel.KindModule,
		Title:  "m",
		Fields: map[string]any{"b": 1, "a": 2, "c": "x"},
		Body:   []docmodel.Block{docmodel.Markdown{Text: "body"}},
	}
	first, err := Render(doc, Options{Fingerprint: true})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Render(doc, Options{Fingerprint: true})
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestRender_Fingerprint(t *testing.T) {
	doc := &docmodel.Document{Kind: docmodel.KindModule, Title: "m", Body: []docmodel.Block{docmodel.Markdown{Text: "body"}}}

	out, err := Render(doc, Options{Fingerprint: true})
	require.NoError(t, err)

	fm, body, had, err := frontmatter.Split([]byte(out))
	require.NoError(t, err)
	require.True(t, had)
	var fields map[string]any
	require.NoError(t, yaml.Unmarshal(fm, &fields))

	want, err := frontmatter.Fingerprint(map[string]any{"title": "m", "description": "API reference for m"}, string(body), "title", "description")
	require.NoError(t, err)
	assert.Equal(t, want, fields[frontmatter.FingerprintField])
}

func TestBlock(t *testing.T) {
	tests := []struct {
		name  string
		block docmodel.Block
		want  string
	}{
		{"heading", docmodel.Heading{Level: 3, Text: "`Name`"}, "### `Name`"},
		{"markdown verbatim", docmodel.Markdown{Text: "  keep\n  spacing  "}, "  keep\n  spacing  "},
		{"code without output", docmodel.Code{Language: "python", Source: "x = 1"}, "```python\nx = 1\n```"},
		{
			name:  "unpadded callout",
			block: docmodel.Callout{Type: docmodel.CalloutWarn, Content: "careful"},
			want:  "<Callout type=\"warn\">\n  careful\n</Callout>",
		},
		{
			name:  "padded callout with title",
			block: docmodel.Callout{Type: docmodel.CalloutInfo, Title: "Note", Content: "text", Padded: true},
			want:  "<Callout type=\"info\" title=\"Note\">\n\ntext\n\n</Callout>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Block(tt.block))
		})
	}
}
