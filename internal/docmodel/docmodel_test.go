package docmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockKinds(t *testing.T) {
	cases := []struct {
		block Block
		want  BlockKind
	}{
		{Markdown{Text: "x"}, BlockMarkdown},
		{Code{Language: "python", Source: "x = 1"}, BlockCode},
		{Heading{Level: 2, Text: "Classes"}, BlockHeading},
		{Callout{Type: CalloutInfo, Title: "Output"}, BlockCallout},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.block.Kind())
	}
}

func TestAppendKeepsOrder(t *testing.T) {
	doc := &Document{Kind: KindNotebook, Title: "T"}
	doc.Append(Markdown{Text: "a"}, Code{Source: "b"})
	doc.Append(Heading{Level: 1, Text: "c"})

	assert.Len(t, doc.Body, 3)
	assert.Equal(t, Markdown{Text: "a"}, doc.Body[0])
	assert.Equal(t, Heading{Level: 1, Text: "c"}, doc.Body[2])
}

func TestOutputTextCopies(t *testing.T) {
	s := "hello"
	p := OutputText(s)
	s = "changed"
	assert.Equal(t, "hello", *p)
}
