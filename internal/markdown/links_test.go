package markdown

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractLinks_InlineLink(t *testing.T) {
	links := ExtractLinks([]byte("See [API](api.mdx) for details."))
	require.Len(t, links, 1)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "api.mdx", links[0].Destination)
}

func TestExtractLinks_ImageLink(t *testing.T) {
	links := ExtractLinks([]byte("![Diagram](/images/diagram.png)"))
	require.Len(t, links, 1)
	require.Equal(t, LinkKindImage, links[0].Kind)
	require.Equal(t, "/images/diagram.png", links[0].Destination)
}

func TestExtractLinks_AutoLink(t *testing.T) {
	links := ExtractLinks([]byte("<https://example.com/path>"))
	require.Len(t, links, 1)
	require.Equal(t, LinkKindAuto, links[0].Kind)
	require.Equal(t, "https://example.com/path", links[0].Destination)
}

func TestExtractLinks_ReferenceDefinition(t *testing.T) {
	links := ExtractLinks([]byte("See [API][ref].\n\n[ref]: api.mdx\n"))
	require.Len(t, links, 2)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, LinkKindReferenceDefinition, links[1].Kind)
	require.Equal(t, "api.mdx", links[1].Destination)
}

func TestExtractLinks_IndexList(t *testing.T) {
	body := "\n## Modules\n\n- [nodes](./nodes.mdx)\n- [bundle/sub](./bundle/sub.mdx)\n"
	links := ExtractLinks([]byte(body))
	require.Len(t, links, 2)
	require.Equal(t, "./nodes.mdx", links[0].Destination)
	require.Equal(t, "./bundle/sub.mdx", links[1].Destination)
}

func TestVerifyLocalLinks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nodes.mdx"), []byte("x"), 0o600))

	page := filepath.Join(dir, "index.mdx")
	content := "---\ntitle: Trace\n---\n\n" +
		"- [nodes](./nodes.mdx)\n" +
		"- [missing](./missing.mdx)\n" +
		"- [site](/docs/other)\n" +
		"- [external](https://example.com/x.mdx)\n" +
		"- [anchor](#top)\n"
	require.NoError(t, os.WriteFile(page, []byte(content), 0o600))

	broken, err := VerifyLocalLinks(page)
	require.NoError(t, err)
	require.Len(t, broken, 1)
	require.Equal(t, "./missing.mdx", broken[0].Link.Destination)
	require.Equal(t, filepath.Join(dir, "missing.mdx"), broken[0].Target)
}

func TestVerifyLocalLinks_MissingPage(t *testing.T) {
	_, err := VerifyLocalLinks(filepath.Join(t.TempDir(), "absent.mdx"))
	require.Error(t, err)
}
