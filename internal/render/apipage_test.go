package render

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdxgen/internal/docmodel"
	"git.home.luguber.info/inful/mdxgen/internal/pysource"
)

func TestModuleName(t *testing.T) {
	assert.Equal(t, "nodes", ModuleName("nodes.py"))
	assert.Equal(t, "bundle.sub.mod", ModuleName("bundle/sub/mod.py"))
}

func TestModuleDocument_SingleFunction(t *testing.T) {
	r := pysource.NewReader()
	defer r.Close()
	mod, err := r.Parse(context.Background(), []byte("def add(a, b):\n    \"\"\"Adds.\"\"\"\n    return a + b\n"))
	require.NoError(t, err)

	out, err := Render(ModuleDocument("math_utils", mod), Options{})
	require.NoError(t, err)
	assert.Equal(t, "---\n"+
		"title: math_utils\n"+
		"description: API reference for math_utils\n"+
		"---\n"+
		"\n# math_utils\n"+
		"\n## Functions\n"+
		"\n### `add(a, b)`\n"+
		"\nAdds.\n", out)
}

func TestModuleDocument_ClassesAndPrivacy(t *testing.T) {
	mod := &pysource.ModuleDescription{
		Docstring: "Module doc.",
		Classes: []pysource.ClassDescription{
			{
				Name: "Engine",
				Methods: []pysource.MethodDescription{
					{Name: "_helper", Parameters: []string{"self"}, IsPrivate: true},
					{Name: "run", Parameters: []string{"self", "x"}, Docstring: "Runs."},
				},
			},
			{
				Name:    "OnlyPrivate",
				Methods: []pysource.MethodDescription{{Name: "_hidden", IsPrivate: true}},
			},
		},
	}

	out, err := Render(ModuleDocument("pkg.engine", mod), Options{})
	require.NoError(t, err)
	assert.Equal(t, "---\n"+
		"title: pkg.engine\n"+
		"description: API reference for pkg.engine\n"+
		"---\n"+
		"\n# pkg.engine\n"+
		"\nModule doc.\n"+
		"\n## Classes\n"+
		"\n### `Engine`\n"+
		"\n"+NoDocumentation+"\n"+
		"\n#### Methods\n"+
		"\n##### `run(self, x)`\n"+
		"\nRuns.\n"+
		"\n### `OnlyPrivate`\n"+
		"\n"+NoDocumentation+"\n", out)
	assert.NotContains(t, out, "_helper")
	assert.NotContains(t, out, "## Functions")
}

func TestModuleDocument_PrivateClassExcludedByReader(t *testing.T) {
	r := pysource.NewReader()
	defer r.Close()
	mod, err := r.Parse(context.Background(), []byte("class _Hidden:\n    def run(self):\n        pass\n\ndef f():\n    pass\n"))
	require.NoError(t, err)

	doc := ModuleDocument("m", mod)
	for _, b := range doc.Body {
		if h, ok := b.(docmodel.Heading); ok {
			assert.NotEqual(t, "Classes", h.Text)
		}
	}
}

func TestIndexDocument(t *testing.T) {
	doc := IndexDocument("trace", []string{"nodes.mdx", "bundle/sub.mdx"}, ".mdx")

	out, err := Render(doc, Options{})
	require.NoError(t, err)
	assert.Equal(t, "---\n"+
		"title: Trace\n"+
		"description: API reference for trace\n"+
		"---\n"+
		"\n# Trace API Reference\n"+
		"\nThis section contains the API reference for the `trace` module.\n"+
		"\n## Modules\n"+
		"\n- [nodes](./nodes.mdx)\n- [bundle/sub](./bundle/sub.mdx)\n", out)
}
