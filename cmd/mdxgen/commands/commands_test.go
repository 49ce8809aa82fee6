package commands

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdxgen/internal/config"
	ferrors "git.home.luguber.info/inful/mdxgen/internal/foundation/errors"
)

const introNotebook = `{
 "cells": [
  {"cell_type": "markdown", "metadata": {}, "source": ["# Intro\n", "\n", "Welcome."]},
  {"cell_type": "code", "execution_count": 1, "metadata": {}, "outputs": [
    {"output_type": "stream", "name": "stdout", "text": ["3\n"]}
  ], "source": ["print(1 + 2)"]}
 ],
 "metadata": {},
 "nbformat": 4,
 "nbformat_minor": 5
}`

const utilModule = `"""Utility."""


def add(a, b):
    """Adds two numbers."""
    return a + b
`

func newParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()
	parser, err := kong.New(cli,
		kong.Name("mdxgen"),
		kong.Vars{"version": "test"},
		kong.Exit(func(code int) { t.Fatalf("unexpected exit %d", code) }),
	)
	require.NoError(t, err)
	return parser
}

// runCLI parses args and runs the selected command from a scratch working
// directory so no stray mdxgen.yaml is picked up.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	var cli CLI
	kctx, err := newParser(t, &cli).Parse(args)
	require.NoError(t, err)
	return kctx.Run(&Global{Logger: slog.Default()}, &cli)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func exitCode(err error) int {
	return ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err)
}

func TestParseFlags(t *testing.T) {
	var cli CLI
	parser := newParser(t, &cli)

	kctx, err := parser.Parse([]string{"-v", "--metrics-file", "m.prom", "notebooks", "--all", "--show-outputs", "--no-colab"})
	require.NoError(t, err)
	assert.Equal(t, "notebooks", kctx.Command())
	assert.True(t, cli.Verbose)
	assert.Equal(t, "m.prom", cli.MetricsFile)
	assert.Equal(t, config.DefaultPath, cli.Config)
	assert.True(t, cli.Notebooks.All)
	assert.True(t, cli.Notebooks.ShowOutputs)
	assert.True(t, cli.Notebooks.NoColab)

	cli = CLI{}
	_, err = parser.Parse([]string{"notebooks", "in.ipynb", "out.mdx"})
	require.NoError(t, err)
	assert.False(t, cli.Notebooks.All)
	assert.Equal(t, "in.ipynb", cli.Notebooks.Input)
	assert.Equal(t, "out.mdx", cli.Notebooks.Output)

	cli = CLI{}
	_, err = parser.Parse([]string{"apidocs", "-p", "trace", "-p", "utils", "--no-verify-links"})
	require.NoError(t, err)
	assert.Equal(t, []string{"trace", "utils"}, cli.APIDocs.Packages)
	assert.True(t, cli.APIDocs.NoVerifyLinks)

	cli = CLI{}
	_, err = parser.Parse([]string{"watch", "--every", "10m"})
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cli.Watch.Every)
	assert.Equal(t, 300*time.Millisecond, cli.Watch.Debounce)
}

func TestNotebooksApplyOverrides(t *testing.T) {
	cfg := config.Default()
	cmd := NotebooksCmd{ShowOutputs: true, ExamplesDir: "ex", OutputDir: "out", NoColab: true}
	cmd.apply(cfg)

	assert.Equal(t, "ex", cfg.Notebooks.ExamplesDir)
	assert.Equal(t, "out", cfg.Notebooks.OutputDir)
	assert.True(t, cfg.Notebooks.ShowOutputs)
	assert.False(t, cfg.Notebooks.Colab.Enabled)

	cfg = config.Default()
	(&NotebooksCmd{}).apply(cfg)
	assert.Equal(t, config.Default(), cfg)
}

func TestNotebooksSingleFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "intro.ipynb"), introNotebook)

	require.NoError(t, runCLI(t, "notebooks", "--show-outputs", "intro.ipynb", "out/intro.mdx"))

	data, err := os.ReadFile(filepath.Join(dir, "out", "intro.mdx"))
	require.NoError(t, err)
	page := string(data)
	assert.Contains(t, page, "title: Intro\n")
	assert.Contains(t, page, "```python\nprint(1 + 2)\n```")
	assert.Contains(t, page, `<Callout type="info" title="Output">`)
	assert.NotContains(t, page, "colab.research.google.com/github", "single-file mode has no Colab link")
}

func TestNotebooksSingleFileMissingInput(t *testing.T) {
	t.Chdir(t.TempDir())

	err := runCLI(t, "notebooks", "missing.ipynb", "out.mdx")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
	assert.Equal(t, 1, exitCode(err))
}

func TestNotebooksSingleFileMalformed(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "broken.ipynb"), "{not json")

	err := runCLI(t, "notebooks", "broken.ipynb", "out.mdx")
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode(err))
	assert.NoFileExists(t, filepath.Join(dir, "out.mdx"))
}

func TestNotebooksNothingToDo(t *testing.T) {
	t.Chdir(t.TempDir())

	err := runCLI(t, "notebooks")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))

	err = runCLI(t, "notebooks", "only-input.ipynb")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestNotebooksBatch(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "examples", "basics", "intro.ipynb"), introNotebook)
	writeFile(t, filepath.Join(dir, "examples", "top.ipynb"), introNotebook)
	writeFile(t, filepath.Join(dir, "examples", "basics", "broken.ipynb"), "{")

	err := runCLI(t, "--metrics-file", "metrics.prom",
		"notebooks", "--all", "--examples-dir", "examples", "--output-dir", "site")
	require.NoError(t, err, "per-file failures never fail the run")

	page, err := os.ReadFile(filepath.Join(dir, "site", "basics", "intro.mdx"))
	require.NoError(t, err)
	assert.Contains(t, string(page),
		"(https://colab.research.google.com/github/AgentOpt/Trace/blob/main/examples/basics/intro.ipynb)")
	assert.FileExists(t, filepath.Join(dir, "site", "general", "top.mdx"))
	assert.NoFileExists(t, filepath.Join(dir, "site", "basics", "broken.mdx"))

	prom, err := os.ReadFile(filepath.Join(dir, "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), `mdxgen_file_results_total{kind="notebook",result="generated"} 2`)
	assert.Contains(t, string(prom), `mdxgen_file_results_total{kind="notebook",result="failed"} 1`)
}

func TestNotebooksBatchMissingRoot(t *testing.T) {
	t.Chdir(t.TempDir())

	err := runCLI(t, "notebooks", "--all", "--no-colab", "--examples-dir", "nope")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
	assert.Equal(t, 1, exitCode(err))
}

func TestNotebooksConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "ex", "intro.ipynb"), introNotebook)
	writeFile(t, filepath.Join(dir, "custom.yaml"), `notebooks:
  examples_dir: ex
  output_dir: pages
  colab:
    enabled: false
output:
  extension: .md
`)

	require.NoError(t, runCLI(t, "-c", "custom.yaml", "notebooks", "--all"))
	assert.FileExists(t, filepath.Join(dir, "pages", "general", "intro.md"))
}

func TestExplicitConfigMustExist(t *testing.T) {
	t.Chdir(t.TempDir())

	err := runCLI(t, "-c", "absent.yaml", "notebooks", "--all")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestAPIDocs(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "src", "demo", "util.py"), utilModule)
	writeFile(t, filepath.Join(dir, "src", "demo", "__init__.py"), "")
	writeFile(t, filepath.Join(dir, "src", "demo", "empty.py"), "X = 1\n")

	require.NoError(t, runCLI(t, "apidocs", "--source-dir", "src", "--output-dir", "api", "-p", "demo", "-p", "absent"))

	page, err := os.ReadFile(filepath.Join(dir, "api", "demo", "util.mdx"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "### `add(a, b)`")
	assert.NotContains(t, string(page), "## Classes")

	index, err := os.ReadFile(filepath.Join(dir, "api", "demo", "index.mdx"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "- [util](./util.mdx)")
	assert.NoFileExists(t, filepath.Join(dir, "api", "demo", "empty.mdx"))
	assert.NoDirExists(t, filepath.Join(dir, "api", "absent"))
}

func TestAPIDocsMissingSource(t *testing.T) {
	t.Chdir(t.TempDir())

	err := runCLI(t, "apidocs", "--source-dir", "nowhere")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestWatchMissingRoot(t *testing.T) {
	t.Chdir(t.TempDir())

	err := runCLI(t, "watch", "--examples-dir", "nope")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, runCLI(t, "init"))
	cfg, err := config.Load(config.DefaultPath, true)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	err = runCLI(t, "init")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	require.NoError(t, runCLI(t, "init", "--force"))

	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o750))
	require.NoError(t, runCLI(t, "init", "-o", "sub"))
	assert.FileExists(t, filepath.Join(dir, "sub", config.DefaultPath))
}
