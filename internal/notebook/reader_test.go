package notebook

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/mdxgen/internal/foundation/errors"
)

const sampleNotebook = `{
  "cells": [
    {"cell_type": "markdown", "metadata": {}, "source": ["# Getting Started\n", "\n", "Intro text."]},
    {"cell_type": "code", "execution_count": 1, "metadata": {}, "source": "print('hi')\n",
     "outputs": [
       {"output_type": "stream", "name": "stdout", "text": ["hi\n"]},
       {"output_type": "execute_result", "data": {"text/plain": ["42"], "image/png": "iVBORw0K", "application/json": {"a": 1}}, "metadata": {}},
       {"output_type": "error", "ename": "ValueError", "evalue": "bad value", "traceback": []}
     ]},
    {"cell_type": "raw", "metadata": {}, "source": "ignored"}
  ],
  "metadata": {},
  "nbformat": 4,
  "nbformat_minor": 5
}`

func TestParse_DecodesCellsAndOutputs(t *testing.T) {
	nb, err := Parse([]byte(sampleNotebook))
	require.NoError(t, err)
	require.Len(t, nb.Cells, 3)

	assert.Equal(t, CellMarkdown, nb.Cells[0].Kind)
	assert.Equal(t, "# Getting Started\n\nIntro text.", nb.Cells[0].Source.String())

	code := nb.Cells[1]
	assert.Equal(t, CellCode, code.Kind)
	assert.Equal(t, "print('hi')\n", code.Source.String())
	require.Len(t, code.Outputs, 3)
	assert.Equal(t, Output{Kind: OutputStream, Text: "hi\n", HasText: true}, code.Outputs[0])
	assert.Equal(t, Output{Kind: OutputResult, Text: "42", HasText: true}, code.Outputs[1])
	assert.Equal(t, Output{Kind: OutputError, ErrorName: "ValueError", ErrorValue: "bad value"}, code.Outputs[2])

	assert.Equal(t, CellUnknown, nb.Cells[2].Kind)
}

func TestParse_ErrorWithoutNameDefaultsToUnknown(t *testing.T) {
	nb, err := Parse([]byte(`{"cells":[{"cell_type":"code","source":"x","outputs":[{"output_type":"error","evalue":"v"}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Unknown", nb.Cells[0].Outputs[0].ErrorName)
}

func TestParse_MissingCellsYieldsEmptyNotebook(t *testing.T) {
	nb, err := Parse([]byte(`{"metadata": {}}`))
	require.NoError(t, err)
	assert.Empty(t, nb.Cells)
}

func TestParse_InvalidJSONIsMalformedInput(t *testing.T) {
	_, err := Parse([]byte(`{"cells": [`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidNotebook))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestParse_InvalidUTF8IsMalformedInput(t *testing.T) {
	_, err := Parse([]byte{'{', 0xff, 0xfe, '}'})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidNotebook))
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFile(filepath.Join(dir, "missing.ipynb"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))

	bad := filepath.Join(dir, "bad.ipynb")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o600))
	_, err = ReadFile(bad)
	require.Error(t, err)
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	path, _ := classified.Context().GetString("path")
	assert.Equal(t, bad, path)

	good := filepath.Join(dir, "good.ipynb")
	require.NoError(t, os.WriteFile(good, []byte(sampleNotebook), 0o600))
	nb, err := ReadFile(good)
	require.NoError(t, err)
	assert.Len(t, nb.Cells, 3)
}

func TestParse_StructureViolations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		issue string
	}{
		{"top level array", `[]`, "/: "},
		{"cells not an array", `{"cells": {}}`, "/cells: "},
		{"numeric source", `{"cells": [{"cell_type": "code", "source": 5}]}`, "/cells/0/source: "},
		{"output without type", `{"cells": [{"cell_type": "code", "source": "", "outputs": [{"text": "x"}]}]}`, "/cells/0/outputs/0: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidNotebook))
			classified, ok := ferrors.AsClassified(err)
			require.True(t, ok)
			assert.Equal(t, ferrors.CategoryValidation, classified.Category())
			issues, _ := classified.Context().GetString("issues")
			assert.Contains(t, issues, tt.issue)
		})
	}
}

func TestParse_NullSourceAndUnknownKeysAccepted(t *testing.T) {
	nb, err := Parse([]byte(`{"cells": [{"cell_type": "markdown", "source": null, "attachments": {}}], "worksheets": []}`))
	require.NoError(t, err)
	require.Len(t, nb.Cells, 1)
	assert.Empty(t, nb.Cells[0].Source.String())
}
