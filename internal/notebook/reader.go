// Package notebook reads notebook documents and converts them into the
// intermediate document model.
package notebook

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"unicode/utf8"

	ferrors "git.home.luguber.info/inful/mdxgen/internal/foundation/errors"
)

// ErrInvalidNotebook is the cause of every notebook parse failure.
var ErrInvalidNotebook = errors.New("invalid notebook")

// Parse decodes notebook JSON. Cells keep file order.
func Parse(data []byte) (*Notebook, error) {
	if !utf8.Valid(data) {
		return nil, ferrors.MalformedInputError("notebook is not valid UTF-8").WithCause(ErrInvalidNotebook).Build()
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, invalidJSON(err)
	}
	if err := validateStructure(doc); err != nil {
		return nil, ferrors.MalformedInputError("notebook structure is invalid").
			WithCause(errors.Join(ErrInvalidNotebook, err)).
			WithContext("issues", strings.Join(schemaIssues(err), "; ")).
			Build()
	}

	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, invalidJSON(err)
	}
	return &nb, nil
}

func invalidJSON(err error) error {
	return ferrors.MalformedInputError("invalid notebook JSON").WithCause(errors.Join(ErrInvalidNotebook, err)).Build()
}

// ReadFile reads and parses the notebook at path.
func ReadFile(path string) (*Notebook, error) {
	// #nosec G304 -- path comes from discovery or an explicit CLI argument.
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ferrors.NotFoundError("notebook not found").WithContext("path", path).Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read notebook").
			WithContext("path", path).
			Build()
	}
	nb, err := Parse(data)
	if err != nil {
		if classified, ok := ferrors.AsClassified(err); ok {
			return nil, classified.WithContext("path", path)
		}
		return nil, err
	}
	return nb, nil
}
