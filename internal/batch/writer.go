package batch

import (
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/mdxgen/internal/foundation/errors"
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// writePage writes content to path, creating parent directories.
func writePage(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return ferrors.FileSystemError("create output directory").WithCause(err).
			WithContext("path", filepath.Dir(path)).
			Build()
	}
	// #nosec G306 -- generated pages are published content.
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		return ferrors.FileSystemError("write page").WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
