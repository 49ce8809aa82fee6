package batch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/mdxgen/internal/foundation/errors"
)

const (
	notebookExt       = ".ipynb"
	moduleExt         = ".py"
	checkpointDir     = ".ipynb_checkpoints"
	cacheDir          = "__pycache__"
	packageInitFile   = "__init__.py"
	testMarker        = "test"
	generalCategory   = "general"
	indexPageBasename = "index"
)

// ErrInputRootMissing is the cause of the error returned when a run's input
// root does not exist.
var ErrInputRootMissing = errors.New("input root missing")

func requireDir(path, what string) error {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return nil
	}
	cause := ErrInputRootMissing
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		cause = errors.Join(ErrInputRootMissing, err)
	}
	return ferrors.WrapError(cause, ferrors.CategoryNotFound, what+" not found").
		Fatal().
		UserAction().
		WithContext("path", path).
		Build()
}

// DiscoverNotebooks returns every notebook under root in lexical order,
// skipping checkpoint directories.
func DiscoverNotebooks(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == checkpointDir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == notebookExt {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "walk examples root").
			WithContext("path", root).
			Build()
	}
	return paths, nil
}

// NotebookCategory is the first directory under root holding the notebook,
// or "general" for notebooks directly under root.
func NotebookCategory(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return generalCategory
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return generalCategory
	}
	return parts[0]
}

// NotebookOutputPath maps a notebook to outRoot/<category>/<name><ext>.
func NotebookOutputPath(root, outRoot, path, ext string) string {
	return filepath.Join(outRoot, NotebookCategory(root, path), swapExt(filepath.Base(path), ext))
}

// DiscoverModules returns the modules of the package at pkgDir as
// slash-separated paths relative to pkgDir, in lexical order. Cache
// directories, package initializers and anything whose relative path
// mentions "test" are left out.
func DiscoverModules(pkgDir string) ([]string, error) {
	var rels []string
	err := filepath.WalkDir(pkgDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == pkgDir {
			return nil
		}
		rel, relErr := filepath.Rel(pkgDir, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		isTest := strings.Contains(strings.ToLower(rel), testMarker)

		if d.IsDir() {
			if d.Name() == cacheDir || isTest {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != moduleExt || isTest || d.Name() == packageInitFile {
			return nil
		}
		rels = append(rels, rel)
		return nil
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "walk package").
			WithContext("path", pkgDir).
			Build()
	}
	return rels, nil
}

// ModuleOutputPath returns the page path of a module relative to its
// package output directory, slash-separated.
func ModuleOutputPath(rel, ext string) string {
	return swapExt(rel, ext)
}

func swapExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}
