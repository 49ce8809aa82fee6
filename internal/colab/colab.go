// Package colab builds "Open in Colab" links for converted notebooks.
//
// A link points at the notebook on GitHub:
//
//	https://colab.research.google.com/github/<owner>/<repo>/blob/<branch>/<path>
//
// The repository and branch come from configuration, or from the origin
// remote and checked-out branch of the git repository holding the notebooks.
package colab

import (
	"errors"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"

	ferrors "git.home.luguber.info/inful/mdxgen/internal/foundation/errors"
	"git.home.luguber.info/inful/mdxgen/internal/logfields"
)

const baseURL = "https://colab.research.google.com/github/"

// Settings select the GitHub repository that hosts the notebooks.
type Settings struct {
	Repository   string // owner/name
	Branch       string
	DetectRemote bool
}

// Resolver maps notebook paths under a fixed examples root to Colab links.
type Resolver struct {
	repository string
	branch     string
	// base is the directory notebook paths are made relative to.
	base string
}

// NewResolver creates a Resolver for notebooks under examplesRoot. Paths are
// made relative to the parent of examplesRoot, or to the git worktree root
// when the repository is detected from the remote.
func NewResolver(settings Settings, examplesRoot string) (*Resolver, error) {
	root, err := filepath.Abs(examplesRoot)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve examples root").
			WithContext("path", examplesRoot).
			Build()
	}

	r := &Resolver{
		repository: strings.Trim(settings.Repository, "/"),
		branch:     settings.Branch,
		base:       filepath.Dir(root),
	}

	if settings.DetectRemote {
		info, detectErr := Detect(root)
		switch {
		case detectErr != nil:
			slog.Warn("Git remote detection failed, using configured repository",
				logfields.Path(root),
				logfields.Error(detectErr))
		default:
			r.repository = info.Repository
			if info.Branch != "" {
				r.branch = info.Branch
			}
			r.base = info.WorktreeRoot
		}
	}

	if r.repository == "" || r.branch == "" {
		return nil, ferrors.ConfigError("colab link needs a repository and a branch").
			WithContext("repository", r.repository).
			WithContext("branch", r.branch).
			Build()
	}
	return r, nil
}

// Link returns the Colab URL for the notebook at path. A failure only costs
// the page its badge, so errors carry warning severity.
func (r *Resolver) Link(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve notebook path").
			Warning().
			WithContext("path", path).
			Build()
	}
	rel, err := filepath.Rel(r.base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ferrors.NewError(ferrors.CategoryFileSystem, "notebook outside the repository").
			Warning().
			WithContext("path", abs).
			WithContext("base", r.base).
			Build()
	}
	return baseURL + r.repository + "/blob/" + r.branch + "/" + filepath.ToSlash(rel), nil
}

// RepoInfo is what Detect learns from a local clone.
type RepoInfo struct {
	Repository   string // owner/name on GitHub
	Branch       string // empty on a detached HEAD or unborn branch
	WorktreeRoot string
}

// ErrNotGitHub is returned when the origin remote is not hosted on GitHub.
var ErrNotGitHub = errors.New("origin remote is not a GitHub repository")

// Detect opens the git repository containing dir and reads its origin remote.
func Detect(dir string) (*RepoInfo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryGit, "open repository").WithContext("path", dir).Build()
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryGit, "read origin remote").WithContext("path", dir).Build()
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil, ferrors.NewError(ferrors.CategoryGit, "origin remote has no URL").WithContext("path", dir).Build()
	}
	repository, ok := ParseGitHubRepository(urls[0])
	if !ok {
		return nil, ferrors.WrapError(ErrNotGitHub, ferrors.CategoryGit, "unsupported remote").
			WithContext("url", urls[0]).
			Build()
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryGit, "open worktree").WithContext("path", dir).Build()
	}

	info := &RepoInfo{Repository: repository, WorktreeRoot: wt.Filesystem.Root()}
	if head, headErr := repo.Head(); headErr == nil && head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}
	return info, nil
}

var githubRemote = regexp.MustCompile(`^(?:https?://(?:[^@/]+@)?|ssh://git@|git@)github\.com[:/]([^/]+)/([^/]+?)(?:\.git)?/?$`)

// ParseGitHubRepository extracts "owner/name" from a GitHub remote URL in
// HTTPS, SSH or scp-like form.
func ParseGitHubRepository(remoteURL string) (string, bool) {
	m := githubRemote.FindStringSubmatch(strings.TrimSpace(remoteURL))
	if m == nil {
		return "", false
	}
	return m[1] + "/" + m[2], true
}
