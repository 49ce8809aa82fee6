package markdown

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/mdxgen/internal/frontmatter"
)

// BrokenLink is a relative link whose target does not exist on disk.
type BrokenLink struct {
	Link   Link
	Target string
}

// VerifyLocalLinks checks every relative link in the page at path against the
// filesystem. External URLs, site-absolute paths and pure anchors are not checked.
func VerifyLocalLinks(path string) ([]BrokenLink, error) {
	// #nosec G304 -- path is a page this tool just wrote.
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	_, body, _, err := frontmatter.Split(content)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	var broken []BrokenLink
	for _, link := range ExtractLinks(body) {
		target, ok := localTarget(link.Destination)
		if !ok {
			continue
		}
		full := filepath.Join(dir, filepath.FromSlash(target))
		if _, statErr := os.Stat(full); statErr != nil {
			broken = append(broken, BrokenLink{Link: link, Target: full})
		}
	}
	return broken, nil
}

func localTarget(dest string) (string, bool) {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "/") {
		return "", false
	}
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	if u.Path == "" {
		return "", false
	}
	return u.Path, true
}
