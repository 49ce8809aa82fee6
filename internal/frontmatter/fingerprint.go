package frontmatter

import (
	"strings"

	"github.com/inful/mdfp"
)

// FingerprintField is the frontmatter key holding the content fingerprint.
var FingerprintField = mdfp.FingerprintField

// Fingerprint computes the content fingerprint of a document from its
// frontmatter fields (minus any existing fingerprint) and body.
func Fingerprint(fields map[string]any, body string, leading ...string) (string, error) {
	forHash := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == FingerprintField {
			continue
		}
		forHash[k] = v
	}

	serialized, err := SerializeYAML(forHash, leading...)
	if err != nil {
		return "", err
	}
	fm := strings.TrimSuffix(string(serialized), "\n")
	return mdfp.CalculateFingerprintFromParts(fm, body), nil
}
