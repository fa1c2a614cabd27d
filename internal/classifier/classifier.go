// Package classifier maps file paths to domain labels using file-path
// conventions: documents either live in a directory named after their
// domain, or carry the domain as a filename prefix (e.g. "biology_cells.md").
package classifier

import (
	"path/filepath"
	"regexp"
	"strings"
)

// stemToken matches a filename-stem prefix usable as a domain token.
var stemToken = regexp.MustCompile(`^[a-z0-9-]+$`)

// Classifier infers domain labels from file paths. The known-domain set
// is fixed at construction; Infer is a pure function of the path.
type Classifier struct {
	known         map[string]struct{}
	defaultDomain string
}

// New creates a Classifier for the given domain vocabulary. Matching is
// case-insensitive on both paths and domain labels.
func New(known []string, defaultDomain string) *Classifier {
	set := make(map[string]struct{}, len(known))
	for _, d := range known {
		set[strings.ToLower(d)] = struct{}{}
	}
	return &Classifier{known: set, defaultDomain: defaultDomain}
}

// Infer returns the domain label for path. Precedence, first match wins:
//
//  1. the lower-cased name of the immediate parent directory, if known
//  2. the lower-cased filename stem's leading token up to the first
//     underscore, if it is a plain lowercase/digit/hyphen token and known
//  3. the default domain
func (c *Classifier) Infer(path string) string {
	parent := strings.ToLower(filepath.Base(filepath.Dir(path)))
	if _, ok := c.known[parent]; ok {
		return parent
	}

	base := filepath.Base(path)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	token := stem
	if i := strings.IndexByte(stem, '_'); i >= 0 {
		token = stem[:i]
	}
	if stemToken.MatchString(token) {
		if _, ok := c.known[token]; ok {
			return token
		}
	}

	return c.defaultDomain
}

// Default returns the fallback domain label.
func (c *Classifier) Default() string {
	return c.defaultDomain
}
