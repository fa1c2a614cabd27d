// Package loader discovers input files under a root directory and turns
// them into documents with identity, provenance, and domain metadata.
package loader

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eholt723/ragprep/internal/classifier"
	"github.com/eholt723/ragprep/pkg/types"
)

// Recognized input extensions.
var (
	textExtensions  = map[string]bool{".txt": true, ".md": true}
	jsonlExtensions = map[string]bool{".jsonl": true}
)

var titleCaser = cases.Title(language.English)

// Loader discovers and loads documents from an input tree.
type Loader struct {
	classifier *classifier.Classifier
}

// New creates a Loader that classifies documents against the given domain
// vocabulary.
func New(knownDomains []string, defaultDomain string) *Loader {
	return &Loader{classifier: classifier.New(knownDomains, defaultDomain)}
}

// Load walks root recursively and returns one Document per eligible plain
// text file plus one per JSONL record carrying a text field. Hidden
// directories are skipped; unrecognized extensions are ignored. The walk
// order is lexical, so the returned sequence is stable across runs.
//
// A malformed JSON line fails the whole load; there is no per-line
// recovery. An empty result is not an error here; the caller decides
// whether an empty corpus is fatal.
func (l *Loader) Load(root string) ([]types.Document, error) {
	var docs []types.Document

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		switch {
		case textExtensions[ext]:
			doc, err := l.loadTextFile(root, path)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		case jsonlExtensions[ext]:
			lineDocs, err := l.loadJSONLFile(root, path)
			if err != nil {
				return err
			}
			docs = append(docs, lineDocs...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk input root: %w", err)
	}

	return docs, nil
}

// loadTextFile turns a whole plain-text file into one Document. The id is
// derived from the file path (the filename stem), so it is stable across
// runs but changes when the file is renamed.
func (l *Loader) loadTextFile(root, path string) (types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	stem := fileStem(path)
	return types.Document{
		ID:     stem,
		Title:  titleCaser.String(strings.ReplaceAll(stem, "_", " ")),
		Text:   string(data),
		Source: relPath(root, path),
		Domain: l.classifier.Infer(path),
	}, nil
}

// jsonlEntry is the wire shape of one JSONL line. All fields except text
// are optional and resolved to defaults below.
type jsonlEntry struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Text   string `json:"text"`
	Source string `json:"source"`
	Domain string `json:"domain"`
}

// loadJSONLFile parses each non-blank line of a JSON-lines file into a
// Document. Entries without a text field are skipped. A missing id
// defaults to a short digest of the text content, so unlike plain-text
// files, JSONL records keep their identity when the file moves.
func (l *Loader) loadJSONLFile(root, path string) ([]types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	rel := relPath(root, path)
	fileDomain := l.classifier.Infer(path)

	var docs []types.Document
	for i, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		var entry jsonlEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("parse %s line %d: %w", rel, i+1, err)
		}
		if entry.Text == "" {
			continue
		}

		if entry.ID == "" {
			entry.ID = contentID(entry.Text)
		}
		if entry.Title == "" {
			entry.Title = entry.ID
		}
		if entry.Source == "" {
			entry.Source = rel
		}
		if entry.Domain == "" {
			entry.Domain = fileDomain
		}

		docs = append(docs, types.Document{
			ID:     entry.ID,
			Title:  entry.Title,
			Text:   entry.Text,
			Source: entry.Source,
			Domain: entry.Domain,
		})
	}

	return docs, nil
}

// contentID derives a short stable identifier from document text.
func contentID(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])[:10]
}

// fileStem returns the filename without its extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// relPath returns path relative to root, slash-separated. Falls back to
// the input path if it cannot be made relative.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}
