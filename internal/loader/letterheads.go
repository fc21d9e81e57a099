package loader

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/bailgen/internal/doctree"
)

// LoadLetterheads reads a YAML (or JSON) map of landlord company to its
// letterhead.
func LoadLetterheads(r io.Reader) (map[string]doctree.Letterhead, error) {
	var m map[string]doctree.Letterhead
	if err := yaml.NewDecoder(r).Decode(&m); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse letterheads: %w", err)
	}
	if m == nil {
		m = map[string]doctree.Letterhead{}
	}
	return m, nil
}

// LoadLetterheadsFile reads the letterhead file at path.
func LoadLetterheadsFile(path string) (map[string]doctree.Letterhead, error) {
	return openFile(path, func(r io.Reader, _ string) (map[string]doctree.Letterhead, error) {
		return LoadLetterheads(r)
	})
}
