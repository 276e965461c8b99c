package catalog

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk catalog format: card records plus named deck lists.
type File struct {
	Cards []Record   `yaml:"cards"`
	Decks []DeckList `yaml:"decks,omitempty"`
}

// Deck returns the deck list called name, ignoring case and accents.
func (f *File) Deck(name string) (DeckList, bool) {
	key := NormalizeName(name)
	for _, d := range f.Decks {
		if NormalizeName(d.Name) == key {
			return d, true
		}
	}
	return DeckList{}, false
}

// DecodeYAML parses a catalog file. Unknown fields are rejected so typos
// in card records surface at load time.
func DecodeYAML(r io.Reader) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if len(f.Cards) == 0 {
		return nil, fmt.Errorf("catalog yaml has no cards")
	}
	return &f, nil
}

// ReadYAMLFile opens and decodes the catalog file at path.
func ReadYAMLFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer fh.Close()
	return DecodeYAML(fh)
}

// YAMLSource reads records from a catalog file on every call.
type YAMLSource struct {
	Path string
}

// Records implements Source.
func (s YAMLSource) Records(_ context.Context) ([]Record, error) {
	f, err := ReadYAMLFile(s.Path)
	if err != nil {
		return nil, err
	}
	return f.Cards, nil
}
