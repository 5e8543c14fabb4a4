// Package filestore keeps character and fitting records in YAML files under a
// data directory.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/markwingerd/dft-old/internal/storage"
)

// File names within the data directory.
const (
	CharactersFile = "characters.yaml"
	FittingsFile   = "fittings.yaml"
)

type charactersDoc struct {
	Characters []storage.CharacterRecord `yaml:"characters"`
}

type fittingsDoc struct {
	Fittings []storage.FittingRecord `yaml:"fittings"`
}

// Store implements storage.Store over two YAML documents. Every write replaces
// the whole document through a temporary file and rename.
//
// Store is safe for concurrent use within one process.
type Store struct {
	dir string
	mu  sync.Mutex
}

var _ storage.Store = (*Store)(nil)

// New returns a Store rooted at dir, creating the directory when missing.
//
// Postcondition: Returns a usable Store or a non-nil error.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// SaveCharacter inserts or replaces rec.
func (s *Store) SaveCharacter(ctx context.Context, rec storage.CharacterRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var doc charactersDoc
	if err := s.read(CharactersFile, &doc); err != nil {
		return err
	}
	replaced := false
	for i := range doc.Characters {
		if doc.Characters[i].Name == rec.Name {
			doc.Characters[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Characters = append(doc.Characters, rec)
	}
	sort.Slice(doc.Characters, func(i, j int) bool { return doc.Characters[i].Name < doc.Characters[j].Name })
	return s.write(CharactersFile, doc)
}

// GetCharacter returns the named record or *storage.UnknownCharacterError.
func (s *Store) GetCharacter(ctx context.Context, name string) (storage.CharacterRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var doc charactersDoc
	if err := s.read(CharactersFile, &doc); err != nil {
		return storage.CharacterRecord{}, err
	}
	for _, rec := range doc.Characters {
		if rec.Name == name {
			if rec.Skills == nil {
				rec.Skills = map[string]int{}
			}
			return rec, nil
		}
	}
	return storage.CharacterRecord{}, &storage.UnknownCharacterError{Name: name}
}

// DeleteCharacter removes the named record if present.
func (s *Store) DeleteCharacter(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var doc charactersDoc
	if err := s.read(CharactersFile, &doc); err != nil {
		return err
	}
	kept := doc.Characters[:0]
	for _, rec := range doc.Characters {
		if rec.Name != name {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(doc.Characters) {
		return nil
	}
	doc.Characters = kept
	return s.write(CharactersFile, doc)
}

// CharacterNames lists stored character names in ascending order.
func (s *Store) CharacterNames(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var doc charactersDoc
	if err := s.read(CharactersFile, &doc); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc.Characters))
	for _, rec := range doc.Characters {
		names = append(names, rec.Name)
	}
	sort.Strings(names)
	return names, nil
}

// SaveFitting inserts or replaces rec.
func (s *Store) SaveFitting(ctx context.Context, rec storage.FittingRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var doc fittingsDoc
	if err := s.read(FittingsFile, &doc); err != nil {
		return err
	}
	replaced := false
	for i := range doc.Fittings {
		if doc.Fittings[i].Name == rec.Name {
			doc.Fittings[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Fittings = append(doc.Fittings, rec)
	}
	sort.Slice(doc.Fittings, func(i, j int) bool { return doc.Fittings[i].Name < doc.Fittings[j].Name })
	return s.write(FittingsFile, doc)
}

// GetFitting returns the named record or *storage.UnknownFittingError.
func (s *Store) GetFitting(ctx context.Context, name string) (storage.FittingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var doc fittingsDoc
	if err := s.read(FittingsFile, &doc); err != nil {
		return storage.FittingRecord{}, err
	}
	for _, rec := range doc.Fittings {
		if rec.Name == name {
			return rec, nil
		}
	}
	return storage.FittingRecord{}, &storage.UnknownFittingError{Name: name}
}

// DeleteFitting removes the named record if present.
func (s *Store) DeleteFitting(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var doc fittingsDoc
	if err := s.read(FittingsFile, &doc); err != nil {
		return err
	}
	kept := doc.Fittings[:0]
	for _, rec := range doc.Fittings {
		if rec.Name != name {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(doc.Fittings) {
		return nil
	}
	doc.Fittings = kept
	return s.write(FittingsFile, doc)
}

// FittingNames lists stored fitting names in ascending order.
func (s *Store) FittingNames(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var doc fittingsDoc
	if err := s.read(FittingsFile, &doc); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc.Fittings))
	for _, rec := range doc.Fittings {
		names = append(names, rec.Name)
	}
	sort.Strings(names)
	return names, nil
}

// read decodes file into out. A missing file leaves out empty.
func (s *Store) read(file string, out interface{}) error {
	path := filepath.Join(s.dir, file)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (s *Store) write(file string, doc interface{}) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", file, err)
	}
	tmp, err := os.CreateTemp(s.dir, file+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", file, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", file, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing %s: %w", file, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, file)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", file, err)
	}
	return nil
}
