// Package storage defines the persisted character and fitting records and the
// store interfaces implemented by the file and PostgreSQL backends.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Record kinds, used as metric labels and log fields.
const (
	KindCharacter = "character"
	KindFitting   = "fitting"
)

// ErrUnknownCharacter is matched by every UnknownCharacterError via errors.Is.
var ErrUnknownCharacter = errors.New("unknown character")

// ErrUnknownFitting is matched by every UnknownFittingError via errors.Is.
var ErrUnknownFitting = errors.New("unknown fitting")

// UnknownCharacterError reports a character name with no stored record.
type UnknownCharacterError struct {
	Name string
}

func (e *UnknownCharacterError) Error() string {
	return fmt.Sprintf("character %q not found", e.Name)
}

// Unwrap returns ErrUnknownCharacter.
func (e *UnknownCharacterError) Unwrap() error { return ErrUnknownCharacter }

// UnknownFittingError reports a fitting name with no stored record.
type UnknownFittingError struct {
	Name string
}

func (e *UnknownFittingError) Error() string {
	return fmt.Sprintf("fitting %q not found", e.Name)
}

// Unwrap returns ErrUnknownFitting.
func (e *UnknownFittingError) Unwrap() error { return ErrUnknownFitting }

// CharacterRecord is a named character and its trained skill levels.
type CharacterRecord struct {
	Name   string         `yaml:"name" json:"name"`
	Skills map[string]int `yaml:"skills" json:"skills"`
}

// ItemRef names one fitted catalog entry.
type ItemRef struct {
	Kind string `yaml:"kind" json:"kind"`
	Name string `yaml:"name" json:"name"`
}

// FittingRecord is a saved loadout: the dropsuit, the character it was built
// for, and every fitted item in the order it was added.
type FittingRecord struct {
	Name      string    `yaml:"name" json:"name"`
	Character string    `yaml:"character" json:"character"`
	Dropsuit  string    `yaml:"dropsuit" json:"dropsuit"`
	Items     []ItemRef `yaml:"items" json:"items"`
	// Fingerprint identifies the loadout content at save time.
	Fingerprint string `yaml:"fingerprint" json:"fingerprint"`
}

// CharacterStore persists CharacterRecords by name.
type CharacterStore interface {
	// SaveCharacter inserts or replaces the record with the same name.
	SaveCharacter(ctx context.Context, rec CharacterRecord) error
	// GetCharacter returns *UnknownCharacterError when no record exists.
	GetCharacter(ctx context.Context, name string) (CharacterRecord, error)
	// DeleteCharacter is a no-op when no record exists.
	DeleteCharacter(ctx context.Context, name string) error
	// CharacterNames returns every stored name in ascending order.
	CharacterNames(ctx context.Context) ([]string, error)
}

// FittingStore persists FittingRecords by name.
type FittingStore interface {
	// SaveFitting inserts or replaces the record with the same name.
	SaveFitting(ctx context.Context, rec FittingRecord) error
	// GetFitting returns *UnknownFittingError when no record exists.
	GetFitting(ctx context.Context, name string) (FittingRecord, error)
	// DeleteFitting is a no-op when no record exists.
	DeleteFitting(ctx context.Context, name string) error
	// FittingNames returns every stored name in ascending order.
	FittingNames(ctx context.Context) ([]string, error)
}

// Store combines both record stores.
type Store interface {
	CharacterStore
	FittingStore
}

// Validate checks that rec can be stored.
func (rec CharacterRecord) Validate() error {
	if rec.Name == "" {
		return errors.New("character record: Name must not be empty")
	}
	for skill, level := range rec.Skills {
		if level < 0 || level > 5 {
			return fmt.Errorf("character record %q: skill %q level must be 0-5, got %d", rec.Name, skill, level)
		}
	}
	return nil
}

// Validate checks that rec can be stored.
func (rec FittingRecord) Validate() error {
	var errs []error
	if rec.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if rec.Dropsuit == "" {
		errs = append(errs, errors.New("Dropsuit must not be empty"))
	}
	for i, it := range rec.Items {
		if it.Name == "" || it.Kind == "" {
			errs = append(errs, fmt.Errorf("item %d must have a kind and name", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("fitting record %q: %w", rec.Name, errors.Join(errs...))
	}
	return nil
}
