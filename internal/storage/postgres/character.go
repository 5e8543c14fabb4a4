package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/markwingerd/dft-old/internal/storage"
)

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// SaveCharacter inserts rec or replaces the skills of the character with the same name.
//
// Precondition: rec.Name must be non-empty.
// Postcondition: Returns nil once the row reflects rec.
func (r *CharacterRepository) SaveCharacter(ctx context.Context, rec storage.CharacterRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	skills := rec.Skills
	if skills == nil {
		skills = map[string]int{}
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO characters (name, skills)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE
		SET skills = EXCLUDED.skills, updated_at = NOW()`,
		rec.Name, skills,
	)
	if err != nil {
		return fmt.Errorf("saving character: %w", err)
	}
	return nil
}

// GetCharacter retrieves a character by name.
//
// Postcondition: Returns the record or *storage.UnknownCharacterError.
func (r *CharacterRepository) GetCharacter(ctx context.Context, name string) (storage.CharacterRecord, error) {
	rec := storage.CharacterRecord{Name: name}
	err := r.db.QueryRow(ctx, `SELECT skills FROM characters WHERE name = $1`, name).Scan(&rec.Skills)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.CharacterRecord{}, &storage.UnknownCharacterError{Name: name}
		}
		return storage.CharacterRecord{}, fmt.Errorf("querying character: %w", err)
	}
	if rec.Skills == nil {
		rec.Skills = map[string]int{}
	}
	return rec, nil
}

// DeleteCharacter removes a character by name; absent names are not an error.
func (r *CharacterRepository) DeleteCharacter(ctx context.Context, name string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM characters WHERE name = $1`, name); err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	return nil
}

// CharacterNames returns every character name in ascending order.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) CharacterNames(ctx context.Context) ([]string, error) {
	return listNames(ctx, r.db, `SELECT name FROM characters ORDER BY name COLLATE "C" ASC`)
}

func listNames(ctx context.Context, db *pgxpool.Pool, query string) ([]string, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing names: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning name row: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
