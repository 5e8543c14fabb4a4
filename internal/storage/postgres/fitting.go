package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/markwingerd/dft-old/internal/storage"
)

// ErrFittingNameTaken is returned by CreateFitting when the name is already stored.
var ErrFittingNameTaken = errors.New("fitting name already taken")

// FittingRepository provides saved-fitting persistence operations.
type FittingRepository struct {
	db *pgxpool.Pool
}

// NewFittingRepository creates a FittingRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewFittingRepository(db *pgxpool.Pool) *FittingRepository {
	return &FittingRepository{db: db}
}

// CreateFitting inserts rec, refusing to replace an existing fitting.
//
// Postcondition: Returns ErrFittingNameTaken on duplicate names.
func (r *FittingRepository) CreateFitting(ctx context.Context, rec storage.FittingRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO fittings (name, character, dropsuit, items, fingerprint)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.Name, rec.Character, rec.Dropsuit, items(rec), rec.Fingerprint,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrFittingNameTaken
		}
		return fmt.Errorf("inserting fitting: %w", err)
	}
	return nil
}

// SaveFitting inserts rec or replaces the fitting with the same name.
func (r *FittingRepository) SaveFitting(ctx context.Context, rec storage.FittingRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO fittings (name, character, dropsuit, items, fingerprint)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE
		SET character = EXCLUDED.character, dropsuit = EXCLUDED.dropsuit,
		    items = EXCLUDED.items, fingerprint = EXCLUDED.fingerprint,
		    updated_at = NOW()`,
		rec.Name, rec.Character, rec.Dropsuit, items(rec), rec.Fingerprint,
	)
	if err != nil {
		return fmt.Errorf("saving fitting: %w", err)
	}
	return nil
}

// GetFitting retrieves a fitting by name.
//
// Postcondition: Returns the record or *storage.UnknownFittingError.
func (r *FittingRepository) GetFitting(ctx context.Context, name string) (storage.FittingRecord, error) {
	rec := storage.FittingRecord{Name: name}
	err := r.db.QueryRow(ctx, `
		SELECT character, dropsuit, items, fingerprint
		FROM fittings WHERE name = $1`,
		name,
	).Scan(&rec.Character, &rec.Dropsuit, &rec.Items, &rec.Fingerprint)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.FittingRecord{}, &storage.UnknownFittingError{Name: name}
		}
		return storage.FittingRecord{}, fmt.Errorf("querying fitting: %w", err)
	}
	return rec, nil
}

// DeleteFitting removes a fitting by name; absent names are not an error.
func (r *FittingRepository) DeleteFitting(ctx context.Context, name string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM fittings WHERE name = $1`, name); err != nil {
		return fmt.Errorf("deleting fitting: %w", err)
	}
	return nil
}

// FittingNames returns every fitting name in ascending order.
func (r *FittingRepository) FittingNames(ctx context.Context) ([]string, error) {
	return listNames(ctx, r.db, `SELECT name FROM fittings ORDER BY name COLLATE "C" ASC`)
}

func items(rec storage.FittingRecord) []storage.ItemRef {
	if rec.Items == nil {
		return []storage.ItemRef{}
	}
	return rec.Items
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}

// Store serves both record stores from one pool.
type Store struct {
	*CharacterRepository
	*FittingRepository
}

var _ storage.Store = Store{}

// NewStore creates a Store backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with migrations applied.
func NewStore(db *pgxpool.Pool) Store {
	return Store{
		CharacterRepository: NewCharacterRepository(db),
		FittingRepository:   NewFittingRepository(db),
	}
}
