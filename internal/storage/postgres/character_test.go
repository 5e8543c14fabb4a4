package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/markwingerd/dft-old/internal/storage"
	"github.com/markwingerd/dft-old/internal/storage/postgres"
	"github.com/markwingerd/dft-old/internal/testutil"
)

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

// TestRepositories shares one container across every repository test.
func TestRepositories(t *testing.T) {
	pool := testutil.NewPool(t)
	store := postgres.NewStore(pool)

	t.Run("SchemaVersion", func(t *testing.T) {
		version, dirty, err := postgres.SchemaVersion(context.Background(), pool)
		require.NoError(t, err)
		assert.False(t, dirty)
		assert.EqualValues(t, postgres.RequiredSchemaVersion, version)
	})

	t.Run("CharacterSaveGet", func(t *testing.T) {
		ctx := context.Background()
		name := uniqueName("zara")
		rec := storage.CharacterRecord{Name: name, Skills: map[string]int{"Circuitry": 3, "Shield Control": 5}}
		require.NoError(t, store.SaveCharacter(ctx, rec))

		got, err := store.GetCharacter(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, rec, got)
	})

	t.Run("CharacterUpsert", func(t *testing.T) {
		ctx := context.Background()
		name := uniqueName("mira")
		require.NoError(t, store.SaveCharacter(ctx, storage.CharacterRecord{Name: name, Skills: map[string]int{"Circuitry": 1}}))
		require.NoError(t, store.SaveCharacter(ctx, storage.CharacterRecord{Name: name, Skills: map[string]int{"Circuitry": 4}}))

		got, err := store.GetCharacter(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Skills["Circuitry"])
	})

	t.Run("CharacterNotFound", func(t *testing.T) {
		_, err := store.GetCharacter(context.Background(), uniqueName("ghost"))
		assert.ErrorIs(t, err, storage.ErrUnknownCharacter)
	})

	t.Run("CharacterDeleteAndNames", func(t *testing.T) {
		ctx := context.Background()
		a, b := uniqueName("a"), uniqueName("b")
		require.NoError(t, store.SaveCharacter(ctx, storage.CharacterRecord{Name: a}))
		require.NoError(t, store.SaveCharacter(ctx, storage.CharacterRecord{Name: b}))

		names, err := store.CharacterNames(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, a)
		assert.Contains(t, names, b)
		assert.IsIncreasing(t, names)

		require.NoError(t, store.DeleteCharacter(ctx, a))
		require.NoError(t, store.DeleteCharacter(ctx, a))
		names, err = store.CharacterNames(ctx)
		require.NoError(t, err)
		assert.NotContains(t, names, a)
	})

	t.Run("FittingSaveGet", func(t *testing.T) {
		ctx := context.Background()
		rec := storage.FittingRecord{
			Name:      uniqueName("scout"),
			Character: "Zara",
			Dropsuit:  "Scout Type-I",
			Items: []storage.ItemRef{
				{Kind: "weapon", Name: "Assault Rifle"},
				{Kind: "module", Name: "Complex Shield Extender"},
			},
			Fingerprint: "00ff",
		}
		require.NoError(t, store.SaveFitting(ctx, rec))

		got, err := store.GetFitting(ctx, rec.Name)
		require.NoError(t, err)
		assert.Equal(t, rec, got)
	})

	t.Run("FittingCreateDuplicate", func(t *testing.T) {
		ctx := context.Background()
		rec := storage.FittingRecord{Name: uniqueName("dup"), Dropsuit: "Scout Type-I"}
		require.NoError(t, store.CreateFitting(ctx, rec))
		assert.ErrorIs(t, store.CreateFitting(ctx, rec), postgres.ErrFittingNameTaken)
	})

	t.Run("FittingNotFoundAndDelete", func(t *testing.T) {
		ctx := context.Background()
		name := uniqueName("gone")
		require.NoError(t, store.SaveFitting(ctx, storage.FittingRecord{Name: name, Dropsuit: "Scout Type-I"}))
		require.NoError(t, store.DeleteFitting(ctx, name))
		_, err := store.GetFitting(ctx, name)
		assert.ErrorIs(t, err, storage.ErrUnknownFitting)
	})

	t.Run("PropertyCharacterRoundTrip", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			ctx := context.Background()
			name := rapid.StringMatching(`[A-Z][a-z]{2,20}`).Draw(rt, "name")
			skills := rapid.MapOf(rapid.StringMatching(`[A-Z][a-z ]{2,16}`), rapid.IntRange(0, 5)).Draw(rt, "skills")
			if err := store.SaveCharacter(ctx, storage.CharacterRecord{Name: name, Skills: skills}); err != nil {
				rt.Fatalf("save: %v", err)
			}
			got, err := store.GetCharacter(ctx, name)
			if err != nil {
				rt.Fatalf("get: %v", err)
			}
			if len(got.Skills) != len(skills) {
				rt.Fatalf("got %d skills, want %d", len(got.Skills), len(skills))
			}
		})
	})
}
