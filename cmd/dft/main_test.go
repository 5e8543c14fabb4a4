package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/markwingerd/dft-old/internal/config"
	"github.com/markwingerd/dft-old/internal/storage"
	"github.com/markwingerd/dft-old/internal/storage/filestore"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Catalog: config.CatalogConfig{Dir: "../../content/catalog"},
		Storage: config.StorageConfig{Backend: config.BackendFile, Dir: t.TempDir()},
		Logging: config.LoggingConfig{Level: "info", Format: "json"},
		Engine:  config.EngineConfig{StackingOrder: "insertion"},
	}
}

func runOK(t *testing.T, cfg config.Config, opts options) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, opts, zap.NewNop(), &out))
	return out.String()
}

func TestRun_FitAndPrint(t *testing.T) {
	cfg := testConfig(t)
	out := runOK(t, cfg, options{
		character: "Untrained",
		dropsuit:  "Scout Type-I",
		weapons:   listFlag{"Assault Rifle"},
		modules:   listFlag{"Basic Shield Extender", "Complex Shield Extender"},
	})
	assert.Contains(t, out, "Scout Type-I")
	assert.Contains(t, out, "Basic Shield Extender")
	assert.Contains(t, out, "Complex Shield Extender not fitted: slot_full (hi_slot)")
	assert.Contains(t, out, "Shield HP")
}

func TestRun_TrainSaveLoad(t *testing.T) {
	cfg := testConfig(t)
	runOK(t, cfg, options{
		character: "Zara",
		dropsuit:  "Scout Type-I",
		skills:    listFlag{"Circuitry=2", "Shield Control = 3"},
		modules:   listFlag{"Militia CPU Upgrade"},
		save:      "zara scout",
	})

	out := runOK(t, cfg, options{character: "Untrained", list: "fittings"})
	assert.Contains(t, out, "zara scout")

	out = runOK(t, cfg, options{character: "Untrained", load: "zara scout"})
	assert.Contains(t, out, "Militia CPU Upgrade")

	out = runOK(t, cfg, options{character: "Untrained", list: "characters"})
	assert.Contains(t, out, "Zara")

	runOK(t, cfg, options{character: "Untrained", deleteFit: "zara scout"})
	out = runOK(t, cfg, options{character: "Untrained", list: "fittings"})
	assert.NotContains(t, out, "zara scout")
}

func TestRun_Lists(t *testing.T) {
	cfg := testConfig(t)
	for what, want := range map[string]string{
		"dropsuits": "Heavy Type-I",
		"modules":   "Militia PG Upgrade",
		"weapons":   "Forge Gun",
		"skills":    "Circuitry",
	} {
		assert.Contains(t, runOK(t, cfg, options{list: what}), want, what)
	}
	err := run(context.Background(), cfg, options{list: "vehicles"}, zap.NewNop(), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_Errors(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	var out bytes.Buffer

	assert.Error(t, run(ctx, cfg, options{character: "Untrained"}, zap.NewNop(), &out), "no dropsuit")
	assert.Error(t, run(ctx, cfg, options{character: "Untrained", skills: listFlag{"Circuitry=1"}, dropsuit: "Scout Type-I"}, zap.NewNop(), &out))
	assert.Error(t, run(ctx, cfg, options{character: "Zed", skills: listFlag{"Circuitry"}, dropsuit: "Scout Type-I"}, zap.NewNop(), &out))
	assert.Error(t, run(ctx, cfg, options{character: "Untrained", dropsuit: "Scout Type-I", removes: listFlag{"Forge Gun"}}, zap.NewNop(), &out))

	err := run(ctx, cfg, options{character: "Untrained", load: "missing"}, zap.NewNop(), &out)
	assert.ErrorIs(t, err, storage.ErrUnknownFitting)
}

func TestRun_WritesMetricsFile(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "dft.prom")
	runOK(t, cfg, options{
		character:   "Untrained",
		dropsuit:    "Scout Type-I",
		modules:     listFlag{"Basic Armor Plates"},
		metricsFile: path,
	})
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `dft_fitting_items_added_total{slot="low_slot"} 1`)
}

func TestRun_LoadForAnotherCharacterAfterOwnerDeleted(t *testing.T) {
	cfg := testConfig(t)
	runOK(t, cfg, options{
		character: "Zara",
		dropsuit:  "Scout Type-I",
		skills:    listFlag{"Circuitry=1"},
		modules:   listFlag{"Basic Armor Plates"},
		save:      "zs",
	})
	runOK(t, cfg, options{character: "Bob", skills: listFlag{"Circuitry=3"}, dropsuit: "Scout Type-I"})

	store, err := filestore.New(cfg.Storage.Dir)
	require.NoError(t, err)
	require.NoError(t, store.DeleteCharacter(context.Background(), "Zara"))

	err = run(context.Background(), cfg, options{character: "Untrained", load: "zs"}, zap.NewNop(), &bytes.Buffer{})
	assert.ErrorIs(t, err, storage.ErrUnknownCharacter)

	out := runOK(t, cfg, options{character: "Bob", load: "zs"})
	assert.Contains(t, out, "Basic Armor Plates")
}
