// Package catalog_test contains completeness tests for the shipped catalog content.
package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markwingerd/dft-old/internal/game/catalog"
)

const contentDir = "../../../content/catalog"

// TestContent_LoadsAndValidates verifies the shipped catalog loads without error.
func TestContent_LoadsAndValidates(t *testing.T) {
	lib, err := catalog.LoadDir(context.Background(), contentDir)
	require.NoError(t, err)
	assert.NotZero(t, lib.Skills.Len())
	assert.NotZero(t, lib.Modules.Len())
	assert.NotZero(t, lib.Weapons.Len())
	assert.NotZero(t, lib.Dropsuits.Len())
}

// TestContent_DropsuitsDeclareEveryCapacity verifies every dropsuit declares a
// capacity for every slot type plus its cpu and pg budgets.
func TestContent_DropsuitsDeclareEveryCapacity(t *testing.T) {
	lib, err := catalog.LoadDir(context.Background(), contentDir)
	require.NoError(t, err)
	for _, ds := range lib.Dropsuits.All() {
		for _, slot := range catalog.SlotOrder {
			_, ok := ds.Number(slot.Key())
			assert.True(t, ok, "dropsuit %q has no %s capacity", ds.Name, slot.Key())
		}
		for _, prop := range []string{catalog.PropCPU, catalog.PropPG} {
			_, ok := ds.Number(prop)
			assert.True(t, ok, "dropsuit %q has no %s", ds.Name, prop)
		}
	}
}

// TestContent_ItemsDeclareResourceCosts verifies every module and weapon has
// numeric cpu and pg costs.
func TestContent_ItemsDeclareResourceCosts(t *testing.T) {
	lib, err := catalog.LoadDir(context.Background(), contentDir)
	require.NoError(t, err)
	for _, c := range []*catalog.Catalog{lib.Modules, lib.Weapons} {
		for _, e := range c.All() {
			for _, prop := range []string{catalog.PropCPU, catalog.PropPG} {
				_, ok := e.Number(prop)
				assert.True(t, ok, "%s %q has no numeric %s", e.Kind, e.Name, prop)
			}
		}
	}
}
