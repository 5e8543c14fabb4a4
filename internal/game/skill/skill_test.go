package skill_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/markwingerd/dft-old/internal/game/skill"
)

func testCatalog(t testing.TB) *skill.Catalog {
	t.Helper()
	cat, err := skill.NewCatalog(
		&skill.Skill{Name: "Circuitry", Category: "Engineering", Effect: 0.05, Multiplier: 2},
		&skill.Skill{Name: "Nanocircuitry", Category: "Engineering", Effect: -0.05, Multiplier: 3,
			Prerequisites: []skill.Prerequisite{{Skill: "Circuitry", Level: 3}}},
		&skill.Skill{Name: "Shield Control", Category: "Shields", Effect: 0.05, Multiplier: 1},
	)
	require.NoError(t, err)
	return cat
}

func TestNewCatalog_RejectsDuplicate(t *testing.T) {
	_, err := skill.NewCatalog(
		&skill.Skill{Name: "Circuitry", Effect: 0.05},
		&skill.Skill{Name: "Circuitry", Effect: 0.05},
	)
	assert.Error(t, err)
}

func TestNewCatalog_RejectsUnknownPrerequisite(t *testing.T) {
	_, err := skill.NewCatalog(
		&skill.Skill{Name: "Nanocircuitry", Prerequisites: []skill.Prerequisite{{Skill: "Circuitry", Level: 1}}},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, skill.ErrUnknownSkill))
}

func TestCatalog_NamesAndCategoriesKeepLoadOrder(t *testing.T) {
	cat := testCatalog(t)
	assert.Equal(t, []string{"Circuitry", "Nanocircuitry", "Shield Control"}, cat.Names())
	assert.Equal(t, []string{"Engineering", "Shields"}, cat.Categories())
	assert.Equal(t, 3, cat.Len())
}

func TestCharacter_SetSkill(t *testing.T) {
	c := skill.NewCharacter("Reimus", testCatalog(t))
	require.NoError(t, c.SetSkill("Circuitry", 4))
	assert.Equal(t, 4, c.SkillLevel("Circuitry"))
}

func TestCharacter_SetSkill_Unknown(t *testing.T) {
	c := skill.NewCharacter("Reimus", testCatalog(t))
	err := c.SetSkill("I dont exist", 1)
	var unknown *skill.UnknownSkillError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "I dont exist", unknown.Name)
	assert.Empty(t, c.Levels())
}

func TestCharacter_UnsetSkillIsUntrained(t *testing.T) {
	c := skill.NewCharacter("Reimus", testCatalog(t))
	assert.Equal(t, 0, c.SkillLevel("Shield Control"))
	assert.Equal(t, 0.0, c.LeveledEffect("Shield Control"))
}

func TestCharacter_LeveledEffect(t *testing.T) {
	c := skill.NewCharacter("Reimus", testCatalog(t))
	require.NoError(t, c.SetSkill("Nanocircuitry", 2))
	assert.InDelta(t, -0.10, c.LeveledEffect("Nanocircuitry"), 1e-9)
	assert.Equal(t, 0.0, c.LeveledEffect("Not A Skill"))
}

func TestCharacter_MissingPrerequisites(t *testing.T) {
	c := skill.NewCharacter("Reimus", testCatalog(t))
	missing, err := c.MissingPrerequisites("Nanocircuitry")
	require.NoError(t, err)
	assert.Equal(t, []skill.Prerequisite{{Skill: "Circuitry", Level: 3}}, missing)

	require.NoError(t, c.SetSkill("Circuitry", 3))
	missing, err = c.MissingPrerequisites("Nanocircuitry")
	require.NoError(t, err)
	assert.Empty(t, missing)

	_, err = c.MissingPrerequisites("nope")
	assert.ErrorIs(t, err, skill.ErrUnknownSkill)
}

func TestLoadCatalog_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skills.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
skills:
  - name: Circuitry
    category: Engineering
    effect: 0.05
    multiplier: 2
  - name: Combat Engineering
    category: Engineering
    effect: 0.05
    multiplier: 2
    prerequisites:
      - skill: Circuitry
        level: 1
`), 0o644))

	cat, err := skill.LoadCatalog(path)
	require.NoError(t, err)
	s, ok := cat.Skill("Combat Engineering")
	require.True(t, ok)
	assert.Equal(t, 0.05, s.Effect)
	assert.Equal(t, []skill.Prerequisite{{Skill: "Circuitry", Level: 1}}, s.Prerequisites)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := skill.LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestProperty_SetSkill_LevelAlwaysClamped(t *testing.T) {
	cat := testCatalog(t)
	rapid.Check(t, func(rt *rapid.T) {
		level := rapid.IntRange(-100, 100).Draw(rt, "level")
		c := skill.NewCharacter("p", cat)
		if err := c.SetSkill("Circuitry", level); err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		got := c.SkillLevel("Circuitry")
		if got < skill.MinLevel || got > skill.MaxLevel {
			rt.Fatalf("level %d escaped [%d,%d]", got, skill.MinLevel, skill.MaxLevel)
		}
		if level >= skill.MinLevel && level <= skill.MaxLevel && got != level {
			rt.Fatalf("in-range level %d stored as %d", level, got)
		}
	})
}
