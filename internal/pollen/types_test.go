package pollen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_KnownCode(t *testing.T) {
	d := Resolve("TREE_BIRCH", "Birch")

	assert.Equal(t, "Birch", d.Name.EN)
	assert.Equal(t, "Береза", d.Name.RU)
	assert.Equal(t, "pollen-birch", d.Color)
	assert.Equal(t, CategoryTree, d.Category)
}

func TestResolve_Alias(t *testing.T) {
	tests := []struct {
		alias string
		want  string
	}{
		{"RAGWEED", "pollen-ragweed"},
		{"MUGWORT", "pollen-mugwort"},
		{"GRAMINALES", "pollen-grass"},
		{"GRAMINEAE", "pollen-grass"},
		{"POACEAE", "pollen-grass"},
		{"OAK", "pollen-oak"},
		{"BIRCH", "pollen-birch"},
		{"MAPLE", "pollen-maple"},
		{"ASH", "pollen-ash"},
		{"PINE", "pollen-pine"},
		{"ALDER", "pollen-alder"},
	}

	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			d := Resolve(tt.alias, "")
			assert.Equal(t, tt.want, d.Color)
			assert.NotEqual(t, CategoryUnknown, d.Category)
		})
	}
}

func TestResolve_AliasMatchesCanonical(t *testing.T) {
	assert.Equal(t, Resolve("TREE_OAK", "Oak"), Resolve("OAK", "Oak"))
}

func TestResolve_UnknownCode(t *testing.T) {
	d := Resolve("JUNIPER", "Juniper")

	assert.Equal(t, "Juniper", d.Name.EN)
	assert.Equal(t, "Jun", d.ShortName.EN)
	assert.Equal(t, CategoryUnknown, d.Category)
	assert.Contains(t, defaultColors, d.Color)
}

func TestResolve_UnknownCode_ColorIsDeterministic(t *testing.T) {
	first := Resolve("JUNIPER", "Juniper")
	second := Resolve("JUNIPER", "Juniper")
	assert.Equal(t, first.Color, second.Color)
}

func TestResolve_UnknownCode_ShortNameFallsBackToCode(t *testing.T) {
	d := Resolve("CYPRESS", "")
	assert.Equal(t, "CYP", d.ShortName.EN)
}

func TestResolve_ShortDisplayNameKeptWhole(t *testing.T) {
	d := Resolve("ELM", "Elm")
	assert.Equal(t, "Elm", d.ShortName.EN)
}

func TestColorIndex_MatchesCharSum(t *testing.T) {
	// "AB" = 65 + 66 = 131, 131 % 5 = 1
	assert.Equal(t, 1, colorIndex("AB"))
	assert.Equal(t, "pollen-grass", Resolve("AB", "ab").Color)
}

func TestColorIndex_NonASCIICode(t *testing.T) {
	idx := colorIndex("Берёза")
	assert.GreaterOrEqual(t, idx, 0)
	assert.Less(t, idx, len(defaultColors))
}
