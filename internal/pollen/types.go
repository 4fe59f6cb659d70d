package pollen

import (
	"github.com/pollentracker/pollentracker/internal/i18n"
)

// Category groups pollen types by their plant family.
type Category string

const (
	CategoryTree    Category = "tree"
	CategoryGrass   Category = "grass"
	CategoryWeed    Category = "weed"
	CategoryUnknown Category = "unknown"
)

// AllCategories returns the closed set of type categories.
func AllCategories() []Category {
	return []Category{CategoryTree, CategoryGrass, CategoryWeed, CategoryUnknown}
}

// Descriptor describes how a pollen type is displayed: localized names,
// a CSS color token, and the plant category it belongs to.
type Descriptor struct {
	Name      i18n.Text `json:"name"`
	ShortName i18n.Text `json:"shortName"`
	Color     string    `json:"color"`
	Category  Category  `json:"category"`
}

// descriptors is the static reference table for known API codes.
var descriptors = map[string]Descriptor{
	"TREE_OAK": {
		Name:      i18n.Text{EN: "Oak", RU: "Дуб"},
		ShortName: i18n.Text{EN: "Oak", RU: "Дуб"},
		Color:     "pollen-oak",
		Category:  CategoryTree,
	},
	"TREE_BIRCH": {
		Name:      i18n.Text{EN: "Birch", RU: "Береза"},
		ShortName: i18n.Text{EN: "Bir", RU: "Бер"},
		Color:     "pollen-birch",
		Category:  CategoryTree,
	},
	"TREE_MAPLE": {
		Name:      i18n.Text{EN: "Maple", RU: "Клен"},
		ShortName: i18n.Text{EN: "Map", RU: "Кле"},
		Color:     "pollen-maple",
		Category:  CategoryTree,
	},
	"TREE_ASH": {
		Name:      i18n.Text{EN: "Ash", RU: "Ясень"},
		ShortName: i18n.Text{EN: "Ash", RU: "Яс"},
		Color:     "pollen-ash",
		Category:  CategoryTree,
	},
	"TREE_PINE": {
		Name:      i18n.Text{EN: "Pine", RU: "Сосна"},
		ShortName: i18n.Text{EN: "Pin", RU: "Сос"},
		Color:     "pollen-pine",
		Category:  CategoryTree,
	},
	"TREE_ALDER": {
		Name:      i18n.Text{EN: "Alder", RU: "Ольха"},
		ShortName: i18n.Text{EN: "Ald", RU: "Оль"},
		Color:     "pollen-alder",
		Category:  CategoryTree,
	},
	"GRASS": {
		Name:      i18n.Text{EN: "Grass", RU: "Травы"},
		ShortName: i18n.Text{EN: "Gra", RU: "Тра"},
		Color:     "pollen-grass",
		Category:  CategoryGrass,
	},
	"WEED_RAGWEED": {
		Name:      i18n.Text{EN: "Ragweed", RU: "Амброзия"},
		ShortName: i18n.Text{EN: "Rag", RU: "Амб"},
		Color:     "pollen-ragweed",
		Category:  CategoryWeed,
	},
	"WEED_MUGWORT": {
		Name:      i18n.Text{EN: "Mugwort", RU: "Полынь"},
		ShortName: i18n.Text{EN: "Mug", RU: "Пол"},
		Color:     "pollen-mugwort",
		Category:  CategoryWeed,
	},
	"WEED": {
		Name:      i18n.Text{EN: "Weed", RU: "Сорные травы"},
		ShortName: i18n.Text{EN: "Wed", RU: "Сор"},
		Color:     "pollen-weed",
		Category:  CategoryWeed,
	},
}

// aliases maps alternate API spellings to reference-table codes.
var aliases = map[string]string{
	"RAGWEED":    "WEED_RAGWEED",
	"MUGWORT":    "WEED_MUGWORT",
	"GRAMINALES": "GRASS",
	"GRAMINEAE":  "GRASS",
	"POACEAE":    "GRASS",
	"OAK":        "TREE_OAK",
	"BIRCH":      "TREE_BIRCH",
	"MAPLE":      "TREE_MAPLE",
	"ASH":        "TREE_ASH",
	"PINE":       "TREE_PINE",
	"ALDER":      "TREE_ALDER",
}

// defaultColors is the palette used for codes outside the reference table.
var defaultColors = []string{
	"pollen-oak",
	"pollen-grass",
	"pollen-birch",
	"pollen-ragweed",
	"pollen-pine",
}

// Resolve returns the display descriptor for an API pollen code.
// Lookup order: exact reference-table match, alias match, then a
// synthesized fallback. It always returns a usable descriptor.
func Resolve(code, displayName string) Descriptor {
	if d, ok := descriptors[code]; ok {
		return d
	}
	if target, ok := aliases[code]; ok {
		if d, ok := descriptors[target]; ok {
			return d
		}
	}

	short := truncate(displayName, 3)
	if short == "" {
		short = truncate(code, 3)
	}

	return Descriptor{
		Name:      i18n.Text{EN: displayName, RU: displayName},
		ShortName: i18n.Text{EN: short, RU: short},
		Color:     defaultColors[colorIndex(code)],
		Category:  CategoryUnknown,
	}
}

// colorIndex picks a palette slot from the sum of the code's character values.
func colorIndex(code string) int {
	sum := 0
	for _, r := range code {
		sum += int(r)
	}
	if sum < 0 {
		sum = -sum
	}
	return sum % len(defaultColors)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
