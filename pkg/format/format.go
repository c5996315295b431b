// Package format turns API identifiers into display strings.
package format

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCase upper-cases the first letter of every word. Casers are
// stateful, so each call gets its own.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// regional maps a regional suffix to its adjective.
var regional = []struct {
	suffixes  []string
	adjective string
}{
	{[]string{"-alola", "-alolan"}, "Alolan"},
	{[]string{"-galar", "-galarian"}, "Galarian"},
	{[]string{"-hisui", "-hisuian"}, "Hisuian"},
	{[]string{"-paldea", "-paldean"}, "Paldean"},
}

// Name prettifies an entity name: "charizard-mega-x" becomes
// "Mega Charizard X", "walking-wake" becomes "Walking Wake".
func Name(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return ""
	}
	head := titleCase(firstSegment(name))

	switch {
	case strings.HasSuffix(name, "-mega-x"):
		return "Mega " + head + " X"
	case strings.HasSuffix(name, "-mega-y"):
		return "Mega " + head + " Y"
	case strings.HasSuffix(name, "-mega"):
		return "Mega " + head
	case strings.Contains(name, "gmax"), strings.Contains(name, "gigantamax"):
		return head + " Gmax"
	}

	for _, r := range regional {
		for _, suffix := range r.suffixes {
			if strings.HasSuffix(name, suffix) {
				return r.adjective + " " + head
			}
		}
	}

	return titleCase(strings.ReplaceAll(name, "-", " "))
}

func firstSegment(name string) string {
	head, _, _ := strings.Cut(name, "-")
	return head
}

// Color is an RGB hex colour such as "#F08030".
type Color string

var typeColors = map[string]Color{
	"normal":   "#A8A878",
	"fire":     "#F08030",
	"water":    "#6890F0",
	"electric": "#F8D030",
	"grass":    "#78C850",
	"ice":      "#98D8D8",
	"fighting": "#C03028",
	"poison":   "#A040A0",
	"ground":   "#E0C068",
	"flying":   "#A890F0",
	"psychic":  "#F85888",
	"bug":      "#A8B820",
	"rock":     "#B8A038",
	"ghost":    "#705898",
	"dragon":   "#7038F8",
	"dark":     "#705848",
	"steel":    "#B8B8D0",
	"fairy":    "#EE99AC",
}

// TypeColor returns the badge colour of a type; unknown types use normal's.
func TypeColor(typeName string) Color {
	if c, ok := typeColors[strings.ToLower(typeName)]; ok {
		return c
	}
	return typeColors["normal"]
}

var statColors = map[string]Color{
	"hp":              "#FF5959",
	"attack":          "#F5AC78",
	"defense":         "#FAE078",
	"special-attack":  "#9DB7F5",
	"special-defense": "#A7DB8D",
	"speed":           "#FA92B2",
}

// StatColor returns the bar colour of a stat, grey when unknown.
func StatColor(stat string) Color {
	if c, ok := statColors[stat]; ok {
		return c
	}
	return "#9E9E9E"
}

// StatLabel returns the short label of a stat, e.g. "Sp. Atk".
func StatLabel(stat string) string {
	switch stat {
	case "hp":
		return "HP"
	case "special-attack":
		return "Sp. Atk"
	case "special-defense":
		return "Sp. Def"
	default:
		return titleCase(strings.ReplaceAll(stat, "-", " "))
	}
}
