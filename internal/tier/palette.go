package tier

import "strings"

// Color is one selectable stamp color. MinLevel is the lowest tier
// index allowed to pick it.
type Color struct {
	Name     string
	Hex      string
	MinLevel int
}

var palette = []Color{
	{Name: "Terracotta", Hex: "#C0623D", MinLevel: 0},
	{Name: "Salvia", Hex: "#8B9D83", MinLevel: 0},
	{Name: "Ardesia", Hex: "#5C6670", MinLevel: 0},
	{Name: "Sabbia", Hex: "#D9C7A7", MinLevel: 0},
	{Name: "Bosco", Hex: "#3E5B42", MinLevel: 0},
	{Name: "Ruggine", Hex: "#9A4A2E", MinLevel: 0},
	{Name: "Lago", Hex: "#4A6FA5", MinLevel: 1},
	{Name: "Ginestra", Hex: "#D9A441", MinLevel: 1},
	{Name: "Mirtillo", Hex: "#5B4B8A", MinLevel: 1},
	{Name: "Corallo", Hex: "#E0705A", MinLevel: 1},
	{Name: "Ghiacciaio", Hex: "#7FB3C8", MinLevel: 2},
	{Name: "Porfido", Hex: "#7A3B4F", MinLevel: 2},
	{Name: "Lichene", Hex: "#A4B86A", MinLevel: 2},
	{Name: "Tramonto", Hex: "#D94F30", MinLevel: 3},
	{Name: "Notte", Hex: "#1F2A44", MinLevel: 3},
	{Name: "Oro", Hex: "#B8860B", MinLevel: 3},
}

// FullPalette returns every palette entry regardless of tier.
func FullPalette() []Color {
	out := make([]Color, len(palette))
	copy(out, palette)
	return out
}

// Palette returns the colors selectable at the given tier index.
func Palette(levelIndex int) []Color {
	var out []Color
	for _, c := range palette {
		if c.MinLevel <= levelIndex {
			out = append(out, c)
		}
	}
	return out
}

// Lookup finds a palette entry by hex value, case-insensitively.
func Lookup(hex string) (Color, bool) {
	hex = strings.ToUpper(strings.TrimSpace(hex))
	for _, c := range palette {
		if strings.ToUpper(c.Hex) == hex {
			return c, true
		}
	}
	return Color{}, false
}

// ColorUnlocked reports whether the color is selectable at the given
// tier index. Unknown colors are never unlocked.
func ColorUnlocked(hex string, levelIndex int) bool {
	c, ok := Lookup(hex)
	if !ok {
		return false
	}
	return c.MinLevel <= levelIndex
}
