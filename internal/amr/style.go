package amr

import "strings"

// Style is the visual treatment of one count cell.
// The zero Style means default rendering.
type Style struct {
	Background string
	Color      string
	FontWeight string
}

// Styles applied to count cells.
var (
	// Present highlights a gene detected exactly once.
	Present = Style{Background: "lightgreen", Color: "black", FontWeight: "bold"}
	// Absent hides a zero count by matching the page background; the
	// value stays in the markup.
	Absent = Style{Color: "white"}
)

// CellStyle maps a count to its style: 1 is highlighted, 0 is hidden and
// every other value, including counts above one, is left unstyled.
func CellStyle(v int) Style {
	switch v {
	case 1:
		return Present
	case 0:
		return Absent
	default:
		return Style{}
	}
}

// IsZero reports whether s applies no styling.
func (s Style) IsZero() bool { return s == Style{} }

// CSS returns s as inline declarations, e.g. "color: white;".
func (s Style) CSS() string {
	var decls []string
	if s.Background != "" {
		decls = append(decls, "background-color: "+s.Background+";")
	}
	if s.Color != "" {
		decls = append(decls, "color: "+s.Color+";")
	}
	if s.FontWeight != "" {
		decls = append(decls, "font-weight: "+s.FontWeight+";")
	}
	return strings.Join(decls, " ")
}
