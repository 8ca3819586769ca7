package assets

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultAvatarColor = "#6C757D"
	DefaultTeamColor   = "#666666"

	svgDataPrefix = "data:image/svg+xml,"
)

// StaticDriverPortrait is the official generic driver portrait.
const StaticDriverPortrait = "https://media.formula1.com/image/upload/c_lfill,w_440/q_auto/d_common:f1:2025:fallback:driver:2025fallbackdriverright.webp/v1740000000/common/f1/2025/fallback/fallback/2025fallbackfallbackright.webp"

var (
	StaticCircuitMap = svgDataURI(`<svg width="400" height="200" xmlns="http://www.w3.org/2000/svg">` +
		`<rect width="400" height="200" fill="#f8f9fa" stroke="#dee2e6" stroke-width="2"/>` +
		`<circle cx="200" cy="100" r="60" fill="none" stroke="#6c757d" stroke-width="4"/>` +
		`<text x="200" y="170" text-anchor="middle" font-family="Arial, sans-serif" font-size="12" fill="#6c757d">F1 Circuit</text>` +
		`</svg>`)
	StaticTeamBadge = svgDataURI(`<svg width="200" height="80" xmlns="http://www.w3.org/2000/svg">` +
		`<rect width="200" height="80" rx="8" fill="` + DefaultTeamColor + `"/>` +
		`<text x="100" y="45" text-anchor="middle" font-family="Arial" font-size="14" font-weight="bold" fill="white">F1</text>` +
		`</svg>`)
	Helmet = svgDataURI(`<svg width="200" height="200" xmlns="http://www.w3.org/2000/svg">` +
		`<circle cx="100" cy="100" r="80" fill="#f8f9fa" stroke="#ddd" stroke-width="2"/>` +
		`<circle cx="100" cy="80" r="50" fill="#fff" stroke="#ccc" stroke-width="1"/>` +
		`<text x="100" y="160" text-anchor="middle" font-family="Arial" font-size="24">⛑️</text>` +
		`</svg>`)
)

func svgDataURI(svg string) string {
	return svgDataPrefix + url.PathEscape(svg)
}

// IsDataURI reports whether ref is an inline image rather than a remote URL.
func IsDataURI(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}

// Initials returns the first characters of the given and family name as
// written, or "?" if both are empty.
func Initials(givenName, familyName string) string {
	var b strings.Builder
	for _, name := range []string{givenName, familyName} {
		if r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name)); r != utf8.RuneError {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

// DriverAvatar renders the initials avatar of a driver on the color of
// its nationality. The output depends on the arguments only.
func (c *Catalog) DriverAvatar(givenName, familyName, nationality string) string {
	color := c.nationalityColor(nationality)
	return svgDataURI(fmt.Sprintf(`<svg width="200" height="200" xmlns="http://www.w3.org/2000/svg">`+
		`<circle cx="100" cy="100" r="95" fill="%s"/>`+
		`<text x="100" y="118" text-anchor="middle" font-family="Arial, sans-serif" font-size="56" font-weight="bold" fill="white">%s</text>`+
		`<text x="100" y="160" text-anchor="middle" font-family="Arial, sans-serif" font-size="14" fill="white">%s</text>`+
		`</svg>`,
		color, html.EscapeString(Initials(givenName, familyName)), html.EscapeString(nationality)))
}

// CircuitPlaceholder renders a plain track placeholder labelled with name.
func CircuitPlaceholder(name string) string {
	return svgDataURI(fmt.Sprintf(`<svg width="400" height="200" xmlns="http://www.w3.org/2000/svg">`+
		`<rect width="400" height="200" fill="#f8f9fa" stroke="#dee2e6" stroke-width="2"/>`+
		`<circle cx="200" cy="100" r="60" fill="none" stroke="#6c757d" stroke-width="4"/>`+
		`<text x="200" y="105" text-anchor="middle" font-family="Arial, sans-serif" font-size="16" font-weight="bold" fill="#495057">%s</text>`+
		`<text x="200" y="170" text-anchor="middle" font-family="Arial, sans-serif" font-size="12" fill="#6c757d">F1 Circuit</text>`+
		`</svg>`, html.EscapeString(name)))
}

// TeamBadge renders a colored badge carrying the team label.
func TeamBadge(label, color string) string {
	return svgDataURI(fmt.Sprintf(`<svg width="200" height="80" xmlns="http://www.w3.org/2000/svg">`+
		`<rect width="200" height="80" rx="8" fill="%s"/>`+
		`<text x="100" y="45" text-anchor="middle" font-family="Arial" font-size="14" font-weight="bold" fill="white">%s</text>`+
		`</svg>`, color, html.EscapeString(label)))
}

// prettyID turns "red_bull_ring" into "Red Bull Ring".
func prettyID(id string) string {
	words := strings.Fields(strings.ReplaceAll(id, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
