// Package lookup holds the static reference tables used for presentation.
// The tables are built once at package init and never modified.
package lookup

const (
	defaultFlag      = "🏁"
	defaultTeamColor = "#666"
	// shown when a country has no flag image
	defaultFlagURL = "https://via.placeholder.com/320x200/e8e8e8/999999?text=%F0%9F%8F%81"
)

var driverFlags = map[string]string{
	"Dutch":         "🇳🇱",
	"Monégasque":    "🇲🇨",
	"Monaco":        "🇲🇨",
	"British":       "🇬🇧",
	"Spanish":       "🇪🇸",
	"Mexican":       "🇲🇽",
	"German":        "🇩🇪",
	"French":        "🇫🇷",
	"Canadian":      "🇨🇦",
	"Australian":    "🇦🇺",
	"Japanese":      "🇯🇵",
	"Finnish":       "🇫🇮",
	"Danish":        "🇩🇰",
	"Thai":          "🇹🇭",
	"Chinese":       "🇨🇳",
	"American":      "🇺🇸",
	"New Zealander": "🇳🇿",
	"Argentine":     "🇦🇷",
	"Italian":       "🇮🇹",
	"Belgian":       "🇧🇪",
	"Austrian":      "🇦🇹",
	"Swiss":         "🇨🇭",
	"Brazilian":     "🇧🇷",
	"Russian":       "🇷🇺",
	"Polish":        "🇵🇱",
	"South African": "🇿🇦",
	"Norwegian":     "🇳🇴",
	"Swedish":       "🇸🇪",
	"Portuguese":    "🇵🇹",
	"Hungarian":     "🇭🇺",
	"Czech":         "🇨🇿",
	"Colombian":     "🇨🇴",
	"Venezuelan":    "🇻🇪",
	"Uruguayan":     "🇺🇾",
	"Chilean":       "🇨🇱",
	"Indian":        "🇮🇳",
	"Malaysian":     "🇲🇾",
	"Indonesian":    "🇮🇩",
}

var teamColors = map[string]string{
	"red_bull":     "#1E41FF",
	"ferrari":      "#DC143C",
	"mercedes":     "#00D2BE",
	"mclaren":      "#FF8700",
	"alpine":       "#0090FF",
	"aston_martin": "#006F62",
	"williams":     "#005AFF",
	"alphatauri":   "#2B4562",
	"alfa":         "#900000",
	"haas":         "#FFFFFF",
	"kick_sauber":  "#52C41A",
	"racing_point": "#F596C8",
	"renault":      "#FFF500",
	"toro_rosso":   "#469BFF",
	"force_india":  "#F596C8",
	"sauber":       "#9B0000",
	"manor":        "#6E2C00",
	"lotus":        "#FFB800",
	"caterham":     "#005030",
	"marussia":     "#6E2C00",
}

var countryFlagURLs = map[string]string{
	"Netherlands":    "https://flagcdn.com/w320/nl.png",
	"Monaco":         "https://flagcdn.com/w320/mc.png",
	"United Kingdom": "https://flagcdn.com/w320/gb.png",
	"UK":             "https://flagcdn.com/w320/gb.png",
	"Spain":          "https://flagcdn.com/w320/es.png",
	"Mexico":         "https://flagcdn.com/w320/mx.png",
	"Germany":        "https://flagcdn.com/w320/de.png",
	"France":         "https://flagcdn.com/w320/fr.png",
	"Canada":         "https://flagcdn.com/w320/ca.png",
	"Australia":      "https://flagcdn.com/w320/au.png",
	"Japan":          "https://flagcdn.com/w320/jp.png",
	"Finland":        "https://flagcdn.com/w320/fi.png",
	"Denmark":        "https://flagcdn.com/w320/dk.png",
	"Thailand":       "https://flagcdn.com/w320/th.png",
	"China":          "https://flagcdn.com/w320/cn.png",
	"United States":  "https://flagcdn.com/w320/us.png",
	"USA":            "https://flagcdn.com/w320/us.png",
	"New Zealand":    "https://flagcdn.com/w320/nz.png",
	"Argentina":      "https://flagcdn.com/w320/ar.png",
	"Italy":          "https://flagcdn.com/w320/it.png",
	"Belgium":        "https://flagcdn.com/w320/be.png",
	"Austria":        "https://flagcdn.com/w320/at.png",
	"Switzerland":    "https://flagcdn.com/w320/ch.png",
	"Brazil":         "https://flagcdn.com/w320/br.png",
	"Russia":         "https://flagcdn.com/w320/ru.png",
	"Poland":         "https://flagcdn.com/w320/pl.png",
	"South Africa":   "https://flagcdn.com/w320/za.png",
	"Bahrain":        "https://flagcdn.com/w320/bh.png",
	"Saudi Arabia":   "https://flagcdn.com/w320/sa.png",
	"Azerbaijan":     "https://flagcdn.com/w320/az.png",
	"Singapore":      "https://flagcdn.com/w320/sg.png",
	"Hungary":        "https://flagcdn.com/w320/hu.png",
	"Qatar":          "https://flagcdn.com/w320/qa.png",
	"UAE":            "https://flagcdn.com/w320/ae.png",
}

// DriverFlag returns the flag emoji for a driver nationality. The lookup is
// case sensitive, unknown nationalities get a chequered flag.
func DriverFlag(nationality string) string {
	if flag, ok := driverFlags[nationality]; ok {
		return flag
	}
	return defaultFlag
}

// TeamColor returns the hex color of a constructor id.
func TeamColor(constructorID string) string {
	if color, ok := teamColors[constructorID]; ok {
		return color
	}
	return defaultTeamColor
}

func CountryFlagURL(country string) string {
	if u, ok := countryFlagURLs[country]; ok {
		return u
	}
	return defaultFlagURL
}
