package assets

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

type DriverEntry struct {
	Code     string `yaml:"code"`     // official media code, e.g. "maxver01"
	Team     string `yaml:"team"`     // official media team slug, "fallback" for retired drivers
	Archival string `yaml:"archival"` // archival portrait URL
}

type CircuitEntry struct {
	Official string `yaml:"official"` // official map slug, e.g. "Great_Britain"
	Archival string `yaml:"archival"` // archival track map URL
}

type TeamEntry struct {
	Official string `yaml:"official"` // official logo slug
	Archival string `yaml:"archival"` // archival logo URL
	Label    string `yaml:"label"`
	Color    string `yaml:"color"`
}

// Catalog holds the curated identifier mappings for asset lookup. Keys are
// normalized on load; the catalog is read only once built.
type Catalog struct {
	Drivers           map[string]DriverEntry  `yaml:"drivers"`
	Circuits          map[string]CircuitEntry `yaml:"circuits"`
	CircuitNames      map[string]string       `yaml:"circuitNames"` // circuit name -> circuit id
	Teams             map[string]TeamEntry    `yaml:"teams"`
	TeamNames         map[string]string       `yaml:"teamNames"` // team name -> constructor id
	NationalityColors map[string]string       `yaml:"nationalityColors"`
}

// LoadCatalog returns the built-in catalog extended by the YAML file at
// path. Entries of the file replace built-in entries with the same key.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset catalog: %w", err)
	}
	c := DefaultCatalog()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse asset catalog %s: %w", path, err)
	}
	c.normalize()
	return c, nil
}

func (c *Catalog) driver(id, familyName string) (DriverEntry, bool) {
	return lookup(c.Drivers, id, familyName)
}

func (c *Catalog) circuit(id, name string) (CircuitEntry, bool) {
	if e, ok := lookup(c.Circuits, id); ok {
		return e, true
	}
	if mapped, ok := c.CircuitNames[normalizeKey(name)]; ok {
		return lookup(c.Circuits, mapped)
	}
	return CircuitEntry{}, false
}

func (c *Catalog) team(id, name string) (TeamEntry, bool) {
	if e, ok := lookup(c.Teams, id); ok {
		return e, true
	}
	if mapped, ok := c.TeamNames[normalizeKey(name)]; ok {
		return lookup(c.Teams, mapped)
	}
	return TeamEntry{}, false
}

func (c *Catalog) nationalityColor(nationality string) string {
	if color, ok := c.NationalityColors[normalizeKey(nationality)]; ok {
		return color
	}
	return DefaultAvatarColor
}

func lookup[V any](m map[string]V, keys ...string) (V, bool) {
	for _, k := range keys {
		if k = normalizeKey(k); k == "" {
			continue
		}
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

func (c *Catalog) normalize() {
	c.Drivers = normalizeKeys(c.Drivers)
	c.Circuits = normalizeKeys(c.Circuits)
	c.Teams = normalizeKeys(c.Teams)
	c.NationalityColors = normalizeKeys(c.NationalityColors)
	c.CircuitNames = normalizeNames(c.CircuitNames)
	c.TeamNames = normalizeNames(c.TeamNames)
}

// normalizeNames normalizes both sides of a name -> id mapping.
func normalizeNames(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[normalizeKey(k)] = normalizeKey(v)
	}
	return out
}

func normalizeKeys[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[normalizeKey(k)] = v
	}
	return out
}

// normalizeKey folds case and diacritics so "Hülkenberg" matches
// "hulkenberg".
func normalizeKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// DefaultCatalog returns a fresh copy of the built-in catalog.
func DefaultCatalog() *Catalog {
	c := &Catalog{
		Drivers: map[string]DriverEntry{
			"verstappen": {Code: "maxver01", Team: "redbull", Archival: wikimedia("7/75/Max_Verstappen_2017_Malaysia_3.jpg")},
			"perez":      {Code: "serper01", Team: "redbull", Archival: wikimedia("4/4d/Sergio_P%C3%A9rez_2019.jpg")},
			"leclerc":    {Code: "chalec01", Team: "ferrari", Archival: wikimedia("1/1b/Charles_Leclerc_2019.jpg")},
			"sainz":      {Code: "carsai01", Team: "williams"},
			"hamilton":   {Code: "lewham01", Team: "ferrari", Archival: wikimedia("1/18/Lewis_Hamilton_2016_Malaysia_2.jpg")},
			"russell":    {Code: "georus01", Team: "mercedes"},
			"norris":     {Code: "lannor01", Team: "mclaren", Archival: wikimedia("0/0b/Lando_Norris_2019.jpg")},
			"piastri":    {Code: "oscpia01", Team: "mclaren"},
			"alonso":     {Code: "feralo01", Team: "astonmartin", Archival: wikimedia("a/a5/Fernando_Alonso_2016_Malaysia_2.jpg")},
			"stroll":     {Code: "lanstr01", Team: "astonmartin"},
			"gasly":      {Code: "piegas01", Team: "alpine"},
			"ocon":       {Code: "estoco01", Team: "alpine"},
			"albon":      {Code: "alealb01", Team: "williams"},
			"colapinto":  {Code: "fracol01", Team: "williams"},
			"tsunoda":    {Code: "yuktsu01", Team: "rb"},
			"lawson":     {Code: "lialaw01", Team: "rb"},
			"bottas":     {Code: "valbot01", Team: "kicksauber"},
			"zhou":       {Code: "guazho01", Team: "kicksauber"},
			"magnussen":  {Code: "kevmag01", Team: "haas"},
			"hulkenberg": {Code: "nichul01", Team: "haas"},
			"bearman":    {Code: "olibea01", Team: "haas"},
			"antonelli":  {Code: "kimant01", Team: "mercedes"},
			"ricciardo":  {Code: "danric01", Team: "fallback"},
			"sargeant":   {Code: "logsar01", Team: "fallback"},
			"vettel":     {Code: "sebvet01", Team: "fallback", Archival: wikimedia("0/0b/Sebastian_Vettel_2015_Malaysia_podium_1.jpg")},
			"raikkonen":  {Code: "kimrai01", Team: "fallback", Archival: wikimedia("8/8d/Kimi_R%C3%A4ikk%C3%B6nen_2017_Malaysia.jpg")},
			"schumacher": {Code: "micsch02", Team: "fallback"},
			"senna":      {Archival: wikimedia("6/6f/Ayrton_Senna_8.jpg")},
			"prost":      {Archival: wikimedia("5/5e/Alain_Prost_1983.jpg")},
			"fangio":     {Archival: wikimedia("8/86/Juan_Manuel_Fangio_1952.jpg")},
		},
		Circuits: map[string]CircuitEntry{
			"monaco":         {Official: "Monaco", Archival: trackMap("3/36/Monte_Carlo_Formula_1_track_map.svg")},
			"silverstone":    {Official: "Great_Britain", Archival: trackMap("b/bd/Silverstone_Circuit_2020.svg")},
			"monza":          {Official: "Italy", Archival: trackMap("f/f8/Monza_track_map.svg")},
			"spa":            {Official: "Belgium", Archival: trackMap("5/54/Spa-Francorchamps_of_Belgium.svg")},
			"suzuka":         {Official: "Japan", Archival: trackMap("1/10/Suzuka_circuit_map--Sting.svg")},
			"interlagos":     {Official: "Brazil", Archival: trackMap("f/fe/Aut%C3%B3dromo_Jos%C3%A9_Carlos_Pace_%28AKA_Interlagos%29_track_map.svg")},
			"albert_park":    {Official: "Australia", Archival: trackMap("d/dc/Albert_Park_Circuit_track_map.svg")},
			"bahrain":        {Official: "Bahrain", Archival: trackMap("2/29/Bahrain_International_Circuit--Grand_Prix_Layout.svg")},
			"catalunya":      {Official: "Spain", Archival: trackMap("9/9c/Catalunya.svg")},
			"red_bull_ring":  {Official: "Austria", Archival: trackMap("b/b2/A1-Ring_track_map.svg")},
			"hungaroring":    {Official: "Hungary", Archival: trackMap("9/91/Hungaroring.svg")},
			"zandvoort":      {Official: "Netherlands", Archival: trackMap("a/a2/Zandvoort.svg")},
			"baku":           {Official: "Baku", Archival: trackMap("f/f5/Baku_City_Circuit_track_map.svg")},
			"marina_bay":     {Official: "Singapore", Archival: trackMap("1/14/Singapore_Street_Circuit_track_map.svg")},
			"americas":       {Official: "USA", Archival: trackMap("a/a5/Austin_circuit.svg")},
			"rodriguez":      {Official: "Mexico", Archival: trackMap("3/36/Aut%C3%B3dromo_Hermanos_Rodr%C3%ADguez_2015.svg")},
			"yas_marina":     {Official: "Abu_Dhabi", Archival: trackMap("c/cb/Yas_Marina_Circuit.svg")},
			"jeddah":         {Official: "Saudi_Arabia", Archival: trackMap("7/78/Jeddah_Corniche_Circuit_track_map.svg")},
			"imola":          {Official: "Emilia_Romagna", Archival: trackMap("c/c0/Imola.svg")},
			"miami":          {Official: "Miami", Archival: trackMap("c/c9/Miami_International_Autodrome_track_map.svg")},
			"vegas":          {Official: "Las_Vegas", Archival: trackMap("c/c4/Las_Vegas_Strip_Circuit_track_map.svg")},
			"losail":         {Official: "Qatar"},
			"shanghai":       {Official: "China"},
			"villeneuve":     {Official: "Canada", Archival: trackMap("4/45/Circuit_Gilles_Villeneuve.svg")},
			"ricard":         {Archival: trackMap("f/f6/Paul_Ricard_Circuit.svg")},
			"nurburgring":    {Archival: trackMap("5/53/N%C3%BCrburgring_GP-Strecke.svg")},
			"hockenheimring": {Archival: trackMap("9/91/Hockenheimring.svg")},
		},
		CircuitNames: map[string]string{
			"Circuit de Monaco":              "monaco",
			"Silverstone Circuit":            "silverstone",
			"Autodromo Nazionale di Monza":   "monza",
			"Circuit de Spa-Francorchamps":   "spa",
			"Suzuka Circuit":                 "suzuka",
			"Autódromo José Carlos Pace":     "interlagos",
			"Albert Park Grand Prix Circuit": "albert_park",
			"Bahrain International Circuit":  "bahrain",
			"Circuit de Barcelona-Catalunya": "catalunya",
			"Red Bull Ring":                  "red_bull_ring",
			"Hungaroring":                    "hungaroring",
			"Circuit Park Zandvoort":         "zandvoort",
			"Baku City Circuit":              "baku",
			"Marina Bay Street Circuit":      "marina_bay",
			"Circuit of the Americas":        "americas",
			"Autódromo Hermanos Rodríguez":   "rodriguez",
			"Yas Marina Circuit":             "yas_marina",
			"Jeddah Corniche Circuit":        "jeddah",
			"Autodromo Enzo e Dino Ferrari":  "imola",
			"Miami International Autodrome":  "miami",
			"Las Vegas Strip Street Circuit": "vegas",
			"Losail International Circuit":   "losail",
			"Shanghai International Circuit": "shanghai",
			"Circuit Gilles Villeneuve":      "villeneuve",
		},
		Teams: map[string]TeamEntry{
			"red_bull":     {Official: "redbullracing", Label: "RED BULL", Color: "#3671C6"},
			"ferrari":      {Official: "ferrari", Label: "FERRARI", Color: "#F91536"},
			"mercedes":     {Official: "mercedes", Label: "MERCEDES", Color: "#6CD3BF"},
			"mclaren":      {Official: "mclaren", Label: "MCLAREN", Color: "#FF8000"},
			"alpine":       {Official: "alpine", Label: "ALPINE", Color: "#2293D1"},
			"aston_martin": {Official: "astonmartin", Label: "ASTON MARTIN", Color: "#358C75"},
			"williams":     {Official: "williams", Label: "WILLIAMS", Color: "#37003C"},
			"rb":           {Official: "racingbulls", Label: "RB", Color: "#6692FF"},
			"sauber":       {Official: "kicksauber", Label: "SAUBER", Color: "#52E252"},
			"haas":         {Official: "haas", Label: "HAAS", Color: "#B6BABD"},
			"alphatauri":   {Label: "ALPHATAURI", Color: "#5E8FAA"},
			"alfa":         {Label: "ALFA ROMEO", Color: "#C92D4B"},
			"force_india":  {Label: "FORCE INDIA", Color: "#FF80C7"},
			"racing_point": {Label: "RACING POINT", Color: "#FF80C7"},
			"renault":      {Label: "RENAULT", Color: "#FDF503"},
			"lotus_f1":     {Label: "LOTUS", Color: "#FFB800"},
			"toro_rosso":   {Label: "TORO ROSSO", Color: "#469BFF"},
			"manor":        {Label: "MANOR", Color: "#6E0000"},
			"caterham":     {Label: "CATERHAM", Color: "#0B5345"},
			"brabham":      {Archival: logo("2/2c/Brabham_logo.svg"), Label: "BRABHAM", Color: "#1E5631"},
			"tyrrell":      {Archival: logo("0/0e/Tyrrell_Racing_logo.svg"), Label: "TYRRELL", Color: "#00205B"},
		},
		TeamNames: map[string]string{
			"Red Bull":        "red_bull",
			"Red Bull Racing": "red_bull",
			"Ferrari":         "ferrari",
			"Mercedes":        "mercedes",
			"McLaren":         "mclaren",
			"Alpine F1 Team":  "alpine",
			"Aston Martin":    "aston_martin",
			"Williams":        "williams",
			"RB F1 Team":      "rb",
			"Racing Bulls":    "rb",
			"Sauber":          "sauber",
			"Kick Sauber":     "sauber",
			"Haas F1 Team":    "haas",
			"AlphaTauri":      "alphatauri",
			"Alfa Romeo":      "alfa",
			"Force India":     "force_india",
			"Racing Point":    "racing_point",
			"Renault":         "renault",
			"Lotus F1":        "lotus_f1",
			"Toro Rosso":      "toro_rosso",
			"Manor Marussia":  "manor",
			"Caterham":        "caterham",
			"Brabham":         "brabham",
			"Tyrrell":         "tyrrell",
		},
		NationalityColors: map[string]string{
			"British":       "#E63946",
			"Dutch":         "#FF6B35",
			"German":        "#2D3436",
			"Spanish":       "#F4A261",
			"Monegasque":    "#D62828",
			"Australian":    "#2A9D8F",
			"Finnish":       "#457B9D",
			"French":        "#1D3557",
			"Mexican":       "#06A77D",
			"Canadian":      "#C1121F",
			"Japanese":      "#BC002D",
			"Thai":          "#264653",
			"Danish":        "#9B2226",
			"Chinese":       "#DE2910",
			"American":      "#3C3B6E",
			"Italian":       "#009246",
			"Brazilian":     "#009C3B",
			"New Zealander": "#00247D",
			"Argentine":     "#74ACDF",
			"Belgian":       "#FDDA24",
		},
	}
	c.normalize()
	return c
}

func wikimedia(file string) string {
	name := file[strings.LastIndex(file, "/")+1:]
	return "https://upload.wikimedia.org/wikipedia/commons/thumb/" + file + "/440px-" + name
}

func trackMap(file string) string {
	name := file[strings.LastIndex(file, "/")+1:]
	return "https://upload.wikimedia.org/wikipedia/commons/thumb/" + file + "/400px-" + name + ".png"
}

func logo(file string) string {
	name := file[strings.LastIndex(file, "/")+1:]
	return "https://upload.wikimedia.org/wikipedia/commons/thumb/" + file + "/200px-" + name + ".png"
}
