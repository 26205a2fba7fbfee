// File path: internal/transform/continents.go
package transform

import "strings"

// countryContinent backs the derived continent column on locations. The
// table covers the countries that dominate the registry; anything else maps
// to "" and stays NULL in the store.
var countryContinent = map[string]string{
	"united states":        "North America",
	"canada":               "North America",
	"mexico":               "North America",
	"guatemala":            "North America",
	"costa rica":           "North America",
	"panama":               "North America",
	"cuba":                 "North America",
	"dominican republic":   "North America",
	"puerto rico":          "North America",
	"brazil":               "South America",
	"argentina":            "South America",
	"chile":                "South America",
	"colombia":             "South America",
	"peru":                 "South America",
	"venezuela":            "South America",
	"ecuador":              "South America",
	"uruguay":              "South America",
	"united kingdom":       "Europe",
	"france":               "Europe",
	"germany":              "Europe",
	"italy":                "Europe",
	"spain":                "Europe",
	"netherlands":          "Europe",
	"belgium":              "Europe",
	"switzerland":          "Europe",
	"austria":              "Europe",
	"sweden":               "Europe",
	"norway":               "Europe",
	"denmark":              "Europe",
	"finland":              "Europe",
	"poland":               "Europe",
	"czechia":              "Europe",
	"czech republic":       "Europe",
	"hungary":              "Europe",
	"romania":              "Europe",
	"bulgaria":             "Europe",
	"greece":               "Europe",
	"portugal":             "Europe",
	"ireland":              "Europe",
	"ukraine":              "Europe",
	"serbia":               "Europe",
	"croatia":              "Europe",
	"slovakia":             "Europe",
	"slovenia":             "Europe",
	"estonia":              "Europe",
	"latvia":               "Europe",
	"lithuania":            "Europe",
	"russian federation":   "Europe",
	"russia":               "Europe",
	"china":                "Asia",
	"japan":                "Asia",
	"korea, republic of":   "Asia",
	"south korea":          "Asia",
	"taiwan":               "Asia",
	"india":                "Asia",
	"israel":               "Asia",
	"turkey":               "Asia",
	"thailand":             "Asia",
	"singapore":            "Asia",
	"malaysia":             "Asia",
	"indonesia":            "Asia",
	"philippines":          "Asia",
	"viet nam":             "Asia",
	"vietnam":              "Asia",
	"hong kong":            "Asia",
	"pakistan":             "Asia",
	"bangladesh":           "Asia",
	"saudi arabia":         "Asia",
	"united arab emirates": "Asia",
	"iran":                 "Asia",
	"jordan":               "Asia",
	"lebanon":              "Asia",
	"egypt":                "Africa",
	"south africa":         "Africa",
	"nigeria":              "Africa",
	"kenya":                "Africa",
	"uganda":               "Africa",
	"tanzania":             "Africa",
	"ghana":                "Africa",
	"morocco":              "Africa",
	"tunisia":              "Africa",
	"ethiopia":             "Africa",
	"zambia":               "Africa",
	"zimbabwe":             "Africa",
	"malawi":               "Africa",
	"australia":            "Oceania",
	"new zealand":          "Oceania",
}

// ContinentForCountry derives the continent for a registry country label.
// Matching is case-insensitive on the trimmed label; unknown countries
// return "".
func ContinentForCountry(country string) string {
	key := strings.ToLower(strings.TrimSpace(country))
	if key == "" {
		return ""
	}
	return countryContinent[key]
}
