package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/noorweb/noorweb/internal/config"
)

// ErrUnknownCity is returned when a city name is not in the catalog.
var ErrUnknownCity = errors.New(config.ErrUnknownCity)

func city(name, country, cc, tz string) Location {
	return Location{Name: name, Country: country, CountryCode: cc, Timezone: tz}
}

// Catalog is the list of selectable cities.
var Catalog = []Location{
	city("Lahore", "Pakistan", "PK", "Asia/Karachi"),
	city("Karachi", "Pakistan", "PK", "Asia/Karachi"),
	city("Islamabad", "Pakistan", "PK", "Asia/Karachi"),
	city("Rawalpindi", "Pakistan", "PK", "Asia/Karachi"),
	city("Peshawar", "Pakistan", "PK", "Asia/Karachi"),
	city("Quetta", "Pakistan", "PK", "Asia/Karachi"),
	city("Multan", "Pakistan", "PK", "Asia/Karachi"),
	city("Faisalabad", "Pakistan", "PK", "Asia/Karachi"),
	city("Makkah", "Saudi Arabia", "SA", "Asia/Riyadh"),
	city("Madinah", "Saudi Arabia", "SA", "Asia/Riyadh"),
	city("Riyadh", "Saudi Arabia", "SA", "Asia/Riyadh"),
	city("Jeddah", "Saudi Arabia", "SA", "Asia/Riyadh"),
	city("Dubai", "UAE", "AE", "Asia/Dubai"),
	city("Abu Dhabi", "UAE", "AE", "Asia/Dubai"),
	city("Kuwait City", "Kuwait", "KW", "Asia/Kuwait"),
	city("Doha", "Qatar", "QA", "Asia/Qatar"),
	city("Muscat", "Oman", "OM", "Asia/Muscat"),
	city("Manama", "Bahrain", "BH", "Asia/Bahrain"),
	city("Amman", "Jordan", "JO", "Asia/Amman"),
	city("Baghdad", "Iraq", "IQ", "Asia/Baghdad"),
	city("Delhi", "India", "IN", "Asia/Kolkata"),
	city("Mumbai", "India", "IN", "Asia/Kolkata"),
	city("Hyderabad", "India", "IN", "Asia/Kolkata"),
	city("Dhaka", "Bangladesh", "BD", "Asia/Dhaka"),
	city("Istanbul", "Turkey", "TR", "Europe/Istanbul"),
	city("Cairo", "Egypt", "EG", "Africa/Cairo"),
	city("Casablanca", "Morocco", "MA", "Africa/Casablanca"),
	city("London", "United Kingdom", "GB", "Europe/London"),
	city("Birmingham", "United Kingdom", "GB", "Europe/London"),
	city("Manchester", "United Kingdom", "GB", "Europe/London"),
	city("Paris", "France", "FR", "Europe/Paris"),
	city("Berlin", "Germany", "DE", "Europe/Berlin"),
	city("Amsterdam", "Netherlands", "NL", "Europe/Amsterdam"),
	city("New York", "USA", "US", "America/New_York"),
	city("Chicago", "USA", "US", "America/Chicago"),
	city("Los Angeles", "USA", "US", "America/Los_Angeles"),
	city("Toronto", "Canada", "CA", "America/Toronto"),
	city("Vancouver", "Canada", "CA", "America/Vancouver"),
	city("Kuala Lumpur", "Malaysia", "MY", "Asia/Kuala_Lumpur"),
	city("Jakarta", "Indonesia", "ID", "Asia/Jakarta"),
	city("Singapore", "Singapore", "SG", "Asia/Singapore"),
	city("Lagos", "Nigeria", "NG", "Africa/Lagos"),
	city("Johannesburg", "South Africa", "ZA", "Africa/Johannesburg"),
	city("Sydney", "Australia", "AU", "Australia/Sydney"),
}

// RamadanCities are tracked by default on the Ramadan board.
var RamadanCities = []string{"Lahore", "Karachi", "Dubai", "London", "New York", "Toronto"}

// FindCity looks a city up by name, case-insensitively.
func FindCity(name string) (Location, error) {
	for _, c := range Catalog {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return c, nil
		}
	}
	return Location{}, fmt.Errorf("%w: %q", ErrUnknownCity, name)
}

// DefaultCity returns the catalog entry for config.DefaultCityName.
func DefaultCity() Location {
	c, _ := FindCity(config.DefaultCityName)
	return c
}

// CityNames returns every catalog name, sorted.
func CityNames() []string {
	names := make([]string, len(Catalog))
	for i, c := range Catalog {
		names[i] = c.Name
	}
	sort.Strings(names)
	return names
}

// CalculationPolicy maps country codes to a calculation method and a Hijri
// day adjustment.
type CalculationPolicy struct {
	Methods     map[string]int
	Adjustments map[string]int
}

// DefaultCalculationPolicy uses the built-in tables.
func DefaultCalculationPolicy() CalculationPolicy {
	return CalculationPolicy{
		Methods:     config.DefaultCalculationMethods,
		Adjustments: config.DefaultHijriAdjustments,
	}
}

// MethodFor returns the calculation method for loc. An explicit Method on
// the location wins over the table.
func (p CalculationPolicy) MethodFor(loc Location) int {
	if loc.Method > 0 {
		return loc.Method
	}
	if loc.CountryCode == "" {
		return config.MethodNoCountry
	}
	if m, ok := p.Methods[strings.ToUpper(loc.CountryCode)]; ok {
		return m
	}
	return config.MethodFallback
}

// AdjustmentFor returns the Hijri day offset for a country code.
func (p CalculationPolicy) AdjustmentFor(countryCode string) int {
	return p.Adjustments[strings.ToUpper(countryCode)]
}
