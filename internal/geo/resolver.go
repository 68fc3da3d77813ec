package geo

import (
	"sort"
	"strings"

	"stayscout/pkg/logger"
)

// placeIDs maps a lower-cased location name to the provider's opaque area
// identifier. Static, read-only, loaded at process start.
var placeIDs = map[string]string{
	"san francisco": "ChIJIQBpAG2ahYAR_6128GcTUEo",
	"new york":      "ChIJOwg_06VPwokRYv534QaPC8g",
	"los angeles":   "ChIJE9on3F3HwoAR9AhGJW_fL-I",
	"miami":         "ChIJEcHIDqKw2YgRZU-t3XHylv8",
	"chicago":       "ChIJ7cv00DwsDogRAMDACa2m4K8",
	"boston":        "ChIJGzE9DS1l44kRoOhiASS_fHg",
	"seattle":       "ChIJVTPokywQkFQRmtVEaUZlJRA",
	"las vegas":     "ChIJ0X31pIK3voARo3mz1ebVzDo",
	"london":        "ChIJdd4hrwug2EcRmSrV3Vo6llI",
	"paris":         "ChIJD7fiBh9u5kcRYJSMaMOCCwQ",
	"barcelona":     "ChIJ5TCOcRaYpBIRCmZHTz37sEQ",
	"rome":          "ChIJu46S-ZZhLxMROG5lkwZ3D7k",
	"amsterdam":     "ChIJVXealLU_xkcRja_At0z9AGY",
	"berlin":        "ChIJAVkDPzdOqEcRcDteW0YgIQQ",
	"tokyo":         "ChIJ51cu8IcbXWARiRtXIothAS4",
	"singapore":     "ChIJdZOLiiMR2jERxPWrUs9peIg",
	"bangkok":       "ChIJ82ENKDJgHTERIEjiXbIAAQE",
	"seoul":         "ChIJzWXFYYuifDUR64Pq5LTtioU",
	"hong kong":     "ChIJD5gyo-3iAzQRfMnq27qzivA",
	"sydney":        "ChIJP3Sa8ziYEmsRUKgyFmh9AQM",
	"toronto":       "ChIJpTvG15DL1IkRd8S0KlBVNTI",
	"mexico city":   "ChIJB3UJ2yYAzoURQeheJnYQBlQ",
	"dubai":         "ChIJRcbZaklDXz4RYlEphFBu5r0",
	"lisbon":        "ChIJO_PkYRozGQ0R0DaQ5L3rAAQ",
}

// abbreviations resolves common short names through the main table.
var abbreviations = map[string]string{
	"nyc":   "new york",
	"ny":    "new york",
	"sf":    "san francisco",
	"la":    "los angeles",
	"vegas": "las vegas",
}

// DefaultAreaID is used when a location cannot be resolved.
const DefaultAreaID = "ChIJIQBpAG2ahYAR_6128GcTUEo"

// sortedNames fixes the iteration order for substring matching so repeated
// resolutions of the same input always pick the same entry.
var sortedNames = func() []string {
	names := make([]string, 0, len(placeIDs))
	for name := range placeIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve maps a location name to a provider area id. It never fails: an
// unknown location falls back to DefaultAreaID with a warning.
func (r *Resolver) Resolve(location string) string {
	name := strings.ToLower(strings.TrimSpace(location))
	if name == "" {
		return DefaultAreaID
	}

	if id, ok := placeIDs[name]; ok {
		return id
	}

	for _, candidate := range sortedNames {
		if strings.Contains(candidate, name) || strings.Contains(name, candidate) {
			return placeIDs[candidate]
		}
	}

	if full, ok := abbreviations[name]; ok {
		if id, ok := placeIDs[full]; ok {
			return id
		}
	}

	logger.GlobalLogger.Warnf("No place id for location %q, using default area", location)
	return DefaultAreaID
}

// SupportedLocations lists the resolvable location names, title-cased and
// sorted, for the public locations endpoint.
func (r *Resolver) SupportedLocations() []string {
	locations := make([]string, 0, len(sortedNames))
	for _, name := range sortedNames {
		locations = append(locations, titleCase(name))
	}
	return locations
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
