// Package geocoder resolves Japanese addresses to coordinates through the
// Google Geocoding API.
package geocoder

// Provider response statuses.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

// routeType marks a street-segment match, too coarse to pin an incident on.
const routeType = "route"

// Response is the decoded body of a geocoding request.
type Response struct {
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message,omitempty"`
	Results      []Result `json:"results"`
}

// Result is a single candidate match returned by the provider.
type Result struct {
	FormattedAddress string    `json:"formatted_address,omitempty"`
	PartialMatch     bool      `json:"partial_match"`
	Types            []string  `json:"types"`
	Geometry         *Geometry `json:"geometry,omitempty"`
}

// Geometry wraps the location of a result.
type Geometry struct {
	Location *LatLng `json:"location,omitempty"`
}

// LatLng is a coordinate pair as encoded by the provider.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (r Result) hasType(t string) bool {
	for _, rt := range r.Types {
		if rt == t {
			return true
		}
	}
	return false
}

func (r Result) location() (*LatLng, bool) {
	if r.Geometry == nil || r.Geometry.Location == nil {
		return nil, false
	}
	return r.Geometry.Location, true
}
