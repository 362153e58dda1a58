package services

import (
	"net/url"
	"strings"
)

const googleMapsDirURL = "https://www.google.com/maps/dir/"

// NavigationURL builds a Google Maps deep link that hands the ordered stops
// to the device's navigation app. Returns "" for an empty route.
func NavigationURL(stops []Stop) string {
	if len(stops) == 0 {
		return ""
	}

	origin := stops[0]
	destination := stops[len(stops)-1]

	params := url.Values{}
	params.Add("api", "1")
	if !origin.IsDriverStart() || len(stops) == 1 {
		params.Add("origin", origin.Coordinates.String())
	}
	params.Add("destination", destination.Coordinates.String())
	params.Add("travelmode", TravelModeDriving)

	if len(stops) > 2 {
		points := make([]string, 0, len(stops)-2)
		for _, s := range stops[1 : len(stops)-1] {
			points = append(points, s.Coordinates.String())
		}
		params.Add("waypoints", strings.Join(points, "|"))
	}

	return googleMapsDirURL + "?" + params.Encode()
}
