package services

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseNavigationURL(t *testing.T, raw string) url.Values {
	t.Helper()
	require.True(t, strings.HasPrefix(raw, "https://www.google.com/maps/dir/?"), raw)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}

func TestNavigationURL(t *testing.T) {
	t.Run("empty route", func(t *testing.T) {
		assert.Equal(t, "", NavigationURL(nil))
	})

	t.Run("driver start is left to the device", func(t *testing.T) {
		stops := []Stop{
			newDriverStartStop(Coordinates{Latitude: 37, Longitude: -122}),
			newPickupStop("s1", "Green Acres", "1 Farm Rd", 1, coordsS1),
			newDeliveryStop("X", "10 Pine St", coordsX),
		}
		q := parseNavigationURL(t, NavigationURL(stops))

		assert.Equal(t, "1", q.Get("api"))
		assert.False(t, q.Has("origin"))
		assert.Equal(t, coordsS1.String(), q.Get("waypoints"))
		assert.Equal(t, coordsX.String(), q.Get("destination"))
		assert.Equal(t, "driving", q.Get("travelmode"))
	})

	t.Run("pickup origin", func(t *testing.T) {
		stops := []Stop{
			newPickupStop("s1", "Green Acres", "1 Farm Rd", 1, coordsS1),
			newPickupStop("s2", "Sunny Orchard", "2 Orchard Ln", 1, coordsS2),
			newDeliveryStop("Y", "20 Oak St", coordsY),
			newDeliveryStop("X", "10 Pine St", coordsX),
		}
		q := parseNavigationURL(t, NavigationURL(stops))

		assert.Equal(t, coordsS1.String(), q.Get("origin"))
		assert.Equal(t, coordsS2.String()+"|"+coordsY.String(), q.Get("waypoints"))
		assert.Equal(t, coordsX.String(), q.Get("destination"))
	})

	t.Run("single stop", func(t *testing.T) {
		q := parseNavigationURL(t, NavigationURL([]Stop{newDeliveryStop("X", "10 Pine St", coordsX)}))

		assert.Equal(t, coordsX.String(), q.Get("origin"))
		assert.Equal(t, coordsX.String(), q.Get("destination"))
		assert.False(t, q.Has("waypoints"))
	})
}
