package services

import (
	"fmt"
	"math"
)

const metersToMiles = 0.000621371

// FormatDistance renders meters as miles with one decimal, e.g. "5.0 mi"
func FormatDistance(meters float64) string {
	return fmt.Sprintf("%.1f mi", meters*metersToMiles)
}

// FormatDuration renders seconds as "45 min" below an hour and "1h 30m" above
func FormatDuration(seconds int) string {
	minutes := int(math.Round(float64(seconds) / 60.0))
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
