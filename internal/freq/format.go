package freq

import "fmt"

// Placeholder is shown instead of a value for an unavailable core
const Placeholder = "N/D"

// Format renders a positive MHz value as "x.xx GHz" from 1000 MHz up, "x MHz" below
func Format(mhz float64) string {
	if mhz >= 1000 {
		return fmt.Sprintf("%.2f GHz", mhz/1000)
	}
	return fmt.Sprintf("%.0f MHz", mhz)
}
