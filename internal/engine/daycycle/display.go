package daycycle

import (
	"fmt"
	"math"
)

// Format renders an hour value as zero-padded HH:MM.
// Minutes are floor(frac(v) * 60), so 9.999 shows as 09:59.
func Format(v float64) string {
	hours := int(math.Floor(v))
	minutes := int(math.Floor(math.Mod(v, 1) * 60))
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// String implements fmt.Stringer as the HH:MM display.
func (c *Clock) String() string {
	return Format(c.value)
}
