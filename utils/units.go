package utils

import (
	"fmt"
	"math"
)

// SiUnits formats number with an SI prefix, such as "1.25 K"
func SiUnits(number float64, decimals int) string {
	if number >= 1000000000000 {
		return fmt.Sprintf("%.*f T", decimals, number/1000000000000)
	} else if number >= 1000000000 {
		return fmt.Sprintf("%.*f G", decimals, number/1000000000)
	} else if number >= 1000000 {
		return fmt.Sprintf("%.*f M", decimals, number/1000000)
	} else if number >= 1000 {
		return fmt.Sprintf("%.*f K", decimals, number/1000)
	}

	return fmt.Sprintf("%.*f ", decimals, number)
}

// HashrateUnits formats a hashrate as SI units with H/s suffix, or "n/a" when it is NaN
func HashrateUnits(hashrate float64) string {
	if math.IsNaN(hashrate) {
		return "n/a"
	}
	return SiUnits(hashrate, 2) + "H/s"
}
