package convert

import (
	"math"
	"strconv"
	"time"
)

const (
	mpsToKmh     = 3.6
	metersInKm   = 1000
	minutesInDay = 24 * 60
)

// ToKmh returns the given speed in m/s to km/h
func ToKmh(mps float64) float64 {
	return mps * mpsToKmh
}

// ToKm returns the given distance in meters to kilometers
func ToKm(meters float64) float64 {
	return meters / metersInKm
}

// Round rounds the value half away from zero to the given number of decimals
func Round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

// ToHoursMin splits a duration into hours and minutes, ignoring seconds.
// Negative durations are reported as zero.
func ToHoursMin(d time.Duration) (int, int) {
	if d < 0 {
		return 0, 0
	}
	minutes := int(d / time.Minute)
	return minutes / 60, minutes % 60
}

// ToDaysHoursMin splits a duration into days, hours and minutes
func ToDaysHoursMin(d time.Duration) (int, int, int) {
	h, m := ToHoursMin(d)
	minutes := h*60 + m
	return minutes / minutesInDay, (minutes % minutesInDay) / 60, m
}

// Ftoan formats a float as a rounded integer string
func Ftoan(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}
