package domain

import "strings"

// CleanZipCode keeps only ASCII digits. It never fails: "01310-100" and
// "01310100" are the same code, and input without digits becomes "".
func CleanZipCode(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// MatchZone returns the first zone, in the given order, whose cleaned bounds
// contain zip. Bounds are compared as strings, so codes of different lengths
// compare lexicographically rather than numerically.
func MatchZone(zones []ShippingZone, zip string) *ShippingZone {
	for i := range zones {
		start := CleanZipCode(zones[i].ZipCodeStart)
		end := CleanZipCode(zones[i].ZipCodeEnd)
		if start <= zip && zip <= end {
			return &zones[i]
		}
	}
	return nil
}
