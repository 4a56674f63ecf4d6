package util

import "math"

// Percentage returns part/total*100 rounded to two decimals. A zero total yields 0.
func Percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}

// RoundedPercent returns part/total*100 rounded to the nearest integer. A zero total yields 0.
func RoundedPercent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// TotalPages returns how many pages of pageSize are needed for count items.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 0
	}
	return int(math.Ceil(float64(count) / float64(pageSize)))
}
