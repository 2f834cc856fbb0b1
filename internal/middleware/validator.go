package middleware

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/analysis"
)

// Input validation for query parameters

// ParseCoordinates validates lat/lng query values.
func ParseCoordinates(lat, lng string) (domain.Coordinates, error) {
	la, err := parseFloat("lat", lat)
	if err != nil {
		return domain.Coordinates{}, err
	}
	lo, err := parseFloat("lng", lng)
	if err != nil {
		return domain.Coordinates{}, err
	}
	if la < -90 || la > 90 {
		return domain.Coordinates{}, fmt.Errorf("lat out of range: %v (allowed: -90..90)", la)
	}
	if lo < -180 || lo > 180 {
		return domain.Coordinates{}, fmt.Errorf("lng out of range: %v (allowed: -180..180)", lo)
	}
	return domain.Coordinates{Latitude: la, Longitude: lo}, nil
}

func parseFloat(name, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %q", name, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a finite number", name)
	}
	return v, nil
}

// ValidatePage validates page number
func ValidatePage(raw string) int {
	page, _ := strconv.Atoi(raw)
	if page <= 0 {
		return 1
	}
	return page
}

// ValidateLimit validates pagination limit
func ValidateLimit(raw string) int {
	limit, _ := strconv.Atoi(raw)
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
