package timezone

import (
	"fmt"
	"time"
)

const DefaultTimezone = "UTC"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Resolver отдает IANA-зону компании, а при пустой или неизвестной зоне - зону по умолчанию
type Resolver struct {
	fallback *time.Location
}

func NewResolver(defaultTZ string) (*Resolver, error) {
	if defaultTZ == "" {
		defaultTZ = DefaultTimezone
	}
	loc, err := time.LoadLocation(defaultTZ)
	if err != nil {
		return nil, fmt.Errorf("timezone: invalid default timezone %q: %v", defaultTZ, err)
	}
	return &Resolver{fallback: loc}, nil
}

func (r *Resolver) Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return r.fallback
}
