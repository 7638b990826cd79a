package domain

import (
	"errors"
	"strings"
)

// Tier selects how strong the computer opponent plays.
type Tier uint8

const (
	Easy Tier = iota
	Medium
	Hard
)

// Tiers lists every tier in display order.
var Tiers = []Tier{Easy, Medium, Hard}

var ErrUnknownTier = errors.New("unknown difficulty")

func (t Tier) String() string {
	switch t {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return "Unknown"
	}
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool { return t <= Hard }

// ParseTier accepts a tier name in any case.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Easy, ErrUnknownTier
}

// MarshalText encodes the tier by name so it can key JSON objects.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, ErrUnknownTier
	}
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
