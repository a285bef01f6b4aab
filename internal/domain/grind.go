package domain

import "strings"

// Grind is how a bag of coffee is prepared before shipping.
type Grind string

const (
	GrindWholeBeans Grind = "whole_beans"
	GrindFilter     Grind = "filter"
	GrindEspresso   Grind = "espresso"
)

var Grinds = []Grind{GrindWholeBeans, GrindFilter, GrindEspresso}

// ParseGrind trims and lowercases s and rejects anything outside Grinds.
func ParseGrind(s string) (Grind, error) {
	g := Grind(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", NewValidationError("grind", "unsupported grind option", s)
	}
	return g, nil
}

func (g Grind) Valid() bool {
	switch g {
	case GrindWholeBeans, GrindFilter, GrindEspresso:
		return true
	}
	return false
}

// OrDefault maps a missing or unknown grind to whole beans. Carts written
// before grind selection existed carry no grind at all.
func (g Grind) OrDefault() Grind {
	if parsed, err := ParseGrind(string(g)); err == nil {
		return parsed
	}
	return GrindWholeBeans
}

func (g Grind) Label() string {
	switch g.OrDefault() {
	case GrindFilter:
		return "Filter"
	case GrindEspresso:
		return "Espresso"
	default:
		return "Whole beans"
	}
}
