// Package models defines the domain types for the character catalog.
package models

import "strings"

// Character is a single record from the upstream character API. Fields are
// kept verbatim; nothing here is validated.
type Character struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	House    string `json:"house"`
	Patronus string `json:"patronus"`
	Image    string `json:"image"`
}

// FirstName returns the first whitespace-separated word of Name.
func (c Character) FirstName() string {
	first, _ := splitName(c.Name)
	return first
}

// LastName returns everything after the first word of Name.
func (c Character) LastName() string {
	_, last := splitName(c.Name)
	return last
}

func splitName(name string) (string, string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}
