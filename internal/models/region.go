package models

import "strings"

// Regions is the catalogue of Greek administrative regions.
var Regions = []string{
	"Ανατολική Μακεδονία και Θράκη",
	"Κεντρική Μακεδονία",
	"Δυτική Μακεδονία",
	"Ήπειρος",
	"Θεσσαλία",
	"Ιόνιες Νήσοι",
	"Δυτική Ελλάδα",
	"Στερεά Ελλάδα",
	"Αττική",
	"Πελοπόννησος",
	"Βόρειο Αιγαίο",
	"Νότιο Αιγαίο",
	"Κρήτη",
}

// CanonicalRegion looks a region up case-insensitively and returns its
// catalogue spelling.
func CanonicalRegion(name string) (string, bool) {
	n := strings.TrimSpace(name)
	for _, r := range Regions {
		if strings.EqualFold(r, n) {
			return r, true
		}
	}
	return "", false
}
