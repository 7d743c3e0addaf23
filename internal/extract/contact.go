package extract

import (
	"regexp"

	"github.com/spigell/placement-advisor/internal/nlp"
)

const (
	UnknownName = "Unknown"

	maxEntities = 3
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`[\+]?[(]?[0-9]{3}[)]?[-\s\.]?[0-9]{3}[-\s\.]?[0-9]{4,6}`)
)

// Contact returns the first e-mail address and phone number in the text, empty when absent.
func Contact(doc *nlp.Document) (email, phone string) {
	return emailPattern.FindString(doc.Text), phonePattern.FindString(doc.Text)
}

// People holds the named entities reported alongside the profile.
type People struct {
	Name          string
	Organizations []string
	Locations     []string
}

// Entities picks the first person as the candidate name and up to three organisations and places.
func Entities(doc *nlp.Document) People {
	people := People{
		Name:          UnknownName,
		Organizations: doc.EntitiesByLabel("ORG", maxEntities),
		Locations:     doc.EntitiesByLabel("GPE", maxEntities),
	}
	if names := doc.EntitiesByLabel("PERSON", 1); len(names) > 0 {
		people.Name = names[0]
	}
	return people
}
