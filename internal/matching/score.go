package matching

import (
	"math"
	"strings"

	"github.com/spigell/placement-advisor/internal/catalog"
	"github.com/spigell/placement-advisor/internal/profile"
)

const (
	MaxScore = 100.0

	cgpaFull    = 30.0
	cgpaBonus   = 5.0
	cgpaPartial = 15.0
	cgpaMargin  = 0.5

	marksFull    = 10.0
	marksPartial = 5.0
	marksMargin  = 5.0

	skillsWeight  = 40.0
	skillsNeutral = 20.0

	internshipPoints = 3.0
	projectPoints    = 3.0
	trainingPoints   = 2.0
	coursePoints     = 2.0
	experienceCap    = 10.0
)

// Components holds the per-factor points of a match score.
type Components struct {
	CGPA       float64 `json:"cgpa" yaml:"cgpa"`
	Tenth      float64 `json:"tenth" yaml:"tenth"`
	Twelfth    float64 `json:"twelfth" yaml:"twelfth"`
	Skills     float64 `json:"skills" yaml:"skills"`
	Experience float64 `json:"experience" yaml:"experience"`
}

// Total is the capped sum of the components. The CGPA bonus can push the raw sum to 105.
func (c Components) Total() float64 {
	return math.Min(c.CGPA+c.Tenth+c.Twelfth+c.Skills+c.Experience, MaxScore)
}

// Score returns how well the student fits the company on a 0-100 scale.
func Score(student profile.Student, company catalog.Company) float64 {
	return Breakdown(student, company).Total()
}

// Breakdown computes every factor of the score separately.
func Breakdown(student profile.Student, company catalog.Company) Components {
	return Components{
		CGPA:       cgpaPoints(student.CGPA, company.MinCGPA),
		Tenth:      marksPoints(student.TenthMarks, company.MinTenth),
		Twelfth:    marksPoints(student.TwelfthMarks, company.MinTwelfth),
		Skills:     skillPoints(student.Skills, company.SkillsRequired),
		Experience: experiencePoints(student),
	}
}

func cgpaPoints(cgpa, minimum float64) float64 {
	switch {
	case cgpa >= minimum+1:
		return cgpaFull + cgpaBonus
	case cgpa >= minimum:
		return cgpaFull
	case cgpa >= minimum-cgpaMargin:
		return cgpaPartial
	default:
		return 0
	}
}

func marksPoints(marks, minimum float64) float64 {
	switch {
	case marks >= minimum:
		return marksFull
	case marks >= minimum-marksMargin:
		return marksPartial
	default:
		return 0
	}
}

func skillPoints(studentSkills, required []string) float64 {
	if len(required) == 0 {
		return skillsNeutral
	}

	matched := len(matchedSkills(studentSkills, required))
	return float64(matched) / float64(len(required)) * skillsWeight
}

func experiencePoints(student profile.Student) float64 {
	points := 0.0
	if student.Internships {
		points += internshipPoints
	}
	if student.Projects {
		points += projectPoints
	}
	if student.Training {
		points += trainingPoints
	}
	if student.TechnicalCourse {
		points += coursePoints
	}
	return math.Min(points, experienceCap)
}

// matchedSkills returns the normalized required skills covered by any student skill.
// A required skill matches when either name contains the other, ignoring case.
func matchedSkills(studentSkills, required []string) []string {
	normalizedStudent := make([]string, 0, len(studentSkills))
	for _, skill := range studentSkills {
		// an empty name would be a substring of every requirement
		if skill = normalizeSkill(skill); skill != "" {
			normalizedStudent = append(normalizedStudent, skill)
		}
	}

	matched := make([]string, 0, len(required))
	for _, req := range required {
		req = normalizeSkill(req)
		for _, have := range normalizedStudent {
			if strings.Contains(have, req) || strings.Contains(req, have) {
				matched = append(matched, req)
				break
			}
		}
	}

	return matched
}

func normalizeSkill(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}
