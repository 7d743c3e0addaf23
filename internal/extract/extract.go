// Package extract derives a student profile from resume text.
//
// The text is parsed once into an nlp.Document. Every stage below is a pure function over that
// document and resolves missing data to a default instead of failing.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/placement-advisor/internal/logger"
	"github.com/spigell/placement-advisor/internal/nlp"
	"github.com/spigell/placement-advisor/internal/profile"
	"github.com/spigell/placement-advisor/internal/utils"
)

// ErrNoText is returned when there is nothing to extract from.
var ErrNoText = errors.New("no resume text")

const previewLength = 120

// Resume is the profile extracted from a resume plus the contact details found along the way.
type Resume struct {
	Profile       profile.Student `json:"profile" yaml:"profile"`
	Name          string          `json:"name" yaml:"name"`
	Email         string          `json:"email,omitempty" yaml:"email,omitempty"`
	Phone         string          `json:"phone,omitempty" yaml:"phone,omitempty"`
	Organizations []string        `json:"organizations,omitempty" yaml:"organizations,omitempty"`
	Locations     []string        `json:"locations,omitempty" yaml:"locations,omitempty"`
}

type Extractor struct {
	analyzer nlp.Analyzer
	logger   *zap.Logger
}

// New creates an extractor. A nil analyzer falls back to the prose pipeline.
func New(analyzer nlp.Analyzer, log *zap.Logger) *Extractor {
	log = logger.WithComponent(log, "extract")
	if analyzer == nil {
		analyzer = nlp.NewProseAnalyzer(log)
	}

	return &Extractor{analyzer: analyzer, logger: log}
}

// Extract parses the text once and runs every stage over the result.
func (e *Extractor) Extract(text string) (*Resume, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	e.logger.Debug("extracting resume", zap.String("preview", utils.TruncateForLog(text, previewLength)))

	doc, err := e.analyzer.Analyze(text)
	if err != nil {
		return nil, fmt.Errorf("parse resume: %w", err)
	}

	resume := FromDocument(doc)

	e.logger.Debug("resume extracted",
		zap.Float64("cgpa", resume.Profile.CGPA),
		zap.Float64("tenth", resume.Profile.TenthMarks),
		zap.Float64("twelfth", resume.Profile.TwelfthMarks),
		zap.Strings("skills", resume.Profile.Skills),
		zap.Int("communication", resume.Profile.CommunicationLevel),
		zap.Int("technical_score", resume.Profile.TechnicalSkillsScore),
	)

	return resume, nil
}

// FromDocument runs the stages over an already parsed document.
func FromDocument(doc *nlp.Document) *Resume {
	tenth, twelfth := Marks(doc)
	skills := Skills(doc)
	exp := Experience(doc)
	email, phone := Contact(doc)
	people := Entities(doc)

	return &Resume{
		Profile: profile.Student{
			CGPA:                 CGPA(doc),
			TenthMarks:           tenth,
			TwelfthMarks:         twelfth,
			Skills:               skills,
			Internships:          exp.Internships,
			Projects:             exp.Projects,
			Training:             exp.Training,
			TechnicalCourse:      exp.TechnicalCourse,
			CommunicationLevel:   Communication(doc),
			TechnicalSkillsScore: TechnicalScore(skills, doc),
		},
		Name:          people.Name,
		Email:         email,
		Phone:         phone,
		Organizations: people.Organizations,
		Locations:     people.Locations,
	}
}
