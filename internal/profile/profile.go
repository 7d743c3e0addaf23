package profile

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MaxCGPA          = 10.0
	MaxMarks         = 100.0
	MinCommunication = 1
	MaxCommunication = 5
	MaxTechnical     = 100
)

// Student is the academic and skill profile consumed by the predictor and the matcher.
// A Student is treated as a value: build it once and pass copies around.
type Student struct {
	CGPA                 float64  `json:"cgpa" yaml:"cgpa" mapstructure:"cgpa"`
	TenthMarks           float64  `json:"tenth_marks" yaml:"tenth_marks" mapstructure:"tenth_marks"`
	TwelfthMarks         float64  `json:"twelfth_marks" yaml:"twelfth_marks" mapstructure:"twelfth_marks"`
	Skills               []string `json:"skills" yaml:"skills" mapstructure:"skills"`
	Internships          bool     `json:"internships" yaml:"internships" mapstructure:"internships"`
	Projects             bool     `json:"projects" yaml:"projects" mapstructure:"projects"`
	Training             bool     `json:"training" yaml:"training" mapstructure:"training"`
	TechnicalCourse      bool     `json:"technical_course" yaml:"technical_course" mapstructure:"technical_course"`
	CommunicationLevel   int      `json:"communication_level" yaml:"communication_level" mapstructure:"communication_level"`
	TechnicalSkillsScore int      `json:"technical_skills_score" yaml:"technical_skills_score" mapstructure:"technical_skills_score"`
}

// Default returns the values pre-filled for manual entry.
func Default() Student {
	return Student{
		CGPA:                 7.0,
		TenthMarks:           75.0,
		TwelfthMarks:         75.0,
		CommunicationLevel:   3,
		TechnicalSkillsScore: 40,
	}
}

// WithSkills returns a copy of the student holding the normalized skills.
func (s Student) WithSkills(skills []string) Student {
	s.Skills = NormalizeSkills(skills)
	return s
}

// Validate reports every out-of-range field. Scoring assumes a validated profile.
func (s Student) Validate() error {
	var errs []error

	if s.CGPA < 0 || s.CGPA > MaxCGPA {
		errs = append(errs, fmt.Errorf("cgpa %.2f is out of range [0, %.0f]", s.CGPA, MaxCGPA))
	}
	if s.TenthMarks < 0 || s.TenthMarks > MaxMarks {
		errs = append(errs, fmt.Errorf("10th marks %.2f are out of range [0, %.0f]", s.TenthMarks, MaxMarks))
	}
	if s.TwelfthMarks < 0 || s.TwelfthMarks > MaxMarks {
		errs = append(errs, fmt.Errorf("12th marks %.2f are out of range [0, %.0f]", s.TwelfthMarks, MaxMarks))
	}
	if s.CommunicationLevel < MinCommunication || s.CommunicationLevel > MaxCommunication {
		errs = append(errs, fmt.Errorf("communication level %d is out of range [%d, %d]", s.CommunicationLevel, MinCommunication, MaxCommunication))
	}
	if s.TechnicalSkillsScore < 0 || s.TechnicalSkillsScore > MaxTechnical {
		errs = append(errs, fmt.Errorf("technical skills score %d is out of range [0, %d]", s.TechnicalSkillsScore, MaxTechnical))
	}

	return errors.Join(errs...)
}

// NormalizeSkills trims the names, drops empty entries and removes
// case-insensitive duplicates keeping the first spelling.
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))

	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}

		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, skill)
	}

	return out
}
