// Package advisor suggests what a student should learn to close the skill gaps of their best matches.
package advisor

import (
	"context"
	"sort"
	"strings"

	"github.com/spigell/placement-advisor/internal/matching"
	"github.com/spigell/placement-advisor/internal/profile"
)

// Priority is one skill worth learning next.
type Priority struct {
	Skill     string   `json:"skill" yaml:"skill"`
	Reason    string   `json:"reason" yaml:"reason"`
	Resources []string `json:"resources,omitempty" yaml:"resources,omitempty"`
}

type Advice struct {
	Summary    string     `json:"summary" yaml:"summary"`
	Priorities []Priority `json:"priorities" yaml:"priorities"`
	Provider   string     `json:"provider" yaml:"provider"`
	Raw        string     `json:"-" yaml:"-"`
}

type Advisor interface {
	Advise(ctx context.Context, student profile.Student, matches []matching.Result) (*Advice, error)
}

// GapCount is how often a missing skill appears among the matches.
type GapCount struct {
	Skill     string   `json:"skill"`
	Companies []string `json:"companies"`
}

// Gaps aggregates the missing skills of the matches, most frequent first. Ties keep the order in
// which the skills were first seen.
func Gaps(matches []matching.Result) []GapCount {
	index := make(map[string]int)
	var gaps []GapCount

	for _, m := range matches {
		for _, skill := range m.SkillsGap {
			key := strings.ToLower(strings.TrimSpace(skill))
			if key == "" {
				continue
			}
			i, ok := index[key]
			if !ok {
				i = len(gaps)
				index[key] = i
				gaps = append(gaps, GapCount{Skill: skill})
			}
			gaps[i].Companies = append(gaps[i].Companies, m.Company)
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return len(gaps[i].Companies) > len(gaps[j].Companies)
	})
	return gaps
}

// Local builds advice from the skill gaps alone, without calling a model.
type Local struct {
	// Limit caps the number of priorities. Zero means three.
	Limit int
}

func (l Local) Advise(_ context.Context, _ profile.Student, matches []matching.Result) (*Advice, error) {
	limit := l.Limit
	if limit <= 0 {
		limit = 3
	}

	gaps := Gaps(matches)
	advice := &Advice{Provider: "local"}
	if len(gaps) == 0 {
		advice.Summary = "Your skills already cover every requirement of your top matches."
		return advice, nil
	}

	for _, gap := range gaps {
		if len(advice.Priorities) == limit {
			break
		}
		advice.Priorities = append(advice.Priorities, Priority{
			Skill:  gap.Skill,
			Reason: "required by " + strings.Join(gap.Companies, ", "),
		})
	}
	advice.Summary = "Learn the skills most often missing from your top matches first."
	return advice, nil
}
