package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/spigell/placement-advisor/internal/catalog"
	"github.com/spigell/placement-advisor/internal/filtering"
	"github.com/spigell/placement-advisor/internal/profile"
)

// Result is a scored company annotated with the student's skill coverage.
type Result struct {
	Company         string           `json:"company" yaml:"company"`
	Role            string           `json:"role" yaml:"role"`
	Location        string           `json:"location" yaml:"location"`
	Package         string           `json:"package" yaml:"package"`
	PackageCategory catalog.Category `json:"package_category" yaml:"package_category"`
	MatchScore      float64          `json:"match_score" yaml:"match_score"`
	Components      Components       `json:"components" yaml:"components"`
	SkillsRequired  []string         `json:"skills_required" yaml:"skills_required"`
	SkillsMatched   []string         `json:"skills_matched" yaml:"skills_matched"`
	SkillsGap       []string         `json:"skills_gap" yaml:"skills_gap"`
	CGPARequired    float64          `json:"cgpa_required" yaml:"cgpa_required"`
	MeetsCGPA       bool             `json:"meets_cgpa" yaml:"meets_cgpa"`
	Focus           string           `json:"focus" yaml:"focus"`
}

// Strength buckets a score for display.
func (r Result) Strength() string {
	switch {
	case r.MatchScore >= 80:
		return "strong"
	case r.MatchScore >= 60:
		return "good"
	default:
		return "fair"
	}
}

// NewResult scores one company and annotates matched and missing skills.
func NewResult(student profile.Student, company catalog.Company) Result {
	components := Breakdown(student, company)

	matched := matchedSkills(student.Skills, company.SkillsRequired)
	matchedSet := make(map[string]struct{}, len(matched))
	titled := make([]string, 0, len(matched))
	for _, skill := range matched {
		matchedSet[skill] = struct{}{}
		titled = append(titled, titleCase(skill))
	}

	gap := make([]string, 0, len(company.SkillsRequired))
	for _, skill := range company.SkillsRequired {
		if _, ok := matchedSet[normalizeSkill(skill)]; !ok {
			gap = append(gap, skill)
		}
	}

	return Result{
		Company:         company.Name,
		Role:            company.Role,
		Location:        company.Location,
		Package:         company.Package(),
		PackageCategory: company.PackageCategory,
		MatchScore:      round1(components.Total()),
		Components:      components,
		SkillsRequired:  append([]string(nil), company.SkillsRequired...),
		SkillsMatched:   titled,
		SkillsGap:       gap,
		CGPARequired:    company.MinCGPA,
		MeetsCGPA:       student.CGPA >= company.MinCGPA,
		Focus:           company.Focus,
	}
}

// Rank scores the companies of the given category (all companies when the category is empty),
// orders them by score keeping catalog order among ties, and returns at most topN results.
func Rank(companies []catalog.Company, student profile.Student, category catalog.Category, topN int) []Result {
	results := make([]Result, 0, len(companies))
	for _, company := range companies {
		if category != "" && company.PackageCategory != category {
			continue
		}
		results = append(results, NewResult(student, company))
	}

	return sortAndTruncate(results, topN)
}

func sortAndTruncate(results []Result, topN int) []Result {
	if topN <= 0 {
		return []Result{}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	if len(results) > topN {
		results = results[:topN]
	}
	return results
}

// Ranker ranks the companies of a catalog through the filtering pipeline.
type Ranker struct {
	catalog *catalog.Catalog
	extra   []filtering.Filter
	skip    []string
	logger  *zap.Logger
}

// NewRanker creates a ranker. The extra filters run after the category filter on every call.
func NewRanker(c *catalog.Catalog, logger *zap.Logger, extra ...filtering.Filter) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Ranker{
		catalog: c,
		extra:   extra,
		logger:  logger,
	}
}

// Skip disables the named filters on every following call.
func (r *Ranker) Skip(names ...string) {
	r.skip = append(r.skip, names...)
}

// Rank returns at most topN results for the student. An empty category ranks the whole catalog.
// A filter that leaves no companies yields an empty slice, not an error.
func (r *Ranker) Rank(student profile.Student, category catalog.Category, topN int) ([]Result, error) {
	if r.catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	steps := append([]filtering.Filter{filtering.NewCategory(category)}, r.extra...)
	for _, name := range r.skip {
		filtering.DisableByName(steps, name, "skipped by config")
	}

	f := filtering.New(steps, r.logger)
	for _, status := range filtering.Describe(f.Steps()) {
		r.logger.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	companies, err := f.Run(r.catalog.Companies())
	if err != nil {
		return nil, fmt.Errorf("filter companies: %w", err)
	}

	results := make([]Result, 0, len(companies))
	for _, company := range companies {
		results = append(results, NewResult(student, company))
	}

	results = sortAndTruncate(results, topN)

	r.logger.Debug("ranked companies",
		zap.String("category", category.String()),
		zap.Int("candidates", len(companies)),
		zap.Int("returned", len(results)),
	)

	return results, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// titleCase upper-cases the first letter of every run of letters and lower-cases the rest,
// so "node.js" becomes "Node.Js" and "machine learning" becomes "Machine Learning".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}

	return b.String()
}
