package matching

import (
	"math/rand"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/placement-advisor/internal/catalog"
	"github.com/spigell/placement-advisor/internal/filtering"
	"github.com/spigell/placement-advisor/internal/profile"
)

func strongStudent() profile.Student {
	return profile.Student{
		CGPA:            9.5,
		TenthMarks:      90,
		TwelfthMarks:    90,
		Skills:          []string{"Python", "Java", "SQL"},
		Internships:     true,
		Projects:        true,
		Training:        true,
		TechnicalCourse: true,
	}
}

func cloudCompany() catalog.Company {
	return catalog.Company{
		Name:            "Cloudy",
		MinCGPA:         8.0,
		MinTenth:        80,
		MinTwelfth:      80,
		SkillsRequired:  []string{"Python", "Java", "SQL", "AWS"},
		PackageCategory: catalog.Premium,
	}
}

func TestScoreStrongStudent(t *testing.T) {
	t.Parallel()

	components := Breakdown(strongStudent(), cloudCompany())
	want := Components{CGPA: 35, Tenth: 10, Twelfth: 10, Skills: 30, Experience: 10}
	if components != want {
		t.Fatalf("expected %+v, got %+v", want, components)
	}

	if got := Score(strongStudent(), cloudCompany()); got != 95 {
		t.Fatalf("expected score 95, got %v", got)
	}
}

func TestScoreComponents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cgpa    float64
		minimum float64
		want    float64
	}{
		{name: "bonus", cgpa: 9.0, minimum: 8.0, want: 35},
		{name: "meets", cgpa: 8.2, minimum: 8.0, want: 30},
		{name: "near miss", cgpa: 7.5, minimum: 8.0, want: 15},
		{name: "below", cgpa: 7.4, minimum: 8.0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := cgpaPoints(tt.cgpa, tt.minimum); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if got := marksPoints(76, 80); got != marksPartial {
		t.Fatalf("expected partial marks credit, got %v", got)
	}
	if got := marksPoints(74.9, 80); got != 0 {
		t.Fatalf("expected no marks credit, got %v", got)
	}
}

func TestScoreWithoutRequiredSkills(t *testing.T) {
	t.Parallel()

	company := cloudCompany()
	company.SkillsRequired = nil

	for _, skills := range [][]string{nil, {"Python"}, {"Go", "Rust", "Haskell"}} {
		student := strongStudent()
		student.Skills = skills
		if got := Breakdown(student, company).Skills; got != skillsNeutral {
			t.Fatalf("expected neutral skill credit for %v, got %v", skills, got)
		}
	}
}

func TestSkillMatchingIsSymmetricSubstring(t *testing.T) {
	t.Parallel()

	got := matchedSkills([]string{"machine learning", "  ", "JS"}, []string{"Machine Learning Ops", "Node.js", "Go"})
	if len(got) != 2 || got[0] != "machine learning ops" || got[1] != "node.js" {
		t.Fatalf("unexpected matched skills: %v", got)
	}
}

func TestScoreBoundsOnRandomInputs(t *testing.T) {
	t.Parallel()

	pool := []string{"Python", "Java", "SQL", "AWS", "React", "Go", "C++", "Docker"}
	rnd := rand.New(rand.NewSource(42))

	pick := func() []string {
		var out []string
		for _, skill := range pool {
			if rnd.Intn(2) == 0 {
				out = append(out, skill)
			}
		}
		return out
	}

	for i := 0; i < 500; i++ {
		student := profile.Student{
			CGPA:            rnd.Float64() * 10,
			TenthMarks:      rnd.Float64() * 100,
			TwelfthMarks:    rnd.Float64() * 100,
			Skills:          pick(),
			Internships:     rnd.Intn(2) == 0,
			Projects:        rnd.Intn(2) == 0,
			Training:        rnd.Intn(2) == 0,
			TechnicalCourse: rnd.Intn(2) == 0,
		}
		company := catalog.Company{
			MinCGPA:        rnd.Float64() * 10,
			MinTenth:       rnd.Float64() * 100,
			MinTwelfth:     rnd.Float64() * 100,
			SkillsRequired: pick(),
		}

		score := Score(student, company)
		if score < 0 || score > MaxScore {
			t.Fatalf("score %v out of range for %+v against %+v", score, student, company)
		}

		better := student
		better.CGPA = min(student.CGPA+1, profile.MaxCGPA)
		if Score(better, company) < score {
			t.Fatalf("raising cgpa lowered the score for %+v", student)
		}
	}
}

func rankingCatalog() []catalog.Company {
	return []catalog.Company{
		{Name: "First", MinCGPA: 7, MinTenth: 60, MinTwelfth: 60, SkillsRequired: []string{"Python"}, PackageCategory: catalog.Basic},
		{Name: "Second", MinCGPA: 9.9, MinTenth: 99, MinTwelfth: 99, SkillsRequired: []string{"Rust"}, PackageCategory: catalog.Premium},
		{Name: "Third", MinCGPA: 7, MinTenth: 60, MinTwelfth: 60, SkillsRequired: []string{"Python"}, PackageCategory: catalog.Basic},
		{Name: "Fourth", MinCGPA: 8, MinTenth: 80, MinTwelfth: 80, SkillsRequired: []string{"Python", "AWS"}, PackageCategory: catalog.Standard},
	}
}

func TestRankOrdersByScoreAndKeepsTies(t *testing.T) {
	t.Parallel()

	results := Rank(rankingCatalog(), strongStudent(), "", 10)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	if results[0].Company != "First" || results[1].Company != "Third" {
		t.Fatalf("expected tied companies in catalog order, got %s, %s", results[0].Company, results[1].Company)
	}

	for i := 1; i < len(results); i++ {
		if results[i].MatchScore > results[i-1].MatchScore {
			t.Fatalf("results not sorted descending at %d: %v > %v", i, results[i].MatchScore, results[i-1].MatchScore)
		}
	}
}

func TestRankTruncatesAndFilters(t *testing.T) {
	t.Parallel()

	if got := Rank(rankingCatalog(), strongStudent(), "", 2); len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got := Rank(rankingCatalog(), strongStudent(), "", 0); len(got) != 0 {
		t.Fatalf("expected no results for zero limit, got %d", len(got))
	}

	basic := Rank(rankingCatalog(), strongStudent(), catalog.Basic, 10)
	if len(basic) != 2 {
		t.Fatalf("expected 2 basic results, got %d", len(basic))
	}

	placed := Rank(rankingCatalog(), strongStudent(), catalog.NotPlaced, 10)
	if placed == nil || len(placed) != 0 {
		t.Fatalf("expected an empty non-nil slice, got %v", placed)
	}
}

func TestNewResultAnnotatesSkills(t *testing.T) {
	t.Parallel()

	student := strongStudent()
	student.Skills = []string{"python", "node.JS"}
	company := cloudCompany()
	company.SkillsRequired = []string{"Python", "Node.js", "AWS"}

	result := NewResult(student, company)

	if len(result.SkillsMatched) != 2 || result.SkillsMatched[0] != "Python" || result.SkillsMatched[1] != "Node.Js" {
		t.Fatalf("unexpected matched skills: %v", result.SkillsMatched)
	}
	if len(result.SkillsGap) != 1 || result.SkillsGap[0] != "AWS" {
		t.Fatalf("unexpected skills gap: %v", result.SkillsGap)
	}
	if !result.MeetsCGPA {
		t.Fatalf("expected cgpa requirement to be met")
	}
	if result.Strength() != "strong" {
		t.Fatalf("expected strong strength for %v, got %s", result.MatchScore, result.Strength())
	}
}

func TestRankerRunsFilters(t *testing.T) {
	t.Parallel()

	c, err := catalog.New(rankingCatalog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	core, observed := observer.New(zapcore.DebugLevel)
	ranker := NewRanker(c, zap.New(core), filtering.NewExcludedCompanies([]string{"first"}, zap.New(core)))

	results, err := ranker.Rank(strongStudent(), catalog.Basic, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Company != "Third" {
		t.Fatalf("unexpected results: %+v", results)
	}

	entries := observed.FilterMessage("ranked companies").All()
	if len(entries) != 1 || entries[0].ContextMap()["returned"] != int64(1) {
		t.Fatalf("expected ranking to be logged once, got %d", len(entries))
	}

	if _, err := ranker.Rank(strongStudent(), "Elite", 5); err == nil {
		t.Fatalf("expected unknown category to fail")
	}
}

func TestRankerSkipsFiltersAndLogsStatus(t *testing.T) {
	t.Parallel()

	c, err := catalog.New(rankingCatalog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	core, observed := observer.New(zapcore.DebugLevel)
	ranker := NewRanker(c, zap.New(core), filtering.NewExcludedCompanies([]string{"first"}, nil))
	ranker.Skip("excluded_companies")

	results, err := ranker.Rank(strongStudent(), catalog.Basic, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 || results[0].Company != "First" || results[1].Company != "Third" {
		t.Fatalf("expected the skipped filter to keep First, got %+v", results)
	}

	statuses := observed.FilterMessage("filter status").All()
	if len(statuses) != 2 {
		t.Fatalf("expected a status per step, got %d", len(statuses))
	}

	category := statuses[0].ContextMap()
	if category["name"] != "category" || category["enabled"] != true {
		t.Fatalf("unexpected category status: %v", category)
	}

	excluded := statuses[1].ContextMap()
	if excluded["name"] != "excluded_companies" || excluded["enabled"] != false || excluded["reason"] != "skipped by config" {
		t.Fatalf("unexpected excluded companies status: %v", excluded)
	}
}
