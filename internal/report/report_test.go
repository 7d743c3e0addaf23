package report

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spigell/placement-advisor/internal/advisor"
	"github.com/spigell/placement-advisor/internal/catalog"
	"github.com/spigell/placement-advisor/internal/extract"
	"github.com/spigell/placement-advisor/internal/matching"
	"github.com/spigell/placement-advisor/internal/predict"
	"github.com/spigell/placement-advisor/internal/profile"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()

	student := profile.Default().WithSkills([]string{"Python", "SQL"})
	r := New(student)
	r.Source = "resume.pdf"
	r.Resume = &extract.Resume{Profile: student, Name: "Asha Rao", Email: "asha@example.com"}
	r.Prediction = &predict.Prediction{Category: catalog.Standard, Confidence: 0.64}
	r.Category = catalog.Standard
	r.Matches = []matching.Result{
		{
			Company:         "Acme",
			Role:            "Data Analyst",
			Location:        "Pune",
			Package:         "₹6-9 LPA",
			PackageCategory: catalog.Standard,
			MatchScore:      84.5,
			SkillsGap:       []string{"Tableau"},
			CGPARequired:    6.5,
			MeetsCGPA:       true,
		},
		{
			Company:         "Globex",
			Role:            "Backend Engineer",
			Location:        "Bengaluru",
			Package:         "₹8-12 LPA",
			PackageCategory: catalog.Standard,
			MatchScore:      55,
			CGPARequired:    7.5,
		},
	}
	r.Advice = &advisor.Advice{
		Summary:    "Focus on visualisation.",
		Provider:   "local",
		Priorities: []advisor.Priority{{Skill: "Tableau", Reason: "required by Acme", Resources: []string{"Tableau Public"}}},
	}
	return r
}

func TestNew(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	original := now
	now = func() time.Time { return fixed }
	defer func() { now = original }()

	r := New(profile.Default())

	if r.ID == "" {
		t.Fatalf("expected a report id")
	}
	if r.GeneratedAt.Location() != time.UTC || !r.GeneratedAt.Equal(fixed) {
		t.Fatalf("expected %v in UTC, got %v", fixed, r.GeneratedAt)
	}
	if r.Matches == nil {
		t.Fatalf("expected an empty, non-nil matches slice")
	}
	if r.ID == New(profile.Default()).ID {
		t.Fatalf("expected a fresh id per report")
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"":      Text,
		"TEXT":  Text,
		" json": JSON,
		"yml":   YAML,
		"yaml":  YAML,
	}
	for input, want := range tests {
		got, err := ParseFormat(input)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", input, err)
		}
		if got != want {
			t.Fatalf("%q: expected %s, got %s", input, want, got)
		}
	}

	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected xml to be rejected")
	}
}

func mustContain(t *testing.T, s string, wants ...string) {
	t.Helper()

	for _, want := range wants {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %q in:\n%s", want, s)
		}
	}
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(t), Text); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	mustContain(t, out,
		"Candidate: Asha Rao",
		"Predicted: Standard (64% confidence)",
		"Skills:    Python, SQL",
	)

	var rows []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "1 ") || strings.HasPrefix(line, "2 ") {
			rows = append(rows, line)
		}
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d:\n%s", len(rows), out)
	}
	mustContain(t, rows[0], "Acme", "strong", "Tableau")
	mustContain(t, rows[1], "7.5!", "fair")

	mustContain(t, out,
		"Advice (local): Focus on visualisation.",
		"1. Tableau: required by Acme",
		"- Tableau Public",
	)
}

func TestRenderTextWithoutMatches(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Render(&buf, New(profile.Default()), Text); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mustContain(t, buf.String(), "No matching companies.")
	if strings.Contains(buf.String(), "Candidate:") {
		t.Fatalf("expected no candidate line without a resume")
	}
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()

	r := sampleReport(t)
	var buf bytes.Buffer
	if err := Render(&buf, r, JSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded["id"] != r.ID || decoded["category"] != "Standard" {
		t.Fatalf("unexpected report header: id=%v category=%v", decoded["id"], decoded["category"])
	}

	matches, ok := decoded["matches"].([]any)
	if !ok || len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %v", decoded["matches"])
	}
	if company := matches[0].(map[string]any)["company"]; company != "Acme" {
		t.Fatalf("expected Acme first, got %v", company)
	}

	advice := decoded["advice"].(map[string]any)
	if _, ok := advice["Raw"]; ok {
		t.Fatalf("raw advisor output must not be serialized")
	}
}

func TestRenderYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(t), YAML); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		Source  string `yaml:"source"`
		Matches []struct {
			Company    string  `yaml:"company"`
			MatchScore float64 `yaml:"match_score"`
		} `yaml:"matches"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if decoded.Source != "resume.pdf" || len(decoded.Matches) != 2 {
		t.Fatalf("unexpected decoded report: %+v", decoded)
	}
	if math.Abs(decoded.Matches[0].MatchScore-84.5) > 1e-9 {
		t.Fatalf("expected score 84.5, got %v", decoded.Matches[0].MatchScore)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Render(&bytes.Buffer{}, New(profile.Default()), Format("xml")); err == nil {
		t.Fatalf("expected an unknown format error")
	}
}

func TestDumpToTmpFile(t *testing.T) {
	r := sampleReport(t)

	name, err := DumpToTmpFile(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { os.Remove(name) })

	if !strings.Contains(name, "placement_report_") {
		t.Fatalf("unexpected file name %q", name)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if decoded.ID != r.ID || len(decoded.Matches) != 2 {
		t.Fatalf("unexpected dumped report: id=%s matches=%d", decoded.ID, len(decoded.Matches))
	}
}

func TestRenderTextWithoutRanking(t *testing.T) {
	t.Parallel()

	r := New(profile.Default())
	r.Matches = nil

	var buf bytes.Buffer
	if err := Render(&buf, r, Text); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "No matching companies.") {
		t.Fatalf("expected no matches section for a run that never ranked")
	}
	mustContain(t, buf.String(), "Profile:   CGPA 7, 10th 75%, 12th 75%")
}

func TestRenderCompanies(t *testing.T) {
	t.Parallel()

	companies := []catalog.Company{
		{Name: "Acme", Role: "Analyst", Location: "Pune", MinCGPA: 6.5, PackageMin: 4, PackageMax: 6.5, PackageCategory: catalog.Basic, SkillsRequired: []string{"SQL", "Excel"}},
	}

	var buf bytes.Buffer
	if err := RenderCompanies(&buf, companies, Text); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mustContain(t, buf.String(), "COMPANY", "₹4-6.5 LPA", "SQL, Excel")

	buf.Reset()
	if err := RenderCompanies(&buf, companies, JSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded []catalog.Company
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if !reflect.DeepEqual(decoded, companies) {
		t.Fatalf("expected %+v, got %+v", companies, decoded)
	}

	if err := RenderCompanies(&buf, companies, Format("csv")); err == nil {
		t.Fatalf("expected csv to be rejected")
	}
}
