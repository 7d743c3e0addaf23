// Package report renders the outcome of a placement run.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/spigell/placement-advisor/internal/advisor"
	"github.com/spigell/placement-advisor/internal/catalog"
	"github.com/spigell/placement-advisor/internal/extract"
	"github.com/spigell/placement-advisor/internal/matching"
	"github.com/spigell/placement-advisor/internal/predict"
	"github.com/spigell/placement-advisor/internal/profile"
)

type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts the format names case-insensitively. "yml" is an alias for yaml.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "text":
		return Text, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text, json or yaml)", raw)
	}
}

var now = time.Now

type Report struct {
	ID          string              `json:"id" yaml:"id"`
	GeneratedAt time.Time           `json:"generated_at" yaml:"generated_at"`
	Source      string              `json:"source,omitempty" yaml:"source,omitempty"`
	Resume      *extract.Resume     `json:"resume,omitempty" yaml:"resume,omitempty"`
	Profile     profile.Student     `json:"profile" yaml:"profile"`
	Prediction  *predict.Prediction `json:"prediction,omitempty" yaml:"prediction,omitempty"`
	Category    catalog.Category    `json:"category,omitempty" yaml:"category,omitempty"`
	Matches     []matching.Result   `json:"matches" yaml:"matches"`
	Advice      *advisor.Advice     `json:"advice,omitempty" yaml:"advice,omitempty"`
}

// New stamps a report for the profile with a fresh id.
func New(student profile.Student) *Report {
	return &Report{
		ID:          uuid.NewString(),
		GeneratedAt: now().UTC(),
		Profile:     student,
		Matches:     []matching.Result{},
	}
}

// Render writes the report in the requested format.
func Render(w io.Writer, r *Report, format Format) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case Text, "":
		return renderText(w, r)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderText(w io.Writer, r *Report) error {
	var b strings.Builder

	if r.Resume != nil {
		fmt.Fprintf(&b, "Candidate: %s\n", r.Resume.Name)
		if contact := strings.TrimSpace(strings.Join([]string{r.Resume.Email, r.Resume.Phone}, "  ")); contact != "" {
			fmt.Fprintf(&b, "Contact:   %s\n", contact)
		}
	}

	p := r.Profile
	fmt.Fprintf(&b, "Profile:   CGPA %s, 10th %s%%, 12th %s%%, communication %d/5, technical %d/100\n",
		num(p.CGPA), num(p.TenthMarks), num(p.TwelfthMarks), p.CommunicationLevel, p.TechnicalSkillsScore)
	fmt.Fprintf(&b, "Skills:    %s\n", strings.Join(p.Skills, ", "))
	fmt.Fprintf(&b, "Experience: internships=%s projects=%s training=%s certification=%s\n",
		yesNo(p.Internships), yesNo(p.Projects), yesNo(p.Training), yesNo(p.TechnicalCourse))

	if r.Prediction != nil {
		fmt.Fprintf(&b, "Predicted: %s (%.0f%% confidence)\n", r.Prediction.Category, r.Prediction.Confidence*100)
	} else if r.Category != "" {
		fmt.Fprintf(&b, "Category:  %s\n", r.Category)
	}
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	// Matches is nil for runs that never ranked, e.g. extract or predict.
	if r.Matches == nil {
		return nil
	}
	if len(r.Matches) == 0 {
		_, err := io.WriteString(w, "No matching companies.\n")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCOMPANY\tROLE\tLOCATION\tPACKAGE\tSCORE\tFIT\tCGPA\tMISSING")
	for i, m := range r.Matches {
		cgpa := num(m.CGPARequired)
		if !m.MeetsCGPA {
			cgpa += "!"
		}
		missing := strings.Join(m.SkillsGap, ", ")
		if missing == "" {
			missing = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%.1f\t%s\t%s\t%s\n",
			i+1, m.Company, m.Role, m.Location, m.Package, m.MatchScore, m.Strength(), cgpa, missing)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if r.Advice == nil {
		return nil
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return RenderAdvice(w, r.Advice)
}

// RenderAdvice writes the advice as a numbered plain text list.
func RenderAdvice(w io.Writer, a *advisor.Advice) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Advice (%s): %s\n", a.Provider, a.Summary)
	for i, pr := range a.Priorities {
		fmt.Fprintf(&b, "  %d. %s: %s\n", i+1, pr.Skill, pr.Reason)
		for _, res := range pr.Resources {
			fmt.Fprintf(&b, "     - %s\n", res)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderCompanies lists catalog entries.
func RenderCompanies(w io.Writer, companies []catalog.Company, format Format) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(companies)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(companies); err != nil {
			return err
		}
		return enc.Close()
	case Text, "":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPANY\tROLE\tLOCATION\tPACKAGE\tCATEGORY\tMIN CGPA\tSKILLS")
	for _, c := range companies {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Name, c.Role, c.Location, c.Package(), c.PackageCategory, num(c.MinCGPA), strings.Join(c.SkillsRequired, ", "))
	}
	return tw.Flush()
}

// DumpToTmpFile writes the report as JSON to a new temporary file and returns its name.
func DumpToTmpFile(r *Report) (string, error) {
	file, err := os.CreateTemp("", "placement_report_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := Render(file, r, JSON); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
