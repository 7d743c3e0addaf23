package extract

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/spigell/placement-advisor/internal/nlp"
)

// lexicon is a tiny part-of-speech table so stages can be tested without the statistical tagger.
var lexicon = map[string]string{
	"i":           "PRP",
	"it":          "PRP",
	"a":           "DT",
	"an":          "DT",
	"the":         "DT",
	"and":         "CC",
	"at":          "IN",
	"with":        "IN",
	"on":          "IN",
	"because":     "IN",
	"to":          "TO",
	"was":         "VBD",
	"used":        "VBD",
	"developed":   "VBD",
	"built":       "VBD",
	"created":     "VBD",
	"designed":    "VBD",
	"implemented": "VBD",
	"learn":       "VB",
	"go":          "VB",
}

type lexiconAnalyzer struct {
	err error
}

func (a lexiconAnalyzer) Analyze(text string) (*nlp.Document, error) {
	if a.err != nil {
		return nil, a.err
	}
	return lexiconDoc(text, nil), nil
}

// lexiconDoc treats every non-blank line as a sentence and tags words from the lexicon, defaulting
// to NN.
func lexiconDoc(text string, entities []nlp.Entity) *nlp.Document {
	var sentences []nlp.Sentence
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var tokens []nlp.Token
		for _, word := range strings.Fields(line) {
			trimmed := strings.TrimRight(word, ".,:;%")
			if trimmed != "" {
				tag, ok := lexicon[strings.ToLower(trimmed)]
				if !ok {
					tag = "NN"
				}
				tokens = append(tokens, nlp.Token{Text: trimmed, Tag: tag})
			}
			if rest := word[len(trimmed):]; rest != "" {
				tokens = append(tokens, nlp.Token{Text: rest, Tag: "."})
			}
		}
		sentences = append(sentences, nlp.Sentence{Text: line, Tokens: tokens})
	}

	return nlp.NewDocument(text, sentences, entities)
}

const scenario = `CGPA: 8.5
12th: 92%
10th: 88%
Skills: Python, SQL, React
I developed a web app.
I built an API.`

func TestExtractScenario(t *testing.T) {
	t.Parallel()

	resume, err := New(lexiconAnalyzer{}, nil).Extract(scenario)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := resume.Profile
	if p.CGPA != 8.5 || p.TwelfthMarks != 92 || p.TenthMarks != 88 {
		t.Fatalf("unexpected academics: cgpa=%v twelfth=%v tenth=%v", p.CGPA, p.TwelfthMarks, p.TenthMarks)
	}
	if !p.Projects {
		t.Fatalf("expected two project sentences to set the projects flag")
	}

	for _, want := range []string{"Python", "SQL", "React"} {
		found := false
		for _, skill := range p.Skills {
			if skill == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected %s in %v", want, p.Skills)
		}
	}

	if err := p.Validate(); err != nil {
		t.Fatalf("extracted profile should be valid: %v", err)
	}
}

func TestExtractDefaults(t *testing.T) {
	t.Parallel()

	resume, err := New(lexiconAnalyzer{}, nil).Extract("Hello there")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := resume.Profile
	if p.CGPA != DefaultCGPA || p.TenthMarks != DefaultMarks || p.TwelfthMarks != DefaultMarks {
		t.Fatalf("expected default academics, got %+v", p)
	}
	if !reflect.DeepEqual(p.Skills, DefaultSkills) {
		t.Fatalf("expected default skills, got %v", p.Skills)
	}
	if p.Internships || p.Projects || p.Training || p.TechnicalCourse {
		t.Fatalf("expected no experience flags, got %+v", p)
	}
	if p.TechnicalSkillsScore != 30 {
		t.Fatalf("expected base technical score 30, got %d", p.TechnicalSkillsScore)
	}
	if resume.Name != UnknownName || resume.Email != "" || resume.Phone != "" {
		t.Fatalf("unexpected contact details: %+v", resume)
	}
}

func TestExtractRejectsBlankText(t *testing.T) {
	t.Parallel()

	if _, err := New(lexiconAnalyzer{}, nil).Extract(" \n\t "); !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}

	boom := errors.New("boom")
	if _, err := New(lexiconAnalyzer{err: boom}, nil).Extract("text"); !errors.Is(err, boom) {
		t.Fatalf("expected analyzer error to be wrapped, got %v", err)
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	t.Parallel()

	extractor := New(lexiconAnalyzer{}, nil)
	first, err := extractor.Extract(scenario)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := extractor.Extract(scenario)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestCGPA(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want float64
	}{
		{name: "labeled", text: "CGPA: 8.5", want: 8.5},
		{name: "highest wins", text: "Semester GPA: 6.9\nCGPA - 8.1 out of 10", want: 8.1},
		{name: "keyword sentence", text: "Scored 9.2 cgpa in final year", want: 9.2},
		{name: "max across patterns", text: "Cumulative score 12.5\ngpa: 7.7", want: 7.7},
		{name: "no keyword", text: "Released version 2.5 of the app", want: DefaultCGPA},
		{name: "no-break space", text: "CGPA:\u00a08.4", want: 8.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CGPA(lexiconDoc(tt.text, nil)); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMarks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		text        string
		wantTenth   float64
		wantTwelfth float64
	}{
		{name: "numbered", text: "10th: 88%\n12th: 92%", wantTenth: 88, wantTwelfth: 92},
		{name: "higher secondary is not tenth", text: "Higher Secondary: 91\nSecondary: 85", wantTenth: 85, wantTwelfth: 91},
		{name: "out of range falls through", text: "12th: 150\nHSC: 82", wantTenth: DefaultMarks, wantTwelfth: 82},
		{name: "roman classes", text: "Class X: 90\nClass XII: 80", wantTenth: 90, wantTwelfth: 80},
		{name: "percentage label", text: "Higher Secondary School, percentage: 88", wantTenth: DefaultMarks, wantTwelfth: 88},
		{name: "first pattern wins", text: "SSC: 70\nTenth: 81", wantTenth: 81, wantTwelfth: DefaultMarks},
		{name: "absent", text: "No marks here", wantTenth: DefaultMarks, wantTwelfth: DefaultMarks},
		{name: "no-break space", text: "12th:\u00a092%\n10th:\u00a088%", wantTenth: 88, wantTwelfth: 92},
		{name: "no-break space only", text: "HSC\u00a081", wantTenth: DefaultMarks, wantTwelfth: 81},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tenth, twelfth := Marks(lexiconDoc(tt.text, nil))
			if tenth != tt.wantTenth || twelfth != tt.wantTwelfth {
				t.Fatalf("expected %v/%v, got %v/%v", tt.wantTenth, tt.wantTwelfth, tenth, twelfth)
			}
		})
	}
}

func TestSkills(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "whole phrases only",
			text: "Worked with JavaScript and C++ on Node.js",
			want: []string{"JavaScript", "C++", "Node.js"},
		},
		{
			name: "multi word terms",
			text: "Interested in machine learning and Google Cloud",
			want: []string{"Machine Learning", "Google Cloud"},
		},
		{
			name: "duplicates collapse",
			text: "Python python PYTHON",
			want: []string{"Python"},
		},
		{
			name: "tech noun phrases",
			text: "Used the Gin framework",
			want: []string{"the Gin framework"},
		},
		{
			name: "default",
			text: "Enjoys hiking",
			want: DefaultSkills,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Skills(lexiconDoc(tt.text, nil)); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestExperience(t *testing.T) {
	t.Parallel()

	flags := Experience(lexiconDoc(`Summer intern at Acme
Completed a Docker workshop
AWS certified developer
I developed a tool.`, nil))

	want := ExperienceFlags{Internships: true, Training: true, TechnicalCourse: true}
	if flags != want {
		t.Fatalf("expected %+v, got %+v", want, flags)
	}

	flags = Experience(lexiconDoc("I designed a schema.\nI implemented the service.\nDesign reviews", nil))
	if !flags.Projects {
		t.Fatalf("expected two verb sentences to count as projects")
	}

	flags = Experience(lexiconDoc("Design reviews\nBuild pipelines", nil))
	if flags.Projects {
		t.Fatalf("expected nouns not to count as project verbs")
	}
}

func TestCommunication(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "repetitive",
			text: "go go go go",
			want: 3,
		},
		{
			name: "diverse",
			text: "Curious engineer",
			want: 4,
		},
		{
			name: "rich long complex",
			text: "I joined the robotics club because it was a place where curious students could share ideas, prototypes, sketches, failures and lessons every single week",
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Communication(lexiconDoc(tt.text, nil)); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestTechnicalScore(t *testing.T) {
	t.Parallel()

	many := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = strings.Repeat("x", i+1)
		}
		return out
	}

	tests := []struct {
		name   string
		skills int
		text   string
		want   int
	}{
		{name: "few", skills: 2, text: "", want: 30},
		{name: "five proficient", skills: 5, text: "Proficient in Go", want: 65},
		{name: "ten familiar", skills: 10, text: "familiar with Rust", want: 60},
		{name: "fifteen", skills: 15, text: "", want: 60},
		{name: "capped", skills: 20, text: "Expert and familiar", want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := TechnicalScore(many(tt.skills), lexiconDoc(tt.text, nil)); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestContactAndEntities(t *testing.T) {
	t.Parallel()

	doc := lexiconDoc("Asha Rao\nasha.rao@example.com | (555) 123-4567", []nlp.Entity{
		{Text: "Asha Rao", Label: "PERSON"},
		{Text: "Pune", Label: "GPE"},
		{Text: "Acme", Label: "ORG"},
		{Text: "Mumbai", Label: "GPE"},
		{Text: "Delhi", Label: "GPE"},
		{Text: "Chennai", Label: "GPE"},
	})

	email, phone := Contact(doc)
	if email != "asha.rao@example.com" || phone != "(555) 123-4567" {
		t.Fatalf("unexpected contact %q %q", email, phone)
	}

	people := Entities(doc)
	if people.Name != "Asha Rao" {
		t.Fatalf("unexpected name %q", people.Name)
	}
	if !reflect.DeepEqual(people.Locations, []string{"Pune", "Mumbai", "Delhi"}) {
		t.Fatalf("unexpected locations %v", people.Locations)
	}
	if !reflect.DeepEqual(people.Organizations, []string{"Acme"}) {
		t.Fatalf("unexpected organizations %v", people.Organizations)
	}
}

func TestExtractWithProse(t *testing.T) {
	t.Parallel()

	resume, err := New(nil, nil).Extract(scenario)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := resume.Profile
	if p.CGPA != 8.5 || p.TwelfthMarks != 92 || p.TenthMarks != 88 {
		t.Fatalf("unexpected academics: %+v", p)
	}
	if !p.Projects {
		t.Fatalf("expected projects from the developed and built sentences, got %+v", p)
	}
	for _, skill := range []string{"Python", "SQL", "React"} {
		if !slices.Contains(p.Skills, skill) {
			t.Fatalf("expected %s in skills %v", skill, p.Skills)
		}
	}
}
