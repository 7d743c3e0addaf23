package extract

import (
	"regexp"
	"strings"

	"github.com/spigell/placement-advisor/internal/nlp"
	"github.com/spigell/placement-advisor/internal/profile"
)

// Vocabulary lists the skills recognised by name, in the casing used in the output.
var Vocabulary = []string{
	"Python", "Java", "JavaScript", "TypeScript", "C++", "C#", "Ruby", "Go", "Rust", "Swift", "Kotlin",
	"SQL", "MySQL", "PostgreSQL", "MongoDB",
	"HTML", "CSS", "React", "Angular", "Vue", "Node.js", "Express", "Django", "Flask", "Spring",
	"Machine Learning", "Deep Learning", "Data Science", "Artificial Intelligence",
	"Natural Language Processing", "Computer Vision",
	"AWS", "Azure", "Google Cloud", "Docker", "Kubernetes", "Jenkins", "Git", "Linux",
	"TensorFlow", "PyTorch", "Scikit-learn", "Pandas", "NumPy",
}

// DefaultSkills is returned when nothing was recognised.
var DefaultSkills = []string{"Python", "Java"}

var techIndicators = []string{"framework", "library", "tool", "language", "platform"}

type vocabEntry struct {
	name string
	re   *regexp.Regexp
}

var vocabulary = compileVocabulary(Vocabulary)

// compileVocabulary builds whole-phrase matchers. Letters, digits, '+' and '#' next to a term mean
// it is part of a longer word, so "Java" does not match "JavaScript" and "C" would not match "C++".
func compileVocabulary(names []string) []vocabEntry {
	entries := make([]vocabEntry, 0, len(names))
	for _, name := range names {
		pattern := `(?:^|[^\w+#])` + regexp.QuoteMeta(strings.ToLower(name)) + `(?:$|[^\w+#])`
		entries = append(entries, vocabEntry{name: name, re: regexp.MustCompile(pattern)})
	}
	return entries
}

// Skills returns the vocabulary terms mentioned in the document followed by the noun phrases that
// name a framework, library, tool, language or platform. Duplicates are dropped ignoring case.
func Skills(doc *nlp.Document) []string {
	var found []string
	for _, entry := range vocabulary {
		if entry.re.MatchString(doc.Lower) {
			found = append(found, entry.name)
		}
	}

	for _, chunk := range doc.Chunks {
		if containsAny(chunk.Lower, techIndicators) {
			found = append(found, chunk.Text)
		}
	}

	found = profile.NormalizeSkills(found)
	if len(found) == 0 {
		return append([]string(nil), DefaultSkills...)
	}
	return found
}

var proficiency = []struct {
	term  string
	bonus int
}{
	{term: "expert", bonus: 30},
	{term: "proficient", bonus: 25},
	{term: "experienced", bonus: 20},
	{term: "skilled", bonus: 15},
	{term: "familiar", bonus: 10},
}

// TechnicalScore estimates proficiency from the number of skills plus a bonus for the strongest
// self-assessment word present in the text. Only the first matching word counts.
func TechnicalScore(skills []string, doc *nlp.Document) int {
	var score int
	switch n := len(skills); {
	case n >= 20:
		score = 75
	case n >= 15:
		score = 60
	case n >= 10:
		score = 50
	case n >= 5:
		score = 40
	default:
		score = 30
	}

	for _, p := range proficiency {
		if strings.Contains(doc.Lower, p.term) {
			score += p.bonus
			break
		}
	}

	return min(score, profile.MaxTechnical)
}
