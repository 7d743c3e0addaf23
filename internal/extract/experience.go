package extract

import (
	"math"

	"github.com/spigell/placement-advisor/internal/nlp"
	"github.com/spigell/placement-advisor/internal/profile"
)

var (
	internshipTerms    = []string{"intern", "internship", "trainee"}
	trainingTerms      = []string{"training", "workshop", "bootcamp", "course"}
	certificationTerms = []string{"certification", "certified", "certificate"}

	actionVerbs = map[string]struct{}{
		"develop":   {},
		"build":     {},
		"create":    {},
		"design":    {},
		"implement": {},
	}
)

// minProjectSentences is how many sentences must describe building something before the resume
// counts as having projects. A single mention is not enough.
const minProjectSentences = 2

// ExperienceFlags are the binary experience indicators of a profile.
type ExperienceFlags struct {
	Internships     bool
	Projects        bool
	Training        bool
	TechnicalCourse bool
}

// Experience classifies the sentences of the document. Terms match as substrings of the
// lower-cased sentence, so "intern" also fires on "international".
func Experience(doc *nlp.Document) ExperienceFlags {
	var flags ExperienceFlags
	projectSentences := 0

	for _, sent := range doc.Sentences {
		if hasActionVerb(sent) {
			projectSentences++
		}
		if containsAny(sent.Lower, internshipTerms) {
			flags.Internships = true
		}
		if containsAny(sent.Lower, trainingTerms) {
			flags.Training = true
		}
		if containsAny(sent.Lower, certificationTerms) {
			flags.TechnicalCourse = true
		}
	}

	flags.Projects = projectSentences >= minProjectSentences
	return flags
}

func hasActionVerb(sent nlp.Sentence) bool {
	for _, tok := range sent.Tokens {
		if !tok.IsVerb() {
			continue
		}
		if _, ok := actionVerbs[tok.Lemma]; ok {
			return true
		}
	}
	return false
}

const (
	baseCommunication = 3.0

	diversityThreshold      = 0.6
	longSentenceThreshold   = 15.0
	complexSentenceFraction = 0.3
)

// Communication rates writing quality from 1 to 5 using vocabulary richness, sentence length and
// the share of sentences carrying a subordinate clause.
func Communication(doc *nlp.Document) int {
	words := 0
	lemmas := make(map[string]struct{})
	complexSentences := 0

	for _, sent := range doc.Sentences {
		for _, tok := range sent.Words() {
			words++
			lemmas[tok.Lemma] = struct{}{}
		}
		if nlp.HasSubordinateClause(sent) {
			complexSentences++
		}
	}

	score := baseCommunication
	if words > 0 && float64(len(lemmas))/float64(words) > diversityThreshold {
		score++
	}
	if n := len(doc.Sentences); n > 0 && float64(words)/float64(n) > longSentenceThreshold {
		score += 0.5
	}
	if float64(complexSentences) > float64(len(doc.Sentences))*complexSentenceFraction {
		score += 0.5
	}

	return min(int(math.Floor(score)), profile.MaxCommunication)
}
