package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/placement-advisor/internal/nlp"
)

const (
	DefaultCGPA  = 7.0
	DefaultMarks = 75.0
)

// sep is the separator allowed between a label and its value. \p{Zs} covers the
// no-break spaces PDF text often carries.
const sep = `[\s\p{Zs}:\-–—]`

var (
	cgpaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`cgpa` + sep + `+([0-9]\.[0-9]+)\b`),
		regexp.MustCompile(`gpa` + sep + `+([0-9]\.[0-9]+)\b`),
		regexp.MustCompile(`cpi` + sep + `+([0-9]\.[0-9]+)\b`),
		regexp.MustCompile(`grade point` + sep + `+([0-9]\.[0-9]+)\b`),
		regexp.MustCompile(`cumulative.*?([0-9]\.[0-9]+)\b`),
	}
	cgpaKeywords = []string{"cgpa", "gpa", "cpi", "grade point"}
	decimal      = regexp.MustCompile(`\b([0-9]\.[0-9]+)\b`)

	twelfthPatterns = []marksPattern{
		labeled(`12th`),
		labeled(`twelfth`),
		{re: regexp.MustCompile(`higher secondary` + sep + `*.*?percentage` + sep + `*([0-9]+\.?[0-9]*)`)},
		labeled(`higher secondary`),
		labeled(`hsc`),
		labeled(`class xii`),
		labeled(`intermediate`),
	}
	tenthPatterns = []marksPattern{
		labeled(`10th`),
		labeled(`tenth`),
		{re: regexp.MustCompile(`secondary` + sep + `+([0-9]+\.?[0-9]*)`), notAfter: "higher "},
		labeled(`ssc`),
		labeled(`class x\b`),
		labeled(`matriculation`),
	}
)

type marksPattern struct {
	re *regexp.Regexp
	// notAfter rejects matches directly preceded by this text.
	notAfter string
}

func labeled(label string) marksPattern {
	return marksPattern{re: regexp.MustCompile(label + sep + `+([0-9]+\.?[0-9]*)`)}
}

// find returns the value captured by the first acceptable match.
func (p marksPattern) find(text string) (string, bool) {
	for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
		if p.notAfter != "" && strings.HasSuffix(text[:loc[0]], p.notAfter) {
			continue
		}
		return text[loc[2]:loc[3]], true
	}
	return "", false
}

// CGPA returns the highest plausible grade point average found in the document.
// Labeled values anywhere in the text and decimals in sentences mentioning a GPA keyword are
// candidates when they lie in [0, 10].
func CGPA(doc *nlp.Document) float64 {
	best, found := 0.0, false
	consider := func(raw string) {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 10 {
			return
		}
		if !found || v > best {
			best, found = v, true
		}
	}

	for _, re := range cgpaPatterns {
		for _, m := range re.FindAllStringSubmatch(doc.Lower, -1) {
			consider(m[1])
		}
	}

	for _, sent := range doc.Sentences {
		if !containsAny(sent.Lower, cgpaKeywords) {
			continue
		}
		for _, m := range decimal.FindAllStringSubmatch(sent.Lower, -1) {
			consider(m[1])
		}
	}

	if !found {
		return DefaultCGPA
	}
	return best
}

// Marks returns the 10th and 12th percentages. The 12th patterns run first because "higher
// secondary" would otherwise be read as a 10th label. The first pattern yielding a value in
// [0, 100] wins; a value out of range moves on to the next pattern.
func Marks(doc *nlp.Document) (tenth, twelfth float64) {
	return firstMarks(doc.Lower, tenthPatterns), firstMarks(doc.Lower, twelfthPatterns)
}

func firstMarks(text string, patterns []marksPattern) float64 {
	for _, p := range patterns {
		raw, ok := p.find(text)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 100 {
			continue
		}
		return v
	}
	return DefaultMarks
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
