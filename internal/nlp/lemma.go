package nlp

import "strings"

var irregular = map[string]string{
	"built":    "build",
	"made":     "make",
	"wrote":    "write",
	"written":  "write",
	"led":      "lead",
	"ran":      "run",
	"taught":   "teach",
	"won":      "win",
	"began":    "begin",
	"begun":    "begin",
	"did":      "do",
	"done":     "do",
	"has":      "have",
	"had":      "have",
	"was":      "be",
	"were":     "be",
	"is":       "be",
	"are":      "be",
	"am":       "be",
	"been":     "be",
	"got":      "get",
	"went":     "go",
	"gone":     "go",
	"took":     "take",
	"taken":    "take",
	"gave":     "give",
	"given":    "give",
	"found":    "find",
	"brought":  "bring",
	"thought":  "think",
	"children": "child",
	"people":   "person",
	"men":      "man",
	"women":    "woman",
}

// Lemma reduces a lower-cased word to an approximate dictionary form.
// It handles the regular English verb and plural endings plus a short list of irregular forms.
func Lemma(word string) string {
	if base, ok := irregular[word]; ok {
		return base
	}
	if len(word) <= 3 {
		return word
	}

	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "ing") && len(word) > 5:
		return restoreStem(word[:len(word)-3])
	case strings.HasSuffix(word, "ed") && len(word) > 4:
		return restoreStem(word[:len(word)-2])
	case strings.HasSuffix(word, "ss"), strings.HasSuffix(word, "us"), strings.HasSuffix(word, "is"):
		return word
	case strings.HasSuffix(word, "es") && hasSibilantEnd(word[:len(word)-2]):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s"):
		return word[:len(word)-1]
	}

	return word
}

func hasSibilantEnd(stem string) bool {
	for _, suffix := range []string{"sh", "ch", "x", "ss", "zz"} {
		if strings.HasSuffix(stem, suffix) {
			return true
		}
	}
	return false
}

// restoreStem undoes the spelling changes made when a suffix was added:
// "plann" becomes "plan" and "creat" becomes "create".
func restoreStem(stem string) string {
	n := len(stem)
	if n >= 2 && stem[n-1] == stem[n-2] && isConsonant(stem[n-1]) && !strings.ContainsRune("lsz", rune(stem[n-1])) {
		return stem[:n-1]
	}

	for _, suffix := range []string{"at", "iz", "ur", "v", "bl", "os"} {
		if strings.HasSuffix(stem, suffix) {
			return stem + "e"
		}
	}

	return stem
}

func isConsonant(b byte) bool {
	return b >= 'a' && b <= 'z' && !strings.ContainsRune("aeiouy", rune(b))
}
