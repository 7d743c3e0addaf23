package nlp

import "strings"

// NounChunks groups runs of determiners, possessives, adjectives, numbers and nouns into base
// noun phrases. A run without a noun is discarded and trailing modifiers after the last noun are
// trimmed, so "a useful library for" yields "a useful library".
func NounChunks(tokens []Token) []Chunk {
	var (
		chunks []Chunk
		run    []Token
	)

	flush := func() {
		last := -1
		for i, tok := range run {
			if tok.IsNoun() {
				last = i
			}
		}
		if last >= 0 {
			words := make([]string, 0, last+1)
			for _, tok := range run[:last+1] {
				words = append(words, tok.Text)
			}
			text := strings.Join(words, " ")
			chunks = append(chunks, Chunk{Text: text, Lower: strings.ToLower(text)})
		}
		run = run[:0]
	}

	for _, tok := range tokens {
		if inNounPhrase(tok.Tag) {
			run = append(run, tok)
			continue
		}
		flush()
	}
	flush()

	return chunks
}

func inNounPhrase(tag string) bool {
	switch {
	case tag == "DT", tag == "PRP$", tag == "CD":
		return true
	case strings.HasPrefix(tag, "JJ"), strings.HasPrefix(tag, "NN"):
		return true
	}
	return false
}

var subordinators = map[string]struct{}{
	"because":  {},
	"although": {},
	"though":   {},
	"while":    {},
	"whereas":  {},
	"since":    {},
	"unless":   {},
	"if":       {},
	"when":     {},
	"whenever": {},
	"after":    {},
	"before":   {},
	"until":    {},
	"once":     {},
	"that":     {},
	"whether":  {},
}

// HasSubordinateClause reports whether the sentence carries an adverbial, complement or open
// infinitival clause. Without a dependency parse it looks for a subordinating word introducing a
// clause or an infinitive marker directly followed by a base-form verb.
func HasSubordinateClause(s Sentence) bool {
	for i, tok := range s.Tokens {
		switch tok.Tag {
		case "IN", "WDT", "WRB":
			if _, ok := subordinators[tok.Lower]; ok && followedByVerb(s.Tokens[i+1:]) {
				return true
			}
		case "TO":
			if i+1 < len(s.Tokens) && s.Tokens[i+1].Tag == "VB" {
				return true
			}
		}
	}
	return false
}

// followedByVerb reports whether a verb appears before the next punctuation mark.
func followedByVerb(rest []Token) bool {
	for _, tok := range rest {
		if tok.IsPunct() {
			return false
		}
		if tok.IsVerb() || tok.Tag == "MD" {
			return true
		}
	}
	return false
}
