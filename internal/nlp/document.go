// Package nlp holds the parsed representation of a resume shared by the extraction stages.
package nlp

import (
	"strings"
	"unicode"
)

// Token is a tagged word with its byte offsets in Document.Text.
type Token struct {
	Text  string
	Lower string
	Lemma string
	// Tag is a Penn Treebank part-of-speech tag.
	Tag   string
	Start int
	End   int
}

// IsPunct reports whether the token has no letters or digits.
func (t Token) IsPunct() bool {
	for _, r := range t.Text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// IsVerb reports whether the token was tagged as a verb in any form.
func (t Token) IsVerb() bool {
	return strings.HasPrefix(t.Tag, "VB")
}

// IsNoun reports whether the token was tagged as a common or proper noun.
func (t Token) IsNoun() bool {
	return strings.HasPrefix(t.Tag, "NN")
}

type Sentence struct {
	Text   string
	Lower  string
	Tokens []Token
}

// Words returns the tokens that are not punctuation.
func (s Sentence) Words() []Token {
	words := make([]Token, 0, len(s.Tokens))
	for _, tok := range s.Tokens {
		if !tok.IsPunct() {
			words = append(words, tok)
		}
	}
	return words
}

// Entity is a named entity such as PERSON, GPE or ORG.
type Entity struct {
	Text  string
	Label string
}

// Chunk is a base noun phrase.
type Chunk struct {
	Text  string
	Lower string
}

// Document is built once per text and only read afterwards.
type Document struct {
	Text      string
	Lower     string
	Sentences []Sentence
	Entities  []Entity
	Chunks    []Chunk
}

// Analyzer turns raw text into a Document.
type Analyzer interface {
	Analyze(text string) (*Document, error)
}

// NewDocument fills the derived fields (lower-cased text, lemmas, noun chunks) of a document
// assembled from already tagged sentences.
func NewDocument(text string, sentences []Sentence, entities []Entity) *Document {
	doc := &Document{
		Text:      text,
		Lower:     strings.ToLower(text),
		Sentences: make([]Sentence, 0, len(sentences)),
		Entities:  append([]Entity(nil), entities...),
	}

	for _, sent := range sentences {
		tokens := make([]Token, len(sent.Tokens))
		for i, tok := range sent.Tokens {
			tok.Lower = strings.ToLower(tok.Text)
			if tok.Lemma == "" {
				tok.Lemma = Lemma(tok.Lower)
			}
			tokens[i] = tok
		}

		doc.Sentences = append(doc.Sentences, Sentence{
			Text:   sent.Text,
			Lower:  strings.ToLower(sent.Text),
			Tokens: tokens,
		})
		doc.Chunks = append(doc.Chunks, NounChunks(tokens)...)
	}

	return doc
}

// EntitiesByLabel returns up to limit entity texts with the given label in document order.
// A non-positive limit returns all of them.
func (d *Document) EntitiesByLabel(label string, limit int) []string {
	var out []string
	for _, ent := range d.Entities {
		if ent.Label != label {
			continue
		}
		out = append(out, ent.Text)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
