package nlp

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"
)

// ProseAnalyzer segments, tags and extracts entities with the prose pipeline.
type ProseAnalyzer struct {
	logger *zap.Logger
}

func NewProseAnalyzer(logger *zap.Logger) *ProseAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ProseAnalyzer{logger: logger}
}

type span struct {
	start int
	end   int
}

// Analyze runs the prose pipeline over text. Sentences reported by prose are further split at line
// breaks because resumes put headings and list items on separate lines without final punctuation.
func (a *ProseAnalyzer) Analyze(text string) (*Document, error) {
	parsed, err := prose.NewDocument(text,
		prose.WithTokenization(true),
		prose.WithSegmentation(true),
		prose.WithTagging(true),
		prose.WithExtraction(true),
	)
	if err != nil {
		return nil, fmt.Errorf("analyze text: %w", err)
	}

	var spans []span
	cursor := 0
	for _, sent := range parsed.Sentences() {
		start, end := locate(text, sent.Text, cursor)
		cursor = end
		spans = append(spans, splitLines(text, start, end)...)
	}

	tokens := make([]Token, 0, len(parsed.Tokens()))
	cursor = 0
	for _, tok := range parsed.Tokens() {
		start, end := locate(text, tok.Text, cursor)
		cursor = end
		tokens = append(tokens, Token{Text: tok.Text, Tag: tok.Tag, Start: start, End: end})
	}

	sentences := assign(text, spans, tokens)

	entities := make([]Entity, 0, len(parsed.Entities()))
	for _, ent := range parsed.Entities() {
		entities = append(entities, Entity{Text: ent.Text, Label: ent.Label})
	}

	a.logger.Debug("text analyzed",
		zap.Int("sentences", len(sentences)),
		zap.Int("tokens", len(tokens)),
		zap.Int("entities", len(entities)),
	)

	return NewDocument(text, sentences, entities), nil
}

// locate finds needle in text at or after cursor. When prose normalized the token and it cannot be
// found verbatim, an empty span at the cursor is returned so later tokens still align.
func locate(text, needle string, cursor int) (int, int) {
	if cursor > len(text) {
		cursor = len(text)
	}
	idx := strings.Index(text[cursor:], needle)
	if needle == "" || idx < 0 {
		return cursor, cursor
	}
	start := cursor + idx
	return start, start + len(needle)
}

func splitLines(text string, start, end int) []span {
	var out []span
	lineStart := start
	for i := start; i <= end; i++ {
		if i < end && text[i] != '\n' {
			continue
		}
		if strings.TrimSpace(text[lineStart:i]) != "" {
			out = append(out, span{start: lineStart, end: i})
		}
		lineStart = i + 1
	}
	return out
}

// assign distributes the tokens over the sentence spans by offset.
func assign(text string, spans []span, tokens []Token) []Sentence {
	sentences := make([]Sentence, 0, len(spans))
	next := 0
	for _, sp := range spans {
		sent := Sentence{Text: strings.TrimSpace(text[sp.start:sp.end])}
		for next < len(tokens) && tokens[next].Start < sp.end {
			if tokens[next].Start >= sp.start {
				sent.Tokens = append(sent.Tokens, tokens[next])
			}
			next++
		}
		sentences = append(sentences, sent)
	}
	return sentences
}
