package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/placement-advisor/internal/advisor"
	"github.com/spigell/placement-advisor/internal/logger"
	"github.com/spigell/placement-advisor/internal/matching"
	"github.com/spigell/placement-advisor/internal/profile"
	"github.com/spigell/placement-advisor/internal/utils"
)

const (
	provider = "gemini"

	defaultMaxLogLength     = 200
	maxUserInstructionRunes = 400
	maxPriorities           = 3
)

//go:embed prompt.md
var promptTemplate string

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Advisor asks Gemini for a learning plan covering the skill gaps of the best matches.
type Advisor struct {
	generator    contentGenerator
	logger       *zap.Logger
	maxLogLen    int
	instructions string
}

func NewAdvisor(generator contentGenerator, log *zap.Logger, maxLogLength int) *Advisor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Advisor{
		generator: generator,
		logger:    logger.WithFields(log, logger.AdvisorFields(provider, generator.Model())...),
		maxLogLen: maxLogLength,
	}
}

// SetInstructions passes free-form student preferences ("prefer free courses") to the prompt.
func (a *Advisor) SetInstructions(instructions string) {
	a.instructions = instructions
}

type matchPayload struct {
	Company    string   `json:"company"`
	Role       string   `json:"role"`
	Category   string   `json:"package_category"`
	MatchScore float64  `json:"match_score"`
	SkillsGap  []string `json:"skills_gap"`
	MeetsCGPA  bool     `json:"meets_cgpa"`
}

type requestPayload struct {
	Student profile.Student `json:"student"`
	Matches []matchPayload  `json:"matches"`
}

func (a *Advisor) Advise(ctx context.Context, student profile.Student, matches []matching.Result) (*advisor.Advice, error) {
	if len(matches) == 0 {
		return nil, errors.New("at least one match is required")
	}

	payload := requestPayload{Student: student}
	for _, m := range matches {
		payload.Matches = append(payload.Matches, matchPayload{
			Company:    m.Company,
			Role:       m.Role,
			Category:   m.PackageCategory.String(),
			MatchScore: m.MatchScore,
			SkillsGap:  m.SkillsGap,
			MeetsCGPA:  m.MeetsCGPA,
		})
	}

	message, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal advisor payload: %w", err)
	}

	system := buildPrompt(a.instructions)

	a.logger.Debug("gemini advise request",
		zap.Int("matches", len(matches)),
		zap.Int("prompt_length", utf8.RuneCountInString(system)+len(message)),
		zap.String("message_preview", utils.TruncateForLog(string(message), a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, system, string(message))
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini advise response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	advice, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	advice.Provider = provider
	advice.Raw = raw
	return advice, nil
}

func buildPrompt(instructions string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Student preferences:\n{{USER_INSTRUCTIONS}}\n\nJSON Response:"
	}
	return strings.ReplaceAll(template, "{{USER_INSTRUCTIONS}}", sanitizeInstructions(instructions))
}

// sanitizeInstructions renders the preferences as an indented list. Square brackets become
// parentheses so the text cannot pose as a role marker, and the whole block is capped.
func sanitizeInstructions(raw string) string {
	raw = strings.NewReplacer("[", "(", "]", ")", "\r", "").Replace(raw)

	var lines []string
	budget := maxUserInstructionRunes
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" || budget <= 0 {
			continue
		}
		if runes := []rune(line); len(runes) > budget {
			line = string(runes[:budget])
		}
		budget -= utf8.RuneCountInString(line)
		lines = append(lines, "  - "+line)
	}

	if len(lines) == 0 {
		return "  - none"
	}
	return strings.Join(lines, "\n")
}

func parseResponse(raw string) (*advisor.Advice, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	advice := &advisor.Advice{Summary: coerceString(data["summary"])}

	items, _ := data["priorities"].([]any)
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		skill := coerceString(entry["skill"])
		if skill == "" {
			continue
		}
		advice.Priorities = append(advice.Priorities, advisor.Priority{
			Skill:     skill,
			Reason:    coerceString(entry["reason"]),
			Resources: coerceStrings(entry["resources"]),
		})
		if len(advice.Priorities) == maxPriorities {
			break
		}
	}

	return advice, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		if math.IsNaN(val) {
			return ""
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

// coerceStrings accepts a list or a single comma separated string.
func coerceStrings(v any) []string {
	var out []string
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, part := range strings.Split(val, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
