package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"classhub/pkg/openrouter"
)

const (
	SummaryUnavailable = "Summary not available. Please try again."
	aiConfidence       = 0.9
	heuristicConf      = 0.85
	maxKeyPoints       = 5
	quickSummaryWords  = 20
)

var (
	fallbackKeyPoints  = []string{"Review core concepts", "Practice exercises", "Clarify doubts"}
	heuristicKeyPoints = []string{"Key concept discussed", "Important formula mentioned", "Assignment deadline noted"}

	summaryPrefix = regexp.MustCompile(`(?i)^\s*summary\s*[:\-]\s*`)
	bulletPrefix  = regexp.MustCompile(`^[\-\*\d\.\s]+`)
)

// Summary is a parsed note summary.
type Summary struct {
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"key_points"`
	Confidence  float64  `json:"confidence"`
	AIGenerated bool     `json:"ai_generated"`
}

// AIService wraps the completion client with the prompts and parsing rules
// used for notes and translation. With no API key it falls back to local
// heuristics.
type AIService struct {
	client *openrouter.Client
}

func NewAIService(client *openrouter.Client) *AIService {
	return &AIService{client: client}
}

func (s *AIService) Enabled() bool { return s != nil && s.client.Enabled() }

func summaryPrompt(title, language, content string) string {
	return fmt.Sprintf(`
You are an educational assistant. Summarize the student's note into a concise paragraph and 3-5 key bullet points.

Title: %s
Language: %s
Content:
%s
`, title, language, content)
}

// SummarizeNote produces a summary for a note. Transport and non-2xx
// failures return ErrUpstream; an empty completion yields the placeholder.
func (s *AIService) SummarizeNote(ctx context.Context, title, language, content string) (*Summary, error) {
	if !s.Enabled() {
		return HeuristicSummary(content), nil
	}
	text, err := s.client.Complete(ctx, []openrouter.Message{
		{Role: "system", Content: "You are a helpful education assistant."},
		{Role: "user", Content: summaryPrompt(title, language, content)},
	}, 0.2)
	if err != nil {
		log.Printf("[ai] summarize failed: %v", err)
		return nil, fmt.Errorf("summarize: %w", ErrUpstream)
	}
	return ParseSummary(text), nil
}

// ParseSummary splits a completion into a summary line and up to five key
// points. The first non-blank line is the summary, minus any "Summary:"
// label; later lines lose their bullet markers.
func ParseSummary(text string) *Summary {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		lines = []string{SummaryUnavailable}
	}
	out := &Summary{
		Summary:     strings.TrimSpace(summaryPrefix.ReplaceAllString(lines[0], "")),
		Confidence:  aiConfidence,
		AIGenerated: true,
	}
	for _, l := range lines[1:] {
		p := strings.TrimSpace(bulletPrefix.ReplaceAllString(l, ""))
		if p == "" {
			continue
		}
		out.KeyPoints = append(out.KeyPoints, p)
		if len(out.KeyPoints) == maxKeyPoints {
			break
		}
	}
	if len(out.KeyPoints) == 0 {
		out.KeyPoints = append([]string(nil), fallbackKeyPoints...)
	}
	return out
}

// HeuristicSummary is the offline summary: the first 100 characters of content.
func HeuristicSummary(content string) *Summary {
	r := []rune(content)
	if len(r) > 100 {
		r = r[:100]
	}
	return &Summary{
		Summary:    "AI Summary: " + string(r) + "...",
		KeyPoints:  append([]string(nil), heuristicKeyPoints...),
		Confidence: heuristicConf,
	}
}

// Translate asks the model for a translation and falls back to the mock on
// any failure.
func (s *AIService) Translate(ctx context.Context, text, toLanguage string) string {
	if s.Enabled() {
		out, err := s.client.Complete(ctx, []openrouter.Message{
			{Role: "system", Content: "You are a translator. Reply with the translation only."},
			{Role: "user", Content: fmt.Sprintf("Translate the following text to %s:\n\n%s", toLanguage, text)},
		}, 0.2)
		if err == nil && strings.TrimSpace(out) != "" {
			return strings.TrimSpace(out)
		}
		if err != nil {
			log.Printf("[ai] translate failed, using mock: %v", err)
		}
	}
	return MockTranslate(text, toLanguage)
}

func MockTranslate(text, toLanguage string) string {
	return fmt.Sprintf("TRANSLATED (%s): %s", strings.ToUpper(toLanguage), text)
}

// QuickSummary returns the first twenty words, marked when truncated.
func QuickSummary(text string) string {
	words := strings.Fields(text)
	suffix := ""
	if len(words) > quickSummaryWords {
		words = words[:quickSummaryWords]
		suffix = "..."
	}
	return "SUMMARY: " + strings.Join(words, " ") + suffix
}
