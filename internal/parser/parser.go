package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"moviequiz/internal/domain"
	"moviequiz/internal/logger"

	"go.uber.org/zap"
)

// PlaceholderOption fills missing slots when a JSON-dialect question carries
// fewer choices than expected. Padding instead of failing matches the lossy
// tolerance of the upstream generator.
const PlaceholderOption = "N/A"

var (
	embeddedLabelRe = regexp.MustCompile(`^[A-Za-z][).]\s*`)
	blockSeparator  = regexp.MustCompile(`\n\s*\n`)
)

// Parse converts raw model output into a validated Quiz, or a typed failure.
// The dialect is declared by the caller that built the enclosing prompt; the
// parser has no reliable way to auto-detect it from content alone. Parse is
// pure: concurrent generation attempts may call it independently.
func Parse(raw string, dialect domain.Dialect) (*domain.Quiz, error) {
	switch dialect {
	case domain.DialectJSON:
		return parseJSON(raw)
	case domain.DialectText:
		return parseText(raw)
	default:
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unknown dialect %q", dialect))
	}
}

// jsonQuestion is the untrusted wire shape of one question. Models are
// prompted for "choices" but routinely emit "options"; both are accepted.
type jsonQuestion struct {
	Question    string   `json:"question"`
	Choices     []string `json:"choices"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

type jsonQuiz struct {
	Questions []jsonQuestion `json:"questions"`
}

func parseJSON(raw string) (*domain.Quiz, error) {
	cleaned := stripThinkBlock(strings.TrimSpace(raw))

	// Models routinely wrap valid JSON in commentary, so extract the greedy
	// brace span (first '{' through last '}') before unmarshalling.
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		logger.Get().Warn("No JSON object delimiters in model output",
			zap.Int("raw_len", len(raw)))
		return nil, domain.NewNoJSONFoundError(raw)
	}
	span := cleaned[start : end+1]

	var parsed jsonQuiz
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return nil, domain.NewMalformedJSONError(raw, err)
	}
	if len(parsed.Questions) == 0 {
		return nil, domain.NewSchemaViolationError("Missing or empty questions array", raw)
	}

	items := make([]domain.QuizItem, 0, len(parsed.Questions))
	for i, q := range parsed.Questions {
		choices := q.Choices
		if len(choices) == 0 {
			choices = q.Options
		}
		if q.Question == "" || len(choices) == 0 || q.Answer == "" {
			return nil, domain.NewSchemaViolationError(
				fmt.Sprintf("Question %d lacks question, choices, or answer", i), raw)
		}
		if len(choices) > len(domain.OptionLabels) {
			return nil, domain.NewSchemaViolationError(
				fmt.Sprintf("Question %d has %d choices, more than the label alphabet", i, len(choices)), raw)
		}

		// Labels are derived positionally; an embedded "A) " or "A. " prefix
		// in the choice text is stripped first so position stays authoritative.
		count := len(choices)
		if count < domain.DefaultOptionCount {
			count = domain.DefaultOptionCount
		}
		options := make([]domain.Option, 0, count)
		for j := 0; j < count; j++ {
			text := PlaceholderOption
			if j < len(choices) {
				text = embeddedLabelRe.ReplaceAllString(strings.TrimSpace(choices[j]), "")
			}
			options = append(options, domain.Option{
				Label: string(domain.OptionLabels[j]),
				Text:  text,
			})
		}

		item := domain.QuizItem{
			Question:     q.Question,
			Options:      options,
			CorrectLabel: strings.ToUpper(strings.TrimSpace(q.Answer)),
			Explanation:  q.Explanation,
		}
		if err := item.Validate(); err != nil {
			return nil, domain.NewAnswerNotInOptionsError(q.Answer, raw)
		}
		items = append(items, item)
	}

	return &domain.Quiz{Items: items, Dialect: domain.DialectJSON}, nil
}

func parseText(raw string) (*domain.Quiz, error) {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")

	var items []domain.QuizItem
	for _, block := range splitBlocks(normalized) {
		item, ok := parseTextBlock(block)
		if !ok {
			// Malformed blocks are dropped silently; the text dialect is
			// best-effort and a short quiz is legitimate.
			logger.Get().Debug("Dropping malformed question block",
				zap.Int("block_len", len(block)))
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, domain.NewNoQuestionsParsedError(raw)
	}
	return &domain.Quiz{Items: items, Dialect: domain.DialectText}, nil
}

// splitBlocks separates candidate question blocks. The primary separator is
// a blank line; a block that still contains several "Q..." headers (the
// alternate sub-dialect) is re-split before each header.
func splitBlocks(text string) []string {
	var blocks []string
	for _, block := range blockSeparator.Split(text, -1) {
		lines := strings.Split(block, "\n")
		var current []string
		for _, line := range lines {
			if isQuestionHeader(line) && len(current) > 0 && hasQuestionHeader(current) {
				blocks = append(blocks, strings.Join(current, "\n"))
				current = nil
			}
			current = append(current, line)
		}
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
		}
	}
	return blocks
}

func isQuestionHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "Q") && strings.Contains(trimmed, ":")
}

func hasQuestionHeader(lines []string) bool {
	for _, line := range lines {
		if isQuestionHeader(line) {
			return true
		}
	}
	return false
}

var optionPrefixes = []string{"A)", "B)", "C)", "D)"}

// parseTextBlock extracts one question from a block. Option text keeps its
// leading label ("A) ..."), matching how the upstream prompt shapes answers;
// grading compensates with a prefix comparison.
func parseTextBlock(block string) (domain.QuizItem, bool) {
	var item domain.QuizItem

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case item.Question == "" && isQuestionHeader(line):
			item.Question = afterColon(line)
		case strings.HasPrefix(line, "Answer"):
			item.CorrectLabel = afterColon(line)
		case strings.HasPrefix(line, "Explanation"):
			item.Explanation = afterColon(line)
		default:
			for _, prefix := range optionPrefixes {
				if strings.HasPrefix(line, prefix) {
					item.Options = append(item.Options, domain.Option{
						Label: prefix[:1],
						Text:  line,
					})
					break
				}
			}
		}
	}

	// A block without a question, at least one option, and an answer is
	// incomplete and gets dropped rather than failing the whole parse.
	if item.Question == "" || len(item.Options) == 0 || item.CorrectLabel == "" {
		return domain.QuizItem{}, false
	}
	return item, true
}

func afterColon(line string) string {
	idx := strings.Index(line, ":")
	if idx == -1 {
		return ""
	}
	return strings.TrimSpace(line[idx+1:])
}

// stripThinkBlock removes a reasoning-model <think>...</think> preamble so
// the brace scan does not latch onto JSON the model merely thought about.
func stripThinkBlock(s string) string {
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return strings.TrimSpace(s[:start] + s[end+len("</think>"):])
}
