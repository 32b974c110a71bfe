// Package scorer grades prompt text against lexical heuristics and produces
// a 1-5 score with improvement suggestions. All matching is case-insensitive
// substring/regex matching against fixed vocabulary; no external calls.
package scorer

import (
	"regexp"
	"strings"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
)

// Prompts longer than this are penalized as too long.
const tooLongChars = 1500

// taskWindow is how many leading words are scanned for an action verb.
const taskWindow = 8

// maxSuggestions caps the advice list.
const maxSuggestions = 3

// Signals are the boolean features detected in the prompt text.
type Signals struct {
	HasTask        bool `json:"has_task"`
	HasFormat      bool `json:"has_format"`
	HasLengthLimit bool `json:"has_length_limit"`
	HasConstraints bool `json:"has_constraints"`
	HasContext     bool `json:"has_context"`
	TooLong        bool `json:"too_long"`
}

// Details carry the raw measurements behind the score.
type Details struct {
	Chars              int      `json:"chars"`
	ApproxTokens       int      `json:"approx_tokens"`
	FluffCount         int      `json:"fluff_count"`
	ConstraintKeywords []string `json:"constraint_keywords"`
	DomainKeywords     []string `json:"domain_keywords"`
}

// Result is the full scoring output.
type Result struct {
	Score       int      `json:"score"`
	Signals     Signals  `json:"signals"`
	Suggestions []string `json:"suggestions"`
	Details     Details  `json:"details"`
}

var actionVerbs = map[string]struct{}{
	"summarize": {}, "write": {}, "list": {}, "explain": {}, "describe": {},
	"compare": {}, "translate": {}, "rewrite": {}, "extract": {}, "classify": {},
	"generate": {}, "draft": {}, "analyze": {}, "create": {}, "convert": {},
	"outline": {}, "answer": {}, "fix": {}, "review": {}, "rank": {},
	"identify": {}, "calculate": {}, "implement": {}, "refactor": {},
}

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	formatWordRe  = regexp.MustCompile(`(?i)\b(json|yaml|xml|csv|markdown|html|table|bullet points?|bulleted list|numbered list)\b`)
	returnOnlyRe  = regexp.MustCompile(`(?i)\b(return|output|respond with)\s+only\b`)
	bracePairRe   = regexp.MustCompile(`\{[^{}]*\}`)
	lengthLimitRe = regexp.MustCompile(`(?i)\d+\s*(words?|tokens?|chars?|characters?|sentences?|lines?|paragraphs?|bullets?)\b`)
	lengthBoundRe = regexp.MustCompile(`(?i)\b(max|maximum|at most|no more than|under|within|up to|limit(?:ed)? to)\b[^.\n]{0,20}?\d+`)
	yearRe        = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	multiDigitRe  = regexp.MustCompile(`\b\d{2,}\b`)
)

var constraintWords = []string{
	"must", "should", "only", "avoid", "exclude", "without", "exactly",
	"at least", "at most", "do not", "don't", "never", "always", "except",
	"required", "strictly",
}

var domainWords = []string{
	"api", "sql", "python", "javascript", "kubernetes", "database",
	"revenue", "marketing", "medical", "legal", "financial", "security",
	"climate", "customer", "research", "contract", "algorithm", "dataset",
	"tax", "compliance",
}

var fluffPhrases = []string{
	"please", "kindly", "i was wondering", "if possible", "would you mind",
	"sort of", "kind of", "you know", "i think", "i guess", "maybe",
	"perhaps", "basically", "actually", "really", "very",
}

// Suggestion texts, in the fixed priority order they are emitted.
const (
	suggestTask        = "Start with a clear action verb (e.g., Summarize, Draft, List)."
	suggestFormat      = "Specify the output format (e.g., JSON, a table, bullet points)."
	suggestLength      = "Add an explicit length limit (words, sentences, or tokens)."
	suggestConstraints = "State constraints: what to include, exclude, or avoid."
	suggestContext     = "Add concrete context such as dates, numbers, or domain terms."
	suggestVerbosity   = "Shorten the prompt; keep only what the task needs."
	suggestFluff       = "Cut filler words and politeness phrases."
)

// pickText chooses the text to score: the explicit text if set, otherwise
// the last user-authored message, otherwise all message contents joined.
func pickText(text string, messages []entities.ChatMessage) string {
	if strings.TrimSpace(text) != "" {
		return text
	}
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" && strings.TrimSpace(messages[i].Content) != "" {
			return messages[i].Content
		}
	}
	var parts []string
	for _, m := range messages {
		if strings.TrimSpace(m.Content) != "" {
			parts = append(parts, m.Content)
		}
	}
	return strings.Join(parts, " ")
}

// hasTask reports whether one of the first taskWindow words is an action verb.
func hasTask(lower string) bool {
	words := strings.Fields(lower)
	if len(words) > taskWindow {
		words = words[:taskWindow]
	}
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?\"'()")
		if _, ok := actionVerbs[w]; ok {
			return true
		}
	}
	return false
}

// matchWords returns the vocabulary entries present in the text, in
// vocabulary order.
func matchWords(lower string, vocab []string) []string {
	var found []string
	for _, w := range vocab {
		if strings.Contains(lower, w) {
			found = append(found, w)
		}
	}
	return found
}

// Score evaluates prompt text (or a structured conversation) and returns the
// score, signals, suggestions and raw measurements.
func Score(text string, messages []entities.ChatMessage) Result {
	normalized := strings.TrimSpace(whitespaceRe.ReplaceAllString(pickText(text, messages), " "))
	lower := strings.ToLower(normalized)

	constraintHits := matchWords(lower, constraintWords)
	domainHits := matchWords(lower, domainWords)

	fluffCount := 0
	for _, phrase := range fluffPhrases {
		fluffCount += strings.Count(lower, phrase)
	}

	chars := len([]rune(normalized))
	sig := Signals{
		HasTask: hasTask(lower),
		HasFormat: formatWordRe.MatchString(normalized) ||
			strings.Contains(normalized, "```") ||
			bracePairRe.MatchString(normalized) ||
			returnOnlyRe.MatchString(normalized),
		HasLengthLimit: lengthLimitRe.MatchString(normalized) || lengthBoundRe.MatchString(normalized),
		HasConstraints: len(constraintHits) > 0,
		HasContext: yearRe.MatchString(normalized) ||
			multiDigitRe.MatchString(normalized) ||
			len(domainHits) > 0,
		TooLong: chars > tooLongChars,
	}

	score := 1
	if sig.HasTask {
		score++
	}
	if sig.HasFormat {
		score++
	}
	if sig.HasLengthLimit || sig.HasConstraints {
		score++
	}
	if sig.HasContext {
		score++
	}
	if sig.TooLong {
		score--
	}
	if fluffCount >= 3 {
		score--
	}
	if score < 1 {
		score = 1
	}
	if score > 5 {
		score = 5
	}

	var suggestions []string
	add := func(cond bool, tip string) {
		if cond && len(suggestions) < maxSuggestions {
			suggestions = append(suggestions, tip)
		}
	}
	add(!sig.HasTask, suggestTask)
	add(!sig.HasFormat, suggestFormat)
	add(!sig.HasLengthLimit, suggestLength)
	add(!sig.HasConstraints, suggestConstraints)
	add(!sig.HasContext, suggestContext)
	add(sig.TooLong, suggestVerbosity)
	add(fluffCount >= 3, suggestFluff)

	approxTokens := chars / 4
	if approxTokens < 1 {
		approxTokens = 1
	}

	return Result{
		Score:       score,
		Signals:     sig,
		Suggestions: suggestions,
		Details: Details{
			Chars:              chars,
			ApproxTokens:       approxTokens,
			FluffCount:         fluffCount,
			ConstraintKeywords: constraintHits,
			DomainKeywords:     domainHits,
		},
	}
}
