package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/labelwise/backend/internal/domain"
)

// Fixed text used when the model output carries no sustainability or
// recommendation signal
var (
	placeholderSustainabilityNotes = []string{
		"Packaging and sourcing analysis needed",
		"Environmental impact assessment required",
	}
	fallbackRecommendation = "Consider checking ingredient quality and sourcing."
)

// Section label patterns, matched case-insensitively
const (
	labelIngredients     = `ingredients?(?:\s+list)?`
	labelHealth          = `health(?:\s+(?:analysis|rating|score))?`
	labelConcerns        = `concerns?`
	labelBenefits        = `benefits?`
	labelRecommendations = `recommendations?`
)

var (
	ingredientsLabelRegex     = labelLineRegex(labelIngredients)
	healthLabelRegex          = labelLineRegex(labelHealth)
	concernsLabelRegex        = labelLineRegex(labelConcerns)
	benefitsLabelRegex        = labelLineRegex(labelBenefits)
	recommendationsLabelRegex = labelLineRegex(labelRecommendations)

	// Lines that open a new section: markdown headings, lines starting with a
	// bold label, or a numbered/bulleted bold label naming a known section
	headingLineRegex      = regexp.MustCompile(`^\s*#{1,6}\s*\S`)
	boldLineRegex         = regexp.MustCompile(`^\s*\*\*[^*]+\*\*`)
	knownSectionLineRegex = regexp.MustCompile(`(?i)^\s*(?:\d+[.)]\s*|[-*•]\s+)\*\*\s*(?:` +
		labelIngredients + `|health\b[^*]*|sustainability\b[^*]*|` +
		labelConcerns + `|` + labelBenefits + `|` + labelRecommendations + `|allergens?|summary)\s*:?\s*\*\*`)

	// Leading list markers: "1. ", "2) ", "- ", "* ", "• ", "+ "
	listMarkerRegex = regexp.MustCompile(`^\s*(?:(?:\d+[.)](?:\s+|$))|[-*•+]\s*)+`)

	// "health ... 7/10" on one line, then a bare "7/10" inside the health section.
	// The denominator must be exactly 10, so "65/100" is not a rating.
	healthRatingRegex = regexp.MustCompile(`(?i)health[^\n]*?(\d+(?:\.\d+)?)(?:/10|\s*out\s*of\s*10)\b`)
	bareRatingRegex   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)(?:/10|\s*out\s*of\s*10)\b`)
)

// labelLineRegex matches a line introducing the given section in any of the
// forms models tend to produce: "**Label**:", "**Label:**", "1. **Label**",
// "## Label" or "Label:". Group 6 is the text following the label.
func labelLineRegex(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\s*(#{1,6}\s*)?(?:\d+[.)]\s*)?(?:[-*•]\s+)?(\*\*)?\s*(?:` +
		label + `)\s*(:)?\s*(\*\*)?\s*(:)?\s*(.*)$`)
}

// ResponseParser turns free-form model text into typed results
type ResponseParser struct {
	scorer domain.Scorer
}

// NewResponseParser creates a parser; scorer fills in scores the text lacks
func NewResponseParser(scorer domain.Scorer) *ResponseParser {
	if scorer == nil {
		scorer = NewRandomScorer()
	}
	return &ResponseParser{scorer: scorer}
}

// ParseIngredients extracts the ingredient list from model output.
// The labeled Ingredient List section wins; otherwise the first line with at
// least two commas is used. Anything else is ErrNoIngredients.
func (p *ResponseParser) ParseIngredients(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyResponse
	}

	if section, ok := extractSection(text, ingredientsLabelRegex); ok {
		if items := splitIngredients(section); len(items) > 0 {
			return items, nil
		}
	}

	for _, line := range splitLines(text) {
		if strings.Count(line, ",") < 2 {
			continue
		}
		if items := splitIngredients(line); len(items) > 0 {
			return items, nil
		}
	}

	return nil, domain.ErrNoIngredients
}

// ParseAnalysis builds a ProductAnalysis from the five-section answer.
// Missing sections degrade to placeholders; only blank text is an error.
func (p *ResponseParser) ParseAnalysis(text string) (domain.ProductAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return domain.ProductAnalysis{}, domain.ErrEmptyResponse
	}

	var provenance domain.Provenance

	healthScore, ok := parseHealthRating(text)
	if !ok {
		healthScore = p.scorer.PlaceholderScore()
		provenance.Reason = "health score estimated"
	}

	// The model is not asked about sustainability
	sustainabilityScore := p.scorer.PlaceholderScore()

	healthNotes := []string{}
	if section, ok := extractSection(text, concernsLabelRegex); ok {
		healthNotes = append(healthNotes, extractListItems(section)...)
	}
	if section, ok := extractSection(text, benefitsLabelRegex); ok {
		healthNotes = append(healthNotes, extractListItems(section)...)
	}

	recommendation := fallbackRecommendation
	if section, ok := extractSection(text, recommendationsLabelRegex); ok {
		if items := extractListItems(section); len(items) > 0 {
			recommendation = strings.Join(items, " ")
		}
	}

	sustainabilityNotes := make([]string, len(placeholderSustainabilityNotes))
	copy(sustainabilityNotes, placeholderSustainabilityNotes)

	return domain.ProductAnalysis{
		HealthScore:         healthScore,
		SustainabilityScore: sustainabilityScore,
		OverallScore:        overall(healthScore, sustainabilityScore),
		HealthNotes:         healthNotes,
		SustainabilityNotes: sustainabilityNotes,
		Recommendation:      recommendation,
		Provenance:          provenance,
	}, nil
}

// parseHealthRating finds an "N/10" or "N out of 10" rating and scales it to 0-100
func parseHealthRating(text string) (int, bool) {
	match := healthRatingRegex.FindStringSubmatch(text)
	if match == nil {
		if section, ok := extractSection(text, healthLabelRegex); ok {
			match = bareRatingRegex.FindStringSubmatch(section)
		}
	}
	if match == nil {
		return 0, false
	}

	rating, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}

	score := int(math.Round(rating * 10))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, true
}

// extractSection returns the text after the first line matching labelRegex
// up to the next section boundary
func extractSection(text string, labelRegex *regexp.Regexp) (string, bool) {
	lines := splitLines(text)

	for i, line := range lines {
		match := labelRegex.FindStringSubmatch(line)
		if match == nil || !isLabelMatch(match) {
			continue
		}

		body := []string{}
		if rest := strings.TrimSpace(match[6]); rest != "" {
			body = append(body, rest)
		}
		for _, next := range lines[i+1:] {
			if isSectionBoundary(next) {
				break
			}
			body = append(body, next)
		}
		return strings.Join(body, "\n"), true
	}

	return "", false
}

// isLabelMatch rejects prose that merely starts with a label word: a real
// label is a heading, bold, or followed by a colon
func isLabelMatch(match []string) bool {
	heading := match[1] != ""
	bold := match[2] != "" && match[4] != ""
	colon := match[3] != "" || match[5] != ""
	return heading || bold || colon
}

func isSectionBoundary(line string) bool {
	return headingLineRegex.MatchString(line) ||
		boldLineRegex.MatchString(line) ||
		knownSectionLineRegex.MatchString(line)
}

// splitIngredients splits a section on newlines and on commas outside
// parentheses, so "Flour (wheat, niacin)" stays one ingredient
func splitIngredients(section string) []string {
	var items []string
	for _, line := range splitLines(section) {
		for _, item := range splitOutsideParens(stripListMarker(line), ',') {
			if cleaned := strings.TrimSpace(strings.TrimSuffix(cleanItem(item), ".")); cleaned != "" {
				items = append(items, cleaned)
			}
		}
	}
	return items
}

// extractListItems splits note sections on newlines and semicolons
func extractListItems(section string) []string {
	items := []string{}
	for _, line := range splitLines(section) {
		for _, part := range strings.Split(line, ";") {
			if cleaned := cleanItem(part); cleaned != "" {
				items = append(items, cleaned)
			}
		}
	}
	return items
}

func cleanItem(s string) string {
	s = stripListMarker(s)
	return strings.Trim(s, " \t*_")
}

func stripListMarker(s string) string {
	return listMarkerRegex.ReplaceAllString(s, "")
}

func splitOutsideParens(s string, sep rune) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + len(string(sep))
			}
		}
	}
	return append(parts, s[start:])
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
