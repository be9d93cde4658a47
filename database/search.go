package database

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SearchQueryParser validates and transforms admin search text to PostgreSQL
// tsquery format. Enforces minimum/maximum length and strips tsquery operators.
type SearchQueryParser struct {
	minLength int
	maxLength int
}

// NewSearchQueryParser creates a SearchQueryParser with default limits:
// minimum 3 characters, maximum 1000 characters.
func NewSearchQueryParser() *SearchQueryParser {
	return &SearchQueryParser{
		minLength: 3,
		maxLength: 1000,
	}
}

var tsQueryOperators = strings.NewReplacer(
	`"`, " ",
	"'", "",
	"(", " ",
	")", " ",
	"&", " ",
	"|", " ",
	"!", " ",
	":", " ",
	"*", " ",
	"<", " ",
	">", " ",
	`\`, " ",
)

// Parse converts search text to tsquery format.
//
// Examples:
//
//	"Mobile App" → "mobile & app"
//	"a web b shop" → "web & shop" (single-character words are dropped)
//
// Returns error if the text is too short, too long, or becomes empty after filtering.
func (p *SearchQueryParser) Parse(query string) (string, error) {
	query = strings.TrimSpace(query)

	if utf8.RuneCountInString(query) < p.minLength {
		return "", fmt.Errorf("search query must be at least %d characters", p.minLength)
	}

	if utf8.RuneCountInString(query) > p.maxLength {
		return "", fmt.Errorf("search query too long (max %d characters)", p.maxLength)
	}

	words := strings.Fields(tsQueryOperators.Replace(query))
	if len(words) == 0 {
		return "", fmt.Errorf("search query is empty")
	}

	valid := p.filterValidWords(words)
	if len(valid) == 0 {
		return "", fmt.Errorf("no valid search terms")
	}

	return strings.Join(valid, " & "), nil
}

// Terms returns the lowercased words Parse would keep.
func (p *SearchQueryParser) Terms(query string) ([]string, error) {
	parsed, err := p.Parse(query)
	if err != nil {
		return nil, err
	}
	return strings.Split(parsed, " & "), nil
}

// normalizeSearchText applies the same operator stripping and case folding
// to stored text that Parse applies to the query.
func normalizeSearchText(text string) string {
	return strings.ToLower(tsQueryOperators.Replace(text))
}

func (p *SearchQueryParser) filterValidWords(words []string) []string {
	valid := []string{}
	for _, word := range words {
		if utf8.RuneCountInString(word) >= 2 {
			valid = append(valid, strings.ToLower(word))
		}
	}
	return valid
}
