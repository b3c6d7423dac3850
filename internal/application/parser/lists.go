package parser

import (
	"strings"
	"unicode"

	"github.com/providervault/ai-service/internal/domain/entities"
)

const (
	referralPrefixChars = "0123456789.-) "
	bulletPrefixChars   = "-• "
)

// ParseReferrals decodes a numbered or dashed list of "Name: reason" lines.
// Only lines starting with a digit or a dash are considered; their leading
// numbering is stripped and the remainder is split on the first delimiter.
// Lines without a delimiter are skipped.
func ParseReferrals(text string) []entities.RelatedSpecialty {
	suggestions := []entities.RelatedSpecialty{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		first := []rune(line)[0]
		if !unicode.IsDigit(first) && first != '-' {
			continue
		}

		clean := strings.TrimLeft(line, referralPrefixChars)
		name, reason, ok := strings.Cut(clean, TagDelimiter)
		if !ok {
			continue
		}
		suggestions = append(suggestions, entities.RelatedSpecialty{
			Specialty: strings.TrimSpace(name),
			Reason:    strings.TrimSpace(reason),
		})
	}
	return suggestions
}

// ParseBullets returns the text of every line starting with "-" or "•".
func ParseBullets(text string) []string {
	items := []string{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "•") {
			continue
		}
		if item := strings.TrimSpace(strings.TrimLeft(line, bulletPrefixChars)); item != "" {
			items = append(items, item)
		}
	}
	return items
}
