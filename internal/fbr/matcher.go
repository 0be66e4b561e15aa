package fbr

import (
	"strings"
	"unicode"

	"github.com/fbr-invoice-engine/internal/domain/catalog"
)

// MatchThreshold is the minimum score a fuzzy match must strictly exceed
// before an entry is returned. The value is inherited from the production
// reconciliation data and is deliberately a constant, not configuration.
const MatchThreshold = 2

// keyTerms are domain words that carry most of the signal in FBR error text.
// A term found as a whole word in both the incoming message and a catalog
// entry scores double. Whole-word matching keeps short terms like "hs" from
// firing inside unrelated words.
var keyTerms = []string{
	"buyer", "seller", "ntn", "cnic", "registration", "invoice", "tax",
	"sales", "rate", "quantity", "value", "province", "hs", "code", "sro",
	"schedule", "serial", "uom", "withheld", "further", "date", "scenario",
}

// MatchCatalogEntry resolves a raw code/message pair against the catalog
// snapshot. An exact code match wins immediately. Otherwise the message is
// scored against every active entry by weighted term overlap; the first entry
// reaching the maximum score wins, provided the score clears MatchThreshold.
// Ties are broken by catalog iteration order; callers should treat the result
// as a best-effort hint, not a guarantee.
func MatchCatalogEntry(code, message string, entries []catalog.Entry) *catalog.Entry {
	if code != "" {
		for i := range entries {
			if entries[i].Code == code {
				return &entries[i]
			}
		}
	}

	if message == "" {
		return nil
	}

	incomingWords := splitWords(strings.ToLower(message))

	var best *catalog.Entry
	bestScore := 0

	for i := range entries {
		if !entries[i].Active {
			continue
		}
		entryText := strings.ToLower(entries[i].Message + " " + entries[i].Description)
		entryWords := splitWords(entryText)

		score := 0
		for _, term := range keyTerms {
			if hasWord(incomingWords, term) && hasWord(entryWords, term) {
				score += 2
			}
		}
		for _, word := range incomingWords {
			if len(word) > 3 && strings.Contains(entryText, word) {
				score++
			}
		}

		if score > bestScore {
			bestScore = score
			best = &entries[i]
		}
	}

	if bestScore > MatchThreshold {
		return best
	}
	return nil
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func hasWord(words []string, term string) bool {
	for _, w := range words {
		if w == term {
			return true
		}
	}
	return false
}
