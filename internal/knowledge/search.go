package knowledge

import (
	"sort"
	"strings"

	"jce-assistant/internal/model"
)

// Match is one search hit.
type Match struct {
	Category  model.Category `json:"category"`
	Title     string         `json:"title"`
	Number    string         `json:"number"`
	Date      string         `json:"date"`
	Relevance int            `json:"relevance"`
}

// Search ranks entries whose text or title contains query as a substring,
// case-insensitively. Relevance is the number of occurrences in the text; ties
// keep the All order.
func (s *Store) Search(query string) []Match {
	q := strings.ToLower(query)
	if strings.TrimSpace(q) == "" {
		return nil
	}

	var matches []Match
	for _, item := range s.All() {
		text := strings.ToLower(item.Entry.Text)
		inText := strings.Contains(text, q)
		if !inText && !strings.Contains(strings.ToLower(item.Title), q) {
			continue
		}
		matches = append(matches, Match{
			Category:  item.Category,
			Title:     item.Title,
			Number:    item.Entry.Record.Number,
			Date:      item.Entry.Record.Date,
			Relevance: strings.Count(text, q),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Relevance > matches[j].Relevance
	})
	return matches
}
