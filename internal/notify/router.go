package notify

import (
	"strings"

	"github.com/songboard/songboard/internal/domain"
)

// Route matches a push payload against the catalog and returns the song
// it selects, if any.
//
// Matching is case-insensitive on the trimmed extracted title; push
// providers re-case notification text too freely for a case-sensitive
// comparison to hold up. The first catalog entry that matches wins. No
// extractable title or no matching song means no selection, which is
// steady-state behavior rather than an error.
func Route(data []byte, catalog domain.Catalog) (*domain.Song, bool) {
	title, ok := ExtractTitle(data)
	if !ok {
		return nil, false
	}

	want := strings.TrimSpace(title)
	if want == "" {
		return nil, false
	}

	for i := range catalog {
		if strings.EqualFold(strings.TrimSpace(catalog[i].Title), want) {
			song := catalog[i]
			return &song, true
		}
	}

	return nil, false
}
