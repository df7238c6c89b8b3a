package notify

import (
	"testing"

	"github.com/songboard/songboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() domain.Catalog {
	return domain.Catalog{
		{ID: 0, Title: "Amazing Grace", Lyrics: "Amazing grace, how sweet the sound"},
		{ID: 1, Title: "Shout to the Lord", Lyrics: "My Jesus, my Saviour"},
	}
}

func TestRoute(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		catalog    domain.Catalog
		expectedID uint8
		expectedOK bool
	}{
		{
			name:       "Object alert matches first song",
			payload:    `{"aps": {"alert": {"body": "Amazing Grace"}}}`,
			catalog:    testCatalog(),
			expectedID: 0,
			expectedOK: true,
		},
		{
			name:       "Bare string alert matches identically",
			payload:    `{"aps": {"alert": "Shout to the Lord"}}`,
			catalog:    testCatalog(),
			expectedID: 1,
			expectedOK: true,
		},
		{
			name:       "Case-insensitive match",
			payload:    `{"aps": {"alert": "amazing grace"}}`,
			catalog:    testCatalog(),
			expectedID: 0,
			expectedOK: true,
		},
		{
			name:       "Surrounding whitespace trimmed",
			payload:    `{"aps": {"alert": "  Amazing Grace \n"}}`,
			catalog:    testCatalog(),
			expectedID: 0,
			expectedOK: true,
		},
		{
			name:       "Unknown song selects nothing",
			payload:    `{"aps": {"alert": "Unknown Song"}}`,
			catalog:    testCatalog(),
			expectedOK: false,
		},
		{
			name:       "No extractable title selects nothing",
			payload:    `{"aps": {"badge": 1}}`,
			catalog:    testCatalog(),
			expectedOK: false,
		},
		{
			name:       "Empty title never matches",
			payload:    `{"aps": {"alert": "   "}}`,
			catalog:    domain.Catalog{{ID: 0, Title: ""}},
			expectedOK: false,
		},
		{
			name:       "Empty catalog means no matches possible",
			payload:    `{"aps": {"alert": "Amazing Grace"}}`,
			catalog:    nil,
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			song, ok := Route([]byte(tt.payload), tt.catalog)
			assert.Equal(t, tt.expectedOK, ok)

			if tt.expectedOK {
				require.NotNil(t, song)
				assert.Equal(t, tt.expectedID, song.ID)
			} else {
				assert.Nil(t, song)
			}
		})
	}
}

// Route returns a copy, never a pointer into the catalog slice
func TestRoute_ReturnsCopy(t *testing.T) {
	catalog := testCatalog()
	song, ok := Route([]byte(`{"aps": {"alert": "Amazing Grace"}}`), catalog)
	require.True(t, ok)

	song.Title = "mutated"
	assert.Equal(t, "Amazing Grace", catalog[0].Title)
}

// First match wins when two entries share a title modulo case
func TestRoute_FirstMatchWins(t *testing.T) {
	catalog := domain.Catalog{
		{ID: 4, Title: "it is well"},
		{ID: 9, Title: "It Is Well"},
	}

	song, ok := Route([]byte(`{"aps": {"alert": "IT IS WELL"}}`), catalog)
	require.True(t, ok)
	assert.Equal(t, uint8(4), song.ID)
}
