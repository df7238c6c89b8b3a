package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name          string
		payload       string
		expectedTitle string
		expectedOK    bool
	}{
		{
			name:          "Alert as bare string",
			payload:       `{"aps": {"alert": "Shout to the Lord"}}`,
			expectedTitle: "Shout to the Lord",
			expectedOK:    true,
		},
		{
			name:          "Alert as object with body",
			payload:       `{"aps": {"alert": {"body": "Amazing Grace"}}}`,
			expectedTitle: "Amazing Grace",
			expectedOK:    true,
		},
		{
			name:          "Alert object with extra fields",
			payload:       `{"aps": {"alert": {"title": "New song", "body": "Amazing Grace", "badge": 1}}}`,
			expectedTitle: "Amazing Grace",
			expectedOK:    true,
		},
		{
			name:          "Empty string alert extracts empty title",
			payload:       `{"aps": {"alert": ""}}`,
			expectedTitle: "",
			expectedOK:    true,
		},
		{
			name:       "Missing aps",
			payload:    `{"data": {"alert": "Amazing Grace"}}`,
			expectedOK: false,
		},
		{
			name:       "Missing alert",
			payload:    `{"aps": {"badge": 3}}`,
			expectedOK: false,
		},
		{
			name:       "Alert object without body",
			payload:    `{"aps": {"alert": {"title": "Amazing Grace"}}}`,
			expectedOK: false,
		},
		{
			name:       "Alert is a number",
			payload:    `{"aps": {"alert": 42}}`,
			expectedOK: false,
		},
		{
			name:       "Body is not a string",
			payload:    `{"aps": {"alert": {"body": 42}}}`,
			expectedOK: false,
		},
		{
			name:       "Alert is null",
			payload:    `{"aps": {"alert": null}}`,
			expectedOK: false,
		},
		{
			name:       "Not JSON at all",
			payload:    `Amazing Grace`,
			expectedOK: false,
		},
		{
			name:       "Empty payload",
			payload:    ``,
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, ok := ExtractTitle([]byte(tt.payload))
			assert.Equal(t, tt.expectedOK, ok)
			if tt.expectedOK {
				assert.Equal(t, tt.expectedTitle, title)
			}
		})
	}
}
