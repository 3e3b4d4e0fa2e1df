package pinterest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoardURL(t *testing.T) {
	tests := []struct {
		name     string
		board    string
		expected string
	}{
		{
			name:     "board ID",
			board:    "414ravenclaw1897",
			expected: "https://api.pinterest.com/v1/boards/414ravenclaw1897/?access_token=tok&fields=id%2Cname%2Curl%2Ccreator%2Ccounts",
		},
		{
			name:     "user and board slug",
			board:    "wizard/charms",
			expected: "https://api.pinterest.com/v1/boards/wizard/charms/?access_token=tok&fields=id%2Cname%2Curl%2Ccreator%2Ccounts",
		},
		{
			name:     "slug needing escaping",
			board:    "wizard/dark arts",
			expected: "https://api.pinterest.com/v1/boards/wizard/dark%20arts/?access_token=tok&fields=id%2Cname%2Curl%2Ccreator%2Ccounts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BoardURL(DefaultBaseURL, tt.board, "tok"))
		})
	}
}

func TestBoardPinsURL(t *testing.T) {
	t.Run("first page omits cursor", func(t *testing.T) {
		got := BoardPinsURL(DefaultBaseURL, "wizard/charms", "tok", "")
		assert.Equal(t,
			"https://api.pinterest.com/v1/boards/wizard/charms/pins/?access_token=tok&fields=id%2Cnote%2Cimage&limit=100",
			got)
	})

	t.Run("later pages carry cursor", func(t *testing.T) {
		got := BoardPinsURL(DefaultBaseURL, "wizard/charms", "tok", "LT4xMDA6")
		assert.Equal(t,
			"https://api.pinterest.com/v1/boards/wizard/charms/pins/?access_token=tok&cursor=LT4xMDA6&fields=id%2Cnote%2Cimage&limit=100",
			got)
	})
}

func TestMyBoardsURL(t *testing.T) {
	assert.Equal(t,
		"https://api.pinterest.com/v1/me/boards/?access_token=tok&fields=id%2Curl",
		MyBoardsURL(DefaultBaseURL, "tok"))
}

func TestQuoteBoardPath(t *testing.T) {
	tests := []struct {
		name     string
		board    string
		expected string
	}{
		{"plain ID", "123456", "123456"},
		{"user and slug", "wizard/charms", "wizard/charms"},
		{"spaces", "head wizard/dark arts", "head%20wizard/dark%20arts"},
		{"unicode slug", "wizard/zaklęcia", "wizard/zakl%C4%99cia"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, quoteBoardPath(tt.board))
		})
	}
}
