package pinterest

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://api.pinterest.com/v1/"

	// MaxPageSize is the API-imposed maximum number of pins per page.
	MaxPageSize = 100

	// Field sets requested from the API.
	boardFields     = "id,name,url,creator,counts"
	pinFields       = "id,note,image"
	boardListFields = "id,url"
)

// BoardURL builds the board-metadata endpoint URL.
func BoardURL(baseURL, board, accessToken string) string {
	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("fields", boardFields)

	return fmt.Sprintf("%sboards/%s/?%s", baseURL, quoteBoardPath(board), params.Encode())
}

// BoardPinsURL builds the board-pins endpoint URL for one page. An empty
// cursor requests the first page.
func BoardPinsURL(baseURL, board, accessToken, cursor string) string {
	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("fields", pinFields)
	params.Set("limit", strconv.Itoa(MaxPageSize))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	return fmt.Sprintf("%sboards/%s/pins/?%s", baseURL, quoteBoardPath(board), params.Encode())
}

// MyBoardsURL builds the endpoint URL listing the authenticated user's
// boards.
func MyBoardsURL(baseURL, accessToken string) string {
	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("fields", boardListFields)

	return fmt.Sprintf("%sme/boards/?%s", baseURL, params.Encode())
}

// quoteBoardPath percent-encodes a board reference for use in a URL path,
// keeping the user/board slash separator intact.
func quoteBoardPath(board string) string {
	segments := strings.Split(board, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
