package pinterest

// Pin is a single saved image item on a board.
type Pin struct {
	ID    string `json:"id"`
	Note  string `json:"note"`
	Image Image  `json:"image"`
}

// ImageURL returns the URL of the pin's original-resolution image.
func (p Pin) ImageURL() string {
	return p.Image.Original.URL
}

// Image holds the image renditions the API returns for a pin. Only the
// original rendition is requested.
type Image struct {
	Original ImageVersion `json:"original"`
}

// ImageVersion is one rendition of a pin image.
type ImageVersion struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Board describes a board and its owner. The board-list endpoint fills only
// ID and URL.
type Board struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	URL     string  `json:"url"`
	Creator Creator `json:"creator"`
	Counts  Counts  `json:"counts"`
}

// PinCount returns the number of pins the board holds.
func (b Board) PinCount() int {
	return b.Counts.Pins
}

// CreatorName returns the board owner's display name.
func (b Board) CreatorName() string {
	return b.Creator.FirstName + " " + b.Creator.LastName
}

// Creator identifies the user who owns a board.
type Creator struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Counts carries the board's item counters.
type Counts struct {
	Pins int `json:"pins"`
}

// Page carries the pagination state of a pins response. Cursor is empty on
// the final page; Next is the prebuilt URL variant of the same information.
type Page struct {
	Cursor string `json:"cursor"`
	Next   string `json:"next"`
}

// PinPage is one page of pins together with the cursor that resumes
// iteration after it. NextCursor is empty on the final page.
type PinPage struct {
	Pins       []Pin
	NextCursor string
}

// Response envelopes used by the v1 endpoints.
type pinsResponse struct {
	Data []Pin `json:"data"`
	Page Page  `json:"page"`
}

type boardResponse struct {
	Data Board `json:"data"`
}

type boardsResponse struct {
	Data []Board `json:"data"`
}
