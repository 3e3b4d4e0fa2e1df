// Package pinterest implements the subset of the Pinterest v1 REST API the
// downloader needs: board metadata, paginated board pins, and the
// authenticated user's board list. All calls are GET with the access token
// in the query string.
package pinterest

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"pindl/pkg/errors"
	"pindl/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client represents a Pinterest API client
type Client struct {
	httpClient  *http.Client
	headers     map[string]string
	baseURL     string
	accessToken string
	logger      logger.Logger
}

// NewClient creates a new Pinterest API client. A zero timeout leaves the
// transport defaults in place.
func NewClient(accessToken string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent": "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:41.0) " +
				"Gecko/20100101 Firefox/41.0",
			"Accept":          "*/*",
			"Accept-Language": "en",
		},
		baseURL:     DefaultBaseURL,
		accessToken: accessToken,
		logger:      log,
	}
}

// SetBaseURL points the client at a different API root.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetHeaders sets multiple headers at once
func (c *Client) SetHeaders(headers map[string]string) {
	for key, value := range headers {
		c.headers[key] = value
	}
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Code:    0,
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a GET request to the specified URL
func (c *Client) Get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Code:    0,
		}
	}

	return c.doRequest(req)
}

// GetJSON performs a GET request and decodes the JSON response. The request
// asks for gzip/deflate explicitly, which turns off the transport's
// transparent gzip handling; decompression happens here instead.
func (c *Client) GetJSON(url string, target interface{}) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Code:    0,
		}
	}
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if enc := resp.Header.Get("Content-Encoding"); enc == "gzip" || enc == "deflate" {
		decompressed, err := decompress(body)
		if err != nil {
			return &errors.Error{
				Type:    errors.ErrorTypeParsing,
				Message: fmt.Sprintf("failed to decompress %s response: %v", enc, err),
				Code:    resp.StatusCode,
			}
		}
		c.logger.DebugWithFields("response decompressed", map[string]interface{}{
			"encoding":     enc,
			"compressed":   len(body),
			"decompressed": len(decompressed),
		})
		body = decompressed
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// decompress undoes gzip or deflate response compression. The container is
// detected from the payload's magic bytes rather than trusted from the
// header, since servers occasionally mislabel one as the other. "deflate"
// covers both the zlib-wrapped form the HTTP spec means and the raw form
// some servers send.
func decompress(data []byte) ([]byte, error) {
	var r io.ReadCloser
	var err error

	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		r, err = gzip.NewReader(bytes.NewReader(data))
	} else {
		r, err = zlib.NewReader(bytes.NewReader(data))
		if err == zlib.ErrHeader {
			r = flate.NewReader(bytes.NewReader(data))
			err = nil
		}
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// checkResponseStatus checks the HTTP response status and returns appropriate errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		c.logger.WarnWithFields("authentication error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeAuth,
			Message: "authentication required",
			Code:    resp.StatusCode,
		}
	case http.StatusNotFound:
		c.logger.WarnWithFields("resource not found", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeNotFound,
			Message: "resource not found",
			Code:    resp.StatusCode,
		}
	case http.StatusTooManyRequests:
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeRateLimit,
			Message: "rate limit exceeded",
			Code:    resp.StatusCode,
		}
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		c.logger.ErrorWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeServerError,
			Message: "server error",
			Code:    resp.StatusCode,
		}
	default:
		if resp.StatusCode >= 400 {
			c.logger.ErrorWithFields("unexpected API error", map[string]interface{}{
				"status": resp.StatusCode,
				"url":    resp.Request.URL.String(),
			})
			return &errors.Error{
				Type:    errors.ErrorTypeUnknown,
				Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
				Code:    resp.StatusCode,
			}
		}
		return nil
	}
}

// FetchBoard fetches a board's metadata. The reference may be a board ID or
// a user/board path.
func (c *Client) FetchBoard(board string) (*Board, error) {
	c.logger.DebugWithFields("fetching board", map[string]interface{}{
		"board": board,
	})

	var response boardResponse
	if err := c.GetJSON(BoardURL(c.baseURL, board, c.accessToken), &response); err != nil {
		c.logger.ErrorWithFields("failed to fetch board", map[string]interface{}{
			"board": board,
			"error": err.Error(),
		})
		return nil, err
	}

	return &response.Data, nil
}

// FetchMyBoards fetches the authenticated user's boards.
func (c *Client) FetchMyBoards() ([]Board, error) {
	c.logger.Debug("fetching own boards")

	var response boardsResponse
	if err := c.GetJSON(MyBoardsURL(c.baseURL, c.accessToken), &response); err != nil {
		c.logger.ErrorWithFields("failed to fetch own boards", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	return response.Data, nil
}

// fetchPinPage fetches one page of a board's pins.
func (c *Client) fetchPinPage(board, cursor string) ([]Pin, string, error) {
	c.logger.DebugWithFields("fetching pins page", map[string]interface{}{
		"board":  board,
		"cursor": cursor,
	})

	var response pinsResponse
	if err := c.GetJSON(BoardPinsURL(c.baseURL, board, c.accessToken, cursor), &response); err != nil {
		c.logger.ErrorWithFields("failed to fetch pins page", map[string]interface{}{
			"board":  board,
			"cursor": cursor,
			"error":  err.Error(),
		})
		return nil, "", err
	}

	return response.Data, response.Page.Cursor, nil
}

// DownloadImage downloads an image from the given URL
func (c *Client) DownloadImage(imageURL string) ([]byte, error) {
	c.logger.DebugWithFields("downloading image", map[string]interface{}{
		"url": imageURL,
	})

	resp, err := c.Get(imageURL)
	if err != nil {
		c.logger.ErrorWithFields("failed to download image", map[string]interface{}{
			"url":   imageURL,
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.ErrorWithFields("failed to read image data", map[string]interface{}{
			"url":   imageURL,
			"error": err.Error(),
		})
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to download image: %v", err),
			Code:    0,
		}
	}

	c.logger.DebugWithFields("successfully downloaded image", map[string]interface{}{
		"url":  imageURL,
		"size": len(data),
	})

	return data, nil
}
