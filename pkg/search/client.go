package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Listing is the client-side view of a listing as returned by the API.
type Listing struct {
	ID              string  `json:"id"`
	Type            string  `json:"type"`
	Species         string  `json:"species"`
	Region          string  `json:"region"`
	Subregion       string  `json:"subregion"`
	LocationDetails *string `json:"locationDetails"`
	EventDate       string  `json:"eventDate"`
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	ImageURL        string  `json:"imageUrl"`
	Size            *string `json:"size"`
	Color           *string `json:"color"`
	AgeRange        *string `json:"ageRange"`
	SpecialMarks    *string `json:"specialMarks"`
	IsAggressive    bool    `json:"isAggressive"`
	IsFearful       bool    `json:"isFearful"`
	Status          string  `json:"status"`
	AuthorID        string  `json:"authorId"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
	Author          *Author `json:"author"`
}

// Author is the public profile embedded on a listing.
type Author struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatarUrl"`
	JoinedAt  string  `json:"joinedAt"`
}

// ListResult is one page of listings plus pagination metadata.
type ListResult struct {
	Data       []Listing  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// APIError is a non-2xx response decoded from the standard error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client calls the listings API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates an API client. A nil httpClient uses a default with a
// 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// ListListings fetches one page of listings for the given filters.
func (c *Client) ListListings(ctx context.Context, f FilterState, page, limit int) (*ListResult, error) {
	endpoint := c.baseURL + "/api/v1/listings?" + queryValues(f, page, limit).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var result ListResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

func decodeAPIError(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode, Code: "UNKNOWN", Message: "unexpected response"}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
