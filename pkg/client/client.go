// Package client is a typed Go client for the action endpoint, plus feed
// pollers that substitute for push delivery: fixed-interval polling with an
// independent cursor and cancellation per polled resource.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// APIError is a non-2xx response from the endpoint.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	// BaseURL is the endpoint URL, e.g. "https://host/api/app".
	BaseURL string
	// Token is sent with every request that has one set.
	Token      string
	HTTPClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// do posts one action envelope and decodes the response into out.
func (c *Client) do(ctx context.Context, action string, fields map[string]any, out any) error {
	body := map[string]any{"action": action}
	if c.Token != "" {
		body["token"] = c.Token
	}
	for k, v := range fields {
		body[k] = v
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ---------- Wire types ----------

type Profile struct {
	ID         string  `json:"id"`
	Username   *string `json:"username"`
	Age        *int    `json:"age"`
	Gender     *string `json:"gender"`
	Address    *string `json:"address"`
	Occupation *string `json:"occupation"`
	Motivation *string `json:"motivation"`
}

type ChatMessage struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ListingSummary struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Title      string    `json:"title"`
	Price      float64   `json:"price"`
	ImageURL   *string   `json:"image_url"`
	RegionCode *string   `json:"region_code"`
	CreatedAt  time.Time `json:"created_at"`
}

type Listing struct {
	ListingSummary
	UserID      string `json:"user_id"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

type Thread struct {
	ID            int64     `json:"id"`
	ListingID     *int64    `json:"listing_id"`
	UserAID       string    `json:"user_a_id"`
	UserBID       string    `json:"user_b_id"`
	UserAUsername string    `json:"user_a_username"`
	UserBUsername string    `json:"user_b_username"`
	OtherID       string    `json:"other_id"`
	OtherUsername string    `json:"other_username"`
	CreatedAt     time.Time `json:"created_at"`
}

type ThreadMessage struct {
	ID             int64     `json:"id"`
	ThreadID       int64     `json:"thread_id"`
	SenderID       string    `json:"sender_id"`
	SenderUsername string    `json:"sender_username"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ---------- Actions ----------

func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, "me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) SetUsername(ctx context.Context, username string) error {
	return c.do(ctx, "set-username", map[string]any{"username": username}, nil)
}

func (c *Client) GetProfile(ctx context.Context, username string) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, "get-profile", map[string]any{"username": username}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, patch map[string]any) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, "update-profile", map[string]any{"patch": patch}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListMessages(ctx context.Context, afterID int64, limit int) ([]ChatMessage, error) {
	var out struct {
		Messages []ChatMessage `json:"messages"`
	}
	fields := map[string]any{"limit": limit}
	if afterID > 0 {
		fields["after_id"] = afterID
	}
	if err := c.do(ctx, "list-messages", fields, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *Client) SendMessage(ctx context.Context, content string) (*ChatMessage, error) {
	var out struct {
		Message ChatMessage `json:"message"`
	}
	if err := c.do(ctx, "send-message", map[string]any{"content": content}, &out); err != nil {
		return nil, err
	}
	return &out.Message, nil
}

// CreateListingInput mirrors the create-listing fields.
type CreateListingInput struct {
	Title       string  `json:"title"`
	Address     string  `json:"address"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url,omitempty"`
	RegionCode  string  `json:"region_code"`
}

func (c *Client) CreateListing(ctx context.Context, in CreateListingInput) (*Listing, error) {
	fields := map[string]any{
		"title":       in.Title,
		"address":     in.Address,
		"price":       in.Price,
		"description": in.Description,
		"region_code": in.RegionCode,
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}
	var out struct {
		Listing Listing `json:"listing"`
	}
	if err := c.do(ctx, "create-listing", fields, &out); err != nil {
		return nil, err
	}
	return &out.Listing, nil
}

func (c *Client) ListAllListings(ctx context.Context, regionCode, search string, limit int) ([]ListingSummary, error) {
	fields := map[string]any{"limit": limit}
	if regionCode != "" {
		fields["region_code"] = regionCode
	}
	if search != "" {
		fields["search"] = search
	}
	var out struct {
		Listings []ListingSummary `json:"listings"`
	}
	if err := c.do(ctx, "list-all-listings", fields, &out); err != nil {
		return nil, err
	}
	return out.Listings, nil
}

func (c *Client) GetListing(ctx context.Context, id int64) (*Listing, error) {
	var out struct {
		Listing Listing `json:"listing"`
	}
	if err := c.do(ctx, "get-listing", map[string]any{"id": id}, &out); err != nil {
		return nil, err
	}
	return &out.Listing, nil
}

func (c *Client) StartDMWithUser(ctx context.Context, targetUsername string) (*Thread, error) {
	return c.startDM(ctx, map[string]any{"target_username": targetUsername})
}

func (c *Client) StartDMAboutListing(ctx context.Context, listingID int64) (*Thread, error) {
	return c.startDM(ctx, map[string]any{"listing_id": listingID})
}

func (c *Client) startDM(ctx context.Context, fields map[string]any) (*Thread, error) {
	var out struct {
		Thread Thread `json:"thread"`
	}
	if err := c.do(ctx, "start-dm", fields, &out); err != nil {
		return nil, err
	}
	return &out.Thread, nil
}

func (c *Client) GetDMThread(ctx context.Context, threadID int64) (*Thread, error) {
	var out struct {
		Thread Thread `json:"thread"`
	}
	if err := c.do(ctx, "get-dm-thread", map[string]any{"thread_id": threadID}, &out); err != nil {
		return nil, err
	}
	return &out.Thread, nil
}

func (c *Client) ListDMMessages(ctx context.Context, threadID, afterID int64, limit int) ([]ThreadMessage, error) {
	fields := map[string]any{"thread_id": threadID, "limit": limit}
	if afterID > 0 {
		fields["after_id"] = afterID
	}
	var out struct {
		Messages []ThreadMessage `json:"messages"`
	}
	if err := c.do(ctx, "list-dm-messages", fields, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *Client) SendDMMessage(ctx context.Context, threadID int64, content string) (*ThreadMessage, error) {
	var out struct {
		Message ThreadMessage `json:"message"`
	}
	fields := map[string]any{"thread_id": threadID, "content": content}
	if err := c.do(ctx, "send-dm-message", fields, &out); err != nil {
		return nil, err
	}
	return &out.Message, nil
}

func (c *Client) ListDMThreads(ctx context.Context, listingID *int64, limit int) ([]Thread, error) {
	fields := map[string]any{"limit": limit}
	if listingID != nil {
		fields["listing_id"] = *listingID
	}
	var out struct {
		Threads []Thread `json:"threads"`
	}
	if err := c.do(ctx, "list-dm-threads", fields, &out); err != nil {
		return nil, err
	}
	return out.Threads, nil
}
