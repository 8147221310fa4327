// Package linkedin publishes posts through the LinkedIn UGC REST API.
package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const defaultBaseURL = "https://api.linkedin.com/v2"

// Config holds publisher construction parameters.
type Config struct {
	AccessToken string
	UserURN     string
	// BaseURL overrides the LinkedIn API root, used by tests.
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// PublishResult is the outcome of one publish attempt. Failures are carried
// in the result rather than as an error, mirroring the upstream API's
// always-answer behavior.
type PublishResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Client posts formatted text (optionally with an image) to LinkedIn.
type Client struct {
	accessToken string
	userURN     string
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a publisher. Missing credentials are not an error here;
// Publish reports them per attempt so the pipeline can record the failure.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		accessToken: cfg.AccessToken,
		userURN:     cfg.UserURN,
		baseURL:     baseURL,
		httpClient:  httpClient,
		logger:      logger.With("module", "linkedin"),
	}
}

// Publish formats the text for LinkedIn and creates a UGC post. When an
// image URL is given the image is uploaded first; an image-stage failure
// degrades to a text-only post instead of aborting.
func (c *Client) Publish(ctx context.Context, text string, imageURL *string) PublishResult {
	if c.accessToken == "" || c.userURN == "" {
		return PublishResult{Error: "missing LinkedIn credentials"}
	}

	formatted := FormatPost(text)

	var imageAsset string

	if imageURL != nil && *imageURL != "" {
		asset, err := c.uploadImage(ctx, *imageURL)
		if err != nil {
			c.logger.Error("Image upload failed, posting without image", "error", err)
		} else {
			imageAsset = asset
		}
	}

	shareContent := map[string]any{
		"shareCommentary":    map[string]any{"text": formatted},
		"shareMediaCategory": "NONE",
	}
	if imageAsset != "" {
		shareContent["shareMediaCategory"] = "IMAGE"
		shareContent["media"] = []map[string]any{
			{"status": "READY", "media": imageAsset},
		}
	}

	payload := map[string]any{
		"author":         c.userURN,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]any{
			"com.linkedin.ugc.ShareContent": shareContent,
		},
		"visibility": map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	var created struct {
		ID string `json:"id"`
	}

	if err := c.postJSON(ctx, c.baseURL+"/ugcPosts", payload, &created); err != nil {
		return PublishResult{Error: err.Error()}
	}

	return PublishResult{ID: created.ID, Success: true}
}

// ValidateToken probes the userinfo endpoint to check the access token.
func (c *Client) ValidateToken(ctx context.Context) bool {
	if c.accessToken == "" {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/userinfo", nil)
	if err != nil {
		return false
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}

	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// uploadImage runs the register-upload / fetch / PUT handshake and returns
// the asset URN to attach to the post.
func (c *Client) uploadImage(ctx context.Context, imageURL string) (string, error) {
	registerPayload := map[string]any{
		"registerUploadRequest": map[string]any{
			"recipes": []string{"urn:li:digitalmediaRecipe:feedshare-image"},
			"owner":   c.userURN,
			"serviceRelationships": []map[string]any{
				{
					"relationshipType": "OWNER",
					"identifier":       "urn:li:userGeneratedContent",
				},
			},
		},
	}

	var registered struct {
		Value struct {
			Asset           string `json:"asset"`
			UploadMechanism map[string]struct {
				UploadURL string `json:"uploadUrl"`
			} `json:"uploadMechanism"`
		} `json:"value"`
	}

	if err := c.postJSON(ctx, c.baseURL+"/assets?action=registerUpload", registerPayload, &registered); err != nil {
		return "", fmt.Errorf("failed to register upload: %w", err)
	}

	mechanism, ok := registered.Value.UploadMechanism["com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest"]
	if !ok || mechanism.UploadURL == "" {
		return "", fmt.Errorf("register upload returned no upload url")
	}

	imageReq, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid image url: %w", err)
	}

	imageResp, err := c.httpClient.Do(imageReq)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}

	defer imageResp.Body.Close()

	if imageResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download image: status %d", imageResp.StatusCode)
	}

	imageBody, err := io.ReadAll(imageResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	uploadReq, err := http.NewRequestWithContext(ctx, http.MethodPut, mechanism.UploadURL, bytes.NewReader(imageBody))
	if err != nil {
		return "", fmt.Errorf("invalid upload url: %w", err)
	}

	uploadReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	uploadReq.Header.Set("Content-Type", "image/jpeg")

	uploadResp, err := c.httpClient.Do(uploadReq)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	defer uploadResp.Body.Close()

	if uploadResp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("failed to upload image: status %d", uploadResp.StatusCode)
	}

	return registered.Value.Asset, nil
}

func (c *Client) postJSON(ctx context.Context, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr struct {
			Message string `json:"message"`
		}

		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("linkedin api error: %s", apiErr.Message)
		}

		return fmt.Errorf("linkedin api error: status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
