package watson

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ericfisherdev/adview/internal/domain/port/driven"
)

// tokenResponse is the subset of the IAM token response that is read.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Authenticate exchanges apiKey for a bearer token using the API-key grant.
func (c *Client) Authenticate(ctx context.Context, apiKey string) (string, error) {
	form := url.Values{}
	form.Set("apikey", apiKey)
	form.Set("grant_type", apiKeyGrantType)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.iamURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do("authenticate", req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decoding token response: %w: %w", driven.ErrMalformedResponse, err)
	}

	if tr.AccessToken == "" {
		return "", fmt.Errorf("token response has no access_token: %w", driven.ErrMalformedResponse)
	}

	return tr.AccessToken, nil
}
