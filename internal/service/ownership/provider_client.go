// internal/service/ownership/provider_client.go
package ownership

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPAdminClient talks to the messaging provider's admin API to enumerate
// the credentials registered for a user. Authenticated with a service-level
// admin key; end-user credentials never travel on this call.
type HTTPAdminClient struct {
	baseURL  string
	adminKey string
	client   *http.Client
}

func NewHTTPAdminClient(baseURL, adminKey string, timeout time.Duration) *HTTPAdminClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPAdminClient{
		baseURL:  baseURL,
		adminKey: adminKey,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *HTTPAdminClient) ListTokens(ctx context.Context, userID int64) ([]string, error) {
	url := fmt.Sprintf("%s/admin/users/%d/tokens", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider admin request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.adminKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider admin request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider admin returned status %d", resp.StatusCode)
	}

	var body struct {
		Tokens []string `json:"tokens"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode provider admin response: %w", err)
	}
	return body.Tokens, nil
}
