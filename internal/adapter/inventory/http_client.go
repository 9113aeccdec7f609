package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rl1809/stock-reserve/internal/core/domain"
)

// Client talks to the inventory service over HTTP. The underlying http.Client
// has no global timeout; every call is bounded by a per-request context
// deadline so a slow inventory service cannot pin a coordinator worker.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
	}
}

type stockReply struct {
	Item  string `json:"item"`
	Stock int    `json:"stock"`
}

func (c *Client) CheckAvailability(ctx context.Context, item string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/stock/" + url.PathEscape(item)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("inventory request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, domain.ErrItemNotFound
	case resp.StatusCode != http.StatusOK:
		return 0, fmt.Errorf("inventory returned status %s", resp.Status)
	}

	var reply stockReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return 0, fmt.Errorf("decode inventory reply: %w", err)
	}
	return reply.Stock, nil
}
