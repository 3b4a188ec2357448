// Package enrichment looks up game-server details in the external status API.
package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnavailable wraps every failure: disabled client, transport error,
// error status or unexpected body. Callers only need errors.Is.
var ErrUnavailable = errors.New("enrichment unavailable")

// Enrichment is the normalized subset of the status API record. Each field is
// optional.
type Enrichment struct {
	DisplayName *string
	GameTitle   *string
	Region      *string
}

type Fetcher interface {
	Fetch(ctx context.Context, externalID string) (*Enrichment, error)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type serverDocument struct {
	Data *struct {
		Attributes *struct {
			Name     *string `json:"name"`
			Hostname *string `json:"hostname"`
			Country  *string `json:"country"`
			Details  *struct {
				ServerName *string `json:"serverName"`
				GameMode   *string `json:"gameMode"`
				Mode       *string `json:"mode"`
				Region     *string `json:"region"`
			} `json:"details"`
		} `json:"attributes"`
		Relationships *struct {
			Game *struct {
				Data *struct {
					ID *string `json:"id"`
				} `json:"data"`
			} `json:"game"`
		} `json:"relationships"`
	} `json:"data"`
}

func (c *Client) Fetch(ctx context.Context, externalID string) (*Enrichment, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("%w: no api key configured", ErrUnavailable)
	}

	endpoint := c.baseURL + "/servers/" + url.PathEscape(externalID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var doc serverDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", ErrUnavailable, err)
	}
	if doc.Data == nil || doc.Data.Attributes == nil {
		return nil, fmt.Errorf("%w: missing data.attributes", ErrUnavailable)
	}

	return doc.normalize(), nil
}

func (d *serverDocument) normalize() *Enrichment {
	attrs := d.Data.Attributes
	out := &Enrichment{}

	var serverName, gameMode, mode, region *string
	if attrs.Details != nil {
		serverName = attrs.Details.ServerName
		gameMode = attrs.Details.GameMode
		mode = attrs.Details.Mode
		region = attrs.Details.Region
	}
	var gameID *string
	if rel := d.Data.Relationships; rel != nil && rel.Game != nil && rel.Game.Data != nil {
		gameID = rel.Game.Data.ID
	}

	out.DisplayName = firstNonBlank(attrs.Name, serverName, attrs.Hostname)
	out.GameTitle = firstNonBlank(gameMode, mode, gameID)
	out.Region = firstNonBlank(region, attrs.Country)
	return out
}

func firstNonBlank(candidates ...*string) *string {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if v := strings.TrimSpace(*c); v != "" {
			return &v
		}
	}
	return nil
}
