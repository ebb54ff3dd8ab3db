// Package proxmox talks to the Proxmox VE REST API with a static API token.
package proxmox

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"proxpeek/config"
	"proxpeek/utils"
)

const apiPrefix = "/api2/json"

// Config configures a Client.
type Config struct {
	// Settings carries host, port and token credentials.
	Settings config.Settings

	// Node is the cluster node start/stop requests are sent to.
	Node string

	// HTTPClient overrides the default http.Client.
	HTTPClient *http.Client
}

// Client issues the resource listing and status requests. Settings can be
// swapped at runtime; every request reads the current value.
type Client struct {
	http *http.Client
	node string

	lock     sync.RWMutex
	settings config.Settings
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = utils.NewHTTPClient(30*time.Second, false)
	}
	return &Client{
		http:     httpClient,
		node:     cfg.Node,
		settings: cfg.Settings,
	}
}

// Settings returns the settings used for the next request.
func (c *Client) Settings() config.Settings {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.settings
}

// SetSettings replaces the connection settings.
func (c *Client) SetSettings(s config.Settings) {
	c.lock.Lock()
	c.settings = s
	c.lock.Unlock()
}

// Node returns the node name used in status paths.
func (c *Client) Node() string {
	return c.node
}

// BaseURL joins host and port into the API root, e.g.
// https://10.0.0.2:8006/api2/json. It fails when the result is not an
// absolute http(s) URL.
func BaseURL(s config.Settings) (*url.URL, error) {
	u, err := url.Parse(s.ProxmoxIP + ":" + s.ProxmoxPort + apiPrefix)
	if err != nil {
		return nil, err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &url.Error{Op: "parse", URL: u.String(), Err: ErrInvalidURL}
	}
	return u, nil
}

// AuthorizationHeader renders the PVEAPIToken header value.
func AuthorizationHeader(s config.Settings) string {
	return "PVEAPIToken=" + s.TokenID + "!api=" + s.APIToken
}

func (c *Client) newRequest(ctx context.Context, op Op, method string, elem []string, query url.Values) (*http.Request, error) {
	settings := c.Settings()
	base, err := BaseURL(settings)
	if err != nil {
		return nil, &Error{Op: op, Kind: ErrInvalidURL, Err: err}
	}
	u := base.JoinPath(elem...)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, &Error{Op: op, Kind: ErrInvalidURL, Err: err}
	}
	req.Header.Set("Authorization", AuthorizationHeader(settings))
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and returns the response body of a 200 reply.
func (c *Client) do(req *http.Request, op Op) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Kind: ErrNetwork, Err: transportCause(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &Error{Op: op, Kind: ErrHTTPStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: op, Kind: ErrNetwork, Err: err}
	}
	return body, nil
}
