package proxmox

import (
	"context"
	"net/http"

	"proxpeek/models"
)

// SetStatus posts a start or stop request for the guest with resource id
// (e.g. "lxc/100") on the configured node. The reply body is ignored; only
// HTTP 200 counts as success.
func (c *Client) SetStatus(ctx context.Context, id string, action models.PowerAction) error {
	req, err := c.newRequest(ctx, OpToggle, http.MethodPost,
		[]string{"nodes", c.node, id, "status", string(action)}, nil)
	if err != nil {
		return err
	}
	_, err = c.do(req, OpToggle)
	return err
}
