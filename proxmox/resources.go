package proxmox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"proxpeek/models"
)

type multipleResponse[T any] struct {
	Data *[]T `json:"data"`
}

// resource mirrors one /cluster/resources entry. Pointers tell a missing key
// apart from a zero value.
type resource struct {
	ID     *string `json:"id"`
	Name   *string `json:"name"`
	Status *string `json:"status"`
	Type   *string `json:"type"`
	VMID   *int    `json:"vmid"`
}

func missingKey(index int, key string) error {
	return fmt.Errorf("data[%d]: missing key %q", index, key)
}

// toVM validates r. id and type are required on every entry; guests also
// need name, status and vmid.
func (r resource) toVM(index int) (models.VM, error) {
	if r.ID == nil {
		return models.VM{}, missingKey(index, "id")
	}
	if r.Type == nil {
		return models.VM{}, missingKey(index, "type")
	}
	vm := models.VM{ID: *r.ID, Type: models.ResourceType(*r.Type)}
	if !vm.Type.IsGuest() {
		return vm, nil
	}
	switch {
	case r.Name == nil:
		return models.VM{}, missingKey(index, "name")
	case r.Status == nil:
		return models.VM{}, missingKey(index, "status")
	case r.VMID == nil:
		return models.VM{}, missingKey(index, "vmid")
	}
	vm.Name, vm.Status, vm.VMID = *r.Name, *r.Status, *r.VMID
	return vm, nil
}

// DecodeResources parses a /cluster/resources body and returns its qemu and
// lxc entries in server order. Either every entry decodes or none is returned.
func DecodeResources(body []byte) ([]models.VM, error) {
	var response multipleResponse[resource]
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, err
	}
	if response.Data == nil {
		return nil, fmt.Errorf("missing key %q", "data")
	}
	resources := make([]models.VM, 0, len(*response.Data))
	for i, r := range *response.Data {
		vm, err := r.toVM(i)
		if err != nil {
			return nil, err
		}
		resources = append(resources, vm)
	}
	return models.FilterGuests(resources), nil
}

// FetchVMs lists the cluster's virtual machines and containers.
func (c *Client) FetchVMs(ctx context.Context) ([]models.VM, error) {
	req, err := c.newRequest(ctx, OpRefresh, http.MethodGet,
		[]string{"cluster", "resources"}, url.Values{"type": {"vm"}})
	if err != nil {
		return nil, err
	}
	body, err := c.do(req, OpRefresh)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, &Error{Op: OpRefresh, Kind: ErrNoData}
	}
	vms, err := DecodeResources(body)
	if err != nil {
		return nil, &Error{Op: OpRefresh, Kind: ErrDecoding, Err: err}
	}
	return vms, nil
}
