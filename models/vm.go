package models

import (
	"sort"
	"strings"
)

// ResourceType is the guest kind reported by Proxmox.
type ResourceType string

const (
	QEMU ResourceType = "qemu"
	LXC  ResourceType = "lxc"
)

// Guest status values. Proxmox may report others (paused, suspended...).
const (
	StatusRunning = "running"
	StatusStopped = "stopped"
)

// IsGuest reports whether the resource type is a VM or a container.
func (t ResourceType) IsGuest() bool {
	return t == QEMU || t == LXC
}

// VM is one guest as returned by /cluster/resources.
type VM struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Status string       `json:"status"`
	Type   ResourceType `json:"type"`
	VMID   int          `json:"vmid"`
}

// IsRunning reports whether the guest is running.
func (vm VM) IsRunning() bool {
	return vm.Status == StatusRunning
}

// WithStatus returns a copy of vm carrying status.
func (vm VM) WithStatus(status string) VM {
	vm.Status = status
	return vm
}

// DisplayStatus returns the status with its first letter capitalised.
func (vm VM) DisplayStatus() string {
	if vm.Status == "" {
		return ""
	}
	return strings.ToUpper(vm.Status[:1]) + vm.Status[1:]
}

// FilterGuests keeps only qemu and lxc entries, preserving order.
func FilterGuests(resources []VM) []VM {
	guests := make([]VM, 0, len(resources))
	for _, r := range resources {
		if r.Type.IsGuest() {
			guests = append(guests, r)
		}
	}
	return guests
}

// OfType returns the entries of the given type, preserving order.
func OfType(vms []VM, t ResourceType) []VM {
	out := make([]VM, 0, len(vms))
	for _, vm := range vms {
		if vm.Type == t {
			out = append(out, vm)
		}
	}
	return out
}

// SortByID returns a copy of vms sorted by resource id.
func SortByID(vms []VM) []VM {
	sorted := make([]VM, len(vms))
	copy(sorted, vms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// Find returns the index of the VM with the given id, or -1.
func Find(vms []VM, id string) int {
	for i, vm := range vms {
		if vm.ID == id {
			return i
		}
	}
	return -1
}

// Section is a titled group of guests of one kind.
type Section struct {
	Title string
	Type  ResourceType
	VMs   []VM
}

// Group splits vms into the "Containers" and "Virtual Machines" sections, each
// sorted by id. Empty sections are omitted.
func Group(vms []VM) []Section {
	var sections []Section
	for _, s := range []Section{
		{Title: "Containers", Type: LXC},
		{Title: "Virtual Machines", Type: QEMU},
	} {
		s.VMs = SortByID(OfType(vms, s.Type))
		if len(s.VMs) > 0 {
			sections = append(sections, s)
		}
	}
	return sections
}
