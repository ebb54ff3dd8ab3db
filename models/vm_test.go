package models

import (
	"reflect"
	"testing"
)

func sample() []VM {
	return []VM{
		{ID: "qemu/101", Name: "win", Status: "stopped", Type: QEMU, VMID: 101},
		{ID: "storage/pve/local", Name: "local", Status: "available", Type: "storage"},
		{ID: "lxc/200", Name: "dns", Status: "running", Type: LXC, VMID: 200},
		{ID: "node/pve", Name: "pve", Status: "online", Type: "node"},
		{ID: "lxc/100", Name: "proxy", Status: "running", Type: LXC, VMID: 100},
	}
}

func TestFilterGuestsKeepsOrder(t *testing.T) {
	got := FilterGuests(sample())
	want := []VM{sample()[0], sample()[2], sample()[4]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterGuests() = %+v, want %+v", got, want)
	}
}

func TestFilterGuestsEmpty(t *testing.T) {
	got := FilterGuests(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("FilterGuests(nil) = %#v, want empty non-nil slice", got)
	}
}

func TestWithStatusCopies(t *testing.T) {
	vm := sample()[0]
	updated := vm.WithStatus(StatusRunning)
	if vm.Status != "stopped" {
		t.Errorf("original status changed to %q", vm.Status)
	}
	want := vm
	want.Status = StatusRunning
	if updated != want {
		t.Errorf("WithStatus() = %+v, want %+v", updated, want)
	}
}

func TestDisplayStatus(t *testing.T) {
	for status, want := range map[string]string{
		"running": "Running",
		"stopped": "Stopped",
		"":        "",
	} {
		if got := (VM{Status: status}).DisplayStatus(); got != want {
			t.Errorf("DisplayStatus(%q) = %q, want %q", status, got, want)
		}
	}
}

func TestGroupSectionsSortedByID(t *testing.T) {
	sections := Group(FilterGuests(sample()))
	if len(sections) != 2 {
		t.Fatalf("Group() returned %d sections, want 2", len(sections))
	}
	if sections[0].Title != "Containers" || sections[1].Title != "Virtual Machines" {
		t.Errorf("section titles = %q, %q", sections[0].Title, sections[1].Title)
	}
	ids := []string{sections[0].VMs[0].ID, sections[0].VMs[1].ID}
	if ids[0] != "lxc/100" || ids[1] != "lxc/200" {
		t.Errorf("container order = %v, want [lxc/100 lxc/200]", ids)
	}
}

func TestGroupOmitsEmptySections(t *testing.T) {
	sections := Group([]VM{{ID: "qemu/100", Type: QEMU}})
	if len(sections) != 1 || sections[0].Type != QEMU {
		t.Errorf("Group() = %+v, want only the qemu section", sections)
	}
}

func TestFind(t *testing.T) {
	if i := Find(sample(), "lxc/200"); i != 2 {
		t.Errorf("Find(lxc/200) = %d, want 2", i)
	}
	if i := Find(sample(), "lxc/999"); i != -1 {
		t.Errorf("Find(lxc/999) = %d, want -1", i)
	}
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		status string
		want   PowerAction
	}{
		{"running", ActionStop},
		{"stopped", ActionStart},
		{"paused", ActionStart},
		{"", ActionStart},
	}
	for _, tt := range tests {
		if got := ActionFor(tt.status); got != tt.want {
			t.Errorf("ActionFor(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
	if got := ActionStop.ResultingStatus(); got != StatusStopped {
		t.Errorf("ActionStop.ResultingStatus() = %q", got)
	}
	if got := ActionStart.ResultingStatus(); got != StatusRunning {
		t.Errorf("ActionStart.ResultingStatus() = %q", got)
	}
}
