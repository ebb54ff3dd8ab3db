package controllers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"proxpeek/config"
	"proxpeek/models"
	"proxpeek/proxmox"

	log "github.com/sirupsen/logrus"
)

// ErrNoStore is returned when settings are changed without a configured store.
var ErrNoStore = errors.New("settings store not configured")

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.snapshotLocked()
}

// VMs returns a copy of the current guest list.
func (m *Manager) VMs() []models.VM {
	return m.Snapshot().VMs
}

// LastError returns the most recent failure message, or "".
func (m *Manager) LastError() string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.lastError
}

// AppReady reports whether all four settings are filled in. It gates nothing
// in the Manager itself.
func (m *Manager) AppReady() bool {
	return m.api.Settings().Ready()
}

// Find returns the guest with the given resource id.
func (m *Manager) Find(id string) (models.VM, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if i := models.Find(m.vms, id); i >= 0 {
		return m.vms[i], true
	}
	return models.VM{}, false
}

// Refresh fetches the guest list in the background. On success the list is
// replaced as a whole; on failure it is left untouched and the error message
// is recorded. The previous message is cleared when the call starts.
func (m *Manager) Refresh() *Operation {
	m.setError("")
	return m.run(proxmox.OpRefresh, func(ctx context.Context) error {
		vms, err := m.api.FetchVMs(ctx)
		if err != nil {
			return err
		}
		m.lock.Lock()
		m.vms = vms
		m.version++
		m.metrics.setGuests(vms)
		m.notify()
		m.lock.Unlock()
		log.Debugf("Fetched %d guests", len(vms))
		return nil
	})
}

// Toggle stops the guest when currentStatus is "running" and starts it
// otherwise. On HTTP 200 the guest's status is flipped locally without
// asking Proxmox again, so the list may run ahead of a guest that is still
// shutting down. Overlapping toggles of the same id are not serialised.
func (m *Manager) Toggle(id, currentStatus string, vmType models.ResourceType) *Operation {
	action := models.ActionFor(currentStatus)
	return m.run(proxmox.OpToggle, func(ctx context.Context) error {
		err := m.api.SetStatus(ctx, id, action)
		m.recordAction(id, vmType, action, err)
		if err != nil {
			return err
		}
		m.lock.Lock()
		if i := models.Find(m.vms, id); i >= 0 {
			vms := make([]models.VM, len(m.vms))
			copy(vms, m.vms)
			vms[i] = vms[i].WithStatus(action.ResultingStatus())
			m.vms = vms
			m.version++
			m.metrics.setGuests(vms)
			m.notify()
		}
		m.lock.Unlock()
		log.Infof("%s %s successfully", action.PastTense(), vmType)
		return nil
	})
}

// run executes fn on its own goroutine. Requests use the Manager's context,
// so only StopAll cancels them.
func (m *Manager) run(op proxmox.Op, fn func(ctx context.Context) error) *Operation {
	operation := newOperation()
	go func() {
		start := time.Now()
		err := fn(m.ctx)
		m.metrics.observe(op, err, time.Since(start))
		if err != nil {
			log.Warnf("%s failed: %v", op, err)
			m.setError(err.Error())
		}
		operation.finish(err)
	}()
	return operation
}

func (m *Manager) setError(msg string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.lastError == msg {
		return
	}
	m.lastError = msg
	m.version++
	m.notify()
}

func (m *Manager) recordAction(id string, vmType models.ResourceType, action models.PowerAction, err error) {
	entry := models.Action{
		ResourceID: id,
		VMID:       vmidOf(id),
		Type:       vmType,
		Action:     action,
		Success:    err == nil,
		Time:       time.Now(),
	}
	if err != nil {
		entry.Message = err.Error()
	}
	select {
	case m.actionChan <- entry:
	default:
	}
}

// vmidOf extracts 100 from "lxc/100". Unknown shapes yield 0.
func vmidOf(id string) int {
	_, tail, ok := strings.Cut(id, "/")
	if !ok {
		return 0
	}
	vmid, err := strconv.Atoi(tail)
	if err != nil {
		return 0
	}
	return vmid
}

// Settings returns the settings currently in use.
func (m *Manager) Settings() config.Settings {
	return m.api.Settings()
}

// UpdateSettings persists s and uses it for the next requests.
func (m *Manager) UpdateSettings(s config.Settings) error {
	if m.store == nil {
		return ErrNoStore
	}
	if err := m.store.Save(s); err != nil {
		return err
	}
	m.applySettings(s)
	return nil
}

// ResetSettings clears every stored setting.
func (m *Manager) ResetSettings() error {
	if m.store == nil {
		return ErrNoStore
	}
	if err := m.store.Reset(); err != nil {
		return err
	}
	m.applySettings(config.Settings{})
	return nil
}

func (m *Manager) applySettings(s config.Settings) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.api.SetSettings(s)
	m.version++
	m.notify()
}
