package controllers

import (
	"context"
	"sync"

	"proxpeek/config"
	"proxpeek/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Task interface {
	Setup(db *gorm.DB, manager *Manager)
	Main(ctx context.Context)
	String() string
}

// ProxmoxAPI is the part of the Proxmox client the Manager drives.
type ProxmoxAPI interface {
	FetchVMs(ctx context.Context) ([]models.VM, error)
	SetStatus(ctx context.Context, id string, action models.PowerAction) error
	Settings() config.Settings
	SetSettings(config.Settings)
}

// Snapshot is a consistent copy of the guest state.
type Snapshot struct {
	VMs     []models.VM `json:"items"`
	Error   string      `json:"error"`
	Ready   bool        `json:"ready"`
	Version uint64      `json:"version"`
}

// Manager owns the guest list and the last error message, and runs the
// background tasks that consume them. Both values are only ever replaced
// whole, under lock.
type Manager struct {
	api     ProxmoxAPI
	db      *gorm.DB
	store   config.Store
	metrics *Metrics

	lock      sync.RWMutex
	vms       []models.VM
	lastError string
	version   uint64

	subLock     sync.Mutex
	subscribers map[int]chan Snapshot
	nextSub     int

	actionChan chan models.Action

	ctx    context.Context
	cancel context.CancelFunc
	tasks  []Task
	wg     sync.WaitGroup
}

func NewManager(ctx context.Context, db *gorm.DB, api ProxmoxAPI) *Manager {
	cCtx, cancel := context.WithCancel(ctx)
	return &Manager{
		api:         api,
		db:          db,
		vms:         []models.VM{},
		subscribers: make(map[int]chan Snapshot),
		actionChan:  make(chan models.Action, 300),
		ctx:         cCtx,
		cancel:      cancel,
		tasks:       []Task{},
	}
}

// UseStore sets where UpdateSettings and ResetSettings persist to.
func (m *Manager) UseStore(store config.Store) {
	m.store = store
}

// UseMetrics attaches Prometheus collectors.
func (m *Manager) UseMetrics(metrics *Metrics) {
	m.metrics = metrics
}

// AddTask registers a new task with the Manager.
func (m *Manager) AddTask(task Task) {
	m.tasks = append(m.tasks, task)
}

// StartAll starts all tasks managed by the Manager.
func (m *Manager) StartAll() {
	for _, task := range m.tasks {
		task.Setup(m.db, m)
		m.wg.Add(1)
		go func(task Task) {
			defer m.wg.Done()
			log.Debugf("Task %s started", task)
			task.Main(m.ctx)
			log.Debugf("Task %s stopped", task)
		}(task)
	}
}

// StopAll cancels every task and in-flight request and waits for the tasks
// to return.
func (m *Manager) StopAll() {
	m.cancel()
	m.wg.Wait()
}

// Subscribe returns a channel receiving a Snapshot after every committed
// change, and a function to stop the subscription. A reader that falls
// behind only sees the most recent snapshot.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	m.subLock.Lock()
	id := m.nextSub
	m.nextSub++
	m.subscribers[id] = ch
	m.subLock.Unlock()

	return ch, func() {
		m.subLock.Lock()
		delete(m.subscribers, id)
		m.subLock.Unlock()
	}
}

// Actions delivers the outcome of every toggle. Outcomes are dropped when
// nobody keeps up with the channel.
func (m *Manager) Actions() <-chan models.Action {
	return m.actionChan
}

// notify must be called with m.lock held so subscribers see versions in order.
func (m *Manager) notify() {
	snap := m.snapshotLocked()
	m.subLock.Lock()
	defer m.subLock.Unlock()
	for _, ch := range m.subscribers {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (m *Manager) snapshotLocked() Snapshot {
	vms := make([]models.VM, len(m.vms))
	copy(vms, m.vms)
	return Snapshot{
		VMs:     vms,
		Error:   m.lastError,
		Ready:   m.api.Settings().Ready(),
		Version: m.version,
	}
}
