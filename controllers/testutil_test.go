package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"proxpeek/config"
	"proxpeek/proxmox"
)

const clusterBody = `{"data":[
	{"id":"qemu/101","name":"win","status":"stopped","type":"qemu","vmid":101},
	{"id":"storage/homelab/local","status":"available","type":"storage"},
	{"id":"lxc/100","name":"proxy","status":"running","type":"lxc","vmid":100},
	{"id":"lxc/102","name":"dns","status":"running","type":"lxc","vmid":102}
]}`

// fakeProxmox serves /cluster/resources and the status endpoints.
type fakeProxmox struct {
	srv *httptest.Server

	mu           sync.Mutex
	listStatus   int
	listBody     string
	toggleStatus int
	requests     []string
}

func newFakeProxmox(t *testing.T) *fakeProxmox {
	t.Helper()
	f := &fakeProxmox{listStatus: 200, listBody: clusterBody, toggleStatus: 200}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeProxmox) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	if strings.Contains(r.URL.Path, "/status/") {
		w.WriteHeader(f.toggleStatus)
		w.Write([]byte(`{"data":"UPID:homelab:00000001"}`))
		return
	}
	w.WriteHeader(f.listStatus)
	w.Write([]byte(f.listBody))
}

func (f *fakeProxmox) set(fn func(f *fakeProxmox)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeProxmox) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeProxmox) settings() config.Settings {
	i := strings.LastIndex(f.srv.URL, ":")
	return config.Settings{
		ProxmoxIP:   f.srv.URL[:i],
		ProxmoxPort: f.srv.URL[i+1:],
		TokenID:     "root@pam",
		APIToken:    "secret",
	}
}

func (f *fakeProxmox) client() *proxmox.Client {
	return proxmox.NewClient(proxmox.Config{
		Settings:   f.settings(),
		Node:       "homelab",
		HTTPClient: f.srv.Client(),
	})
}

func newTestManager(t *testing.T, f *fakeProxmox) *Manager {
	t.Helper()
	m := NewManager(context.Background(), nil, f.client())
	t.Cleanup(m.StopAll)
	return m
}

func wait(t *testing.T, op *Operation) error {
	t.Helper()
	return op.Wait(context.Background())
}
