package proxmox

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"proxpeek/config"
	"proxpeek/models"
)

const resourcesBody = `{"data":[
	{"id":"qemu/101","name":"win","status":"stopped","type":"qemu","vmid":101,"node":"homelab","maxmem":4096},
	{"id":"storage/homelab/local","storage":"local","status":"available","type":"storage","node":"homelab"},
	{"id":"lxc/100","name":"proxy","status":"running","type":"lxc","vmid":100},
	{"id":"node/homelab","node":"homelab","status":"online","type":"node"}
]}`

// settingsFor points settings at an httptest server.
func settingsFor(srv *httptest.Server) config.Settings {
	i := strings.LastIndex(srv.URL, ":")
	return config.Settings{
		ProxmoxIP:   srv.URL[:i],
		ProxmoxPort: srv.URL[i+1:],
		TokenID:     "root@pam",
		APIToken:    "secret",
	}
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Config{Settings: settingsFor(srv), Node: "homelab", HTTPClient: srv.Client()})
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		settings config.Settings
		want     string
		wantErr  bool
	}{
		{"https host", config.Settings{ProxmoxIP: "https://10.0.0.2", ProxmoxPort: "8006"}, "https://10.0.0.2:8006/api2/json", false},
		{"http host", config.Settings{ProxmoxIP: "http://pve.lan", ProxmoxPort: "80"}, "http://pve.lan:80/api2/json", false},
		{"empty host", config.Settings{ProxmoxPort: "8006"}, "", true},
		{"missing scheme", config.Settings{ProxmoxIP: "10.0.0.2", ProxmoxPort: "8006"}, "", true},
		{"hostname without scheme", config.Settings{ProxmoxIP: "pve", ProxmoxPort: "8006"}, "", true},
		{"bad port", config.Settings{ProxmoxIP: "https://10.0.0.2", ProxmoxPort: "80 06"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BaseURL(tt.settings)
			if tt.wantErr {
				if err == nil {
					t.Errorf("BaseURL() = %v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("BaseURL() error = %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("BaseURL() = %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestFetchVMsRequestShape(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotQuery = r.Method, r.URL.Path, r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(resourcesBody))
	}))
	defer srv.Close()

	vms, err := newTestClient(srv).FetchVMs(context.Background())
	if err != nil {
		t.Fatalf("FetchVMs() error = %v", err)
	}
	if gotMethod != http.MethodGet {
		t.Errorf("method = %s, want GET", gotMethod)
	}
	if gotPath != "/api2/json/cluster/resources" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "type=vm" {
		t.Errorf("query = %q, want type=vm", gotQuery)
	}
	if gotAuth != "PVEAPIToken=root@pam!api=secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}

	want := []models.VM{
		{ID: "qemu/101", Name: "win", Status: "stopped", Type: models.QEMU, VMID: 101},
		{ID: "lxc/100", Name: "proxy", Status: "running", Type: models.LXC, VMID: 100},
	}
	if !reflect.DeepEqual(vms, want) {
		t.Errorf("FetchVMs() = %+v, want %+v", vms, want)
	}
}

func TestFetchVMsErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    error
		message string
	}{
		{"server error", 500, "boom", ErrHTTPStatus, "HTTP error: 500 - Internal Server Error"},
		{"unauthorized", 401, "", ErrHTTPStatus, "HTTP error: 401 - Unauthorized"},
		{"empty body", 200, "", ErrNoData, "No data received from Proxmox API."},
		{"not json", 200, "<html>", ErrDecoding, "Decoding error: "},
		{"no data key", 200, `{"errors":{}}`, ErrDecoding, `Decoding error: missing key "data"`},
		{"null data", 200, `{"data":null}`, ErrDecoding, `Decoding error: missing key "data"`},
		{"guest without vmid", 200, `{"data":[{"id":"lxc/100","name":"a","status":"running","type":"lxc"}]}`, ErrDecoding, `Decoding error: data[0]: missing key "vmid"`},
		{"vmid as string", 200, `{"data":[{"id":"lxc/100","name":"a","status":"running","type":"lxc","vmid":"100"}]}`, ErrDecoding, "Decoding error: "},
		{"entry without id", 200, `{"data":[{"type":"node"}]}`, ErrDecoding, `Decoding error: data[0]: missing key "id"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			vms, err := newTestClient(srv).FetchVMs(context.Background())
			if vms != nil {
				t.Errorf("FetchVMs() = %+v, want nil", vms)
			}
			if !errors.Is(err, tt.kind) {
				t.Fatalf("FetchVMs() error = %v, want kind %v", err, tt.kind)
			}
			if !strings.HasPrefix(err.Error(), tt.message) {
				t.Errorf("message = %q, want prefix %q", err.Error(), tt.message)
			}
		})
	}
}

func TestFetchVMsEmptyListIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	vms, err := newTestClient(srv).FetchVMs(context.Background())
	if err != nil {
		t.Fatalf("FetchVMs() error = %v", err)
	}
	if len(vms) != 0 {
		t.Errorf("FetchVMs() = %+v, want empty", vms)
	}
}

func TestFetchVMsInvalidURLMakesNoCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	s := c.Settings()
	s.ProxmoxIP = ""
	c.SetSettings(s)

	_, err := c.FetchVMs(context.Background())
	if !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("FetchVMs() error = %v, want ErrInvalidURL", err)
	}
	if err.Error() != "Invalid Proxmox URL." {
		t.Errorf("message = %q", err.Error())
	}
	if calls.Load() != 0 {
		t.Errorf("server saw %d calls, want 0", calls.Load())
	}
}

func TestFetchVMsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := newTestClient(srv)
	srv.Close()

	_, err := c.FetchVMs(context.Background())
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("FetchVMs() error = %v, want ErrNetwork", err)
	}
	if !strings.HasPrefix(err.Error(), "Network error: ") {
		t.Errorf("message = %q", err.Error())
	}
	if strings.Contains(err.Error(), "/api2/json") {
		t.Errorf("message %q should not repeat the request URL", err.Error())
	}
}

func TestSetStatus(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":"UPID:homelab:0001"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	for _, action := range []models.PowerAction{models.ActionStop, models.ActionStart} {
		if err := c.SetStatus(context.Background(), "lxc/100", action); err != nil {
			t.Fatalf("SetStatus(%s) error = %v", action, err)
		}
		if gotMethod != http.MethodPost {
			t.Errorf("method = %s, want POST", gotMethod)
		}
		want := "/api2/json/nodes/homelab/lxc/100/status/" + string(action)
		if gotPath != want {
			t.Errorf("path = %q, want %q", gotPath, want)
		}
		if gotAuth != "PVEAPIToken=root@pam!api=secret" {
			t.Errorf("Authorization = %q", gotAuth)
		}
	}
}

func TestSetStatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	c := newTestClient(srv)

	err := c.SetStatus(context.Background(), "qemu/101", models.ActionStart)
	if !errors.Is(err, ErrHTTPStatus) {
		t.Fatalf("SetStatus() error = %v, want ErrHTTPStatus", err)
	}
	if err.Error() != "Failed to toggle state, Status Code: 403" {
		t.Errorf("message = %q", err.Error())
	}

	srv.Close()
	err = c.SetStatus(context.Background(), "qemu/101", models.ActionStart)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("SetStatus() error = %v, want ErrNetwork", err)
	}
	if !strings.HasPrefix(err.Error(), "Failed to toggle state: ") {
		t.Errorf("message = %q", err.Error())
	}
}
