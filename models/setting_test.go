package models

import (
	"testing"

	"proxpeek/config"
)

func TestSettingStore(t *testing.T) {
	db := InitTestDB(t)
	store := NewSettingStore(db)

	want := config.Settings{ProxmoxIP: "https://10.0.0.2", ProxmoxPort: "8006", TokenID: "root@pam", APIToken: "tok"}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	want.APIToken = "tok2"
	if err := store.Save(want); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	if err := store.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	got, _ = store.Load()
	if !got.IsZero() {
		t.Errorf("Load() after Reset = %+v, want zero", got)
	}
}
