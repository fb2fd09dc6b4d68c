package waiver

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/girdav01/gateguard/internal/core"
)

func TestStoreAddAndActive(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	now := time.Now()

	w := core.Waiver{
		Code:      "NET002",
		Path:      "gateway.bind",
		Reason:    "intentional LAN exposure in the lab",
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
	if err := store.Add(w); err != nil {
		t.Fatal(err)
	}

	active, err := store.Active(now)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 {
		t.Fatalf("active = %v, want one", active)
	}
	got := active[0]
	if got.Code != "NET002" || got.Path != "gateway.bind" || got.Reason != w.Reason {
		t.Errorf("waiver = %+v", got)
	}
}

func TestStoreExpiredExcluded(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	now := time.Now()

	if err := store.Add(core.Waiver{
		Code:      "RUN001",
		Reason:    "short-lived",
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}); err != nil {
		t.Fatal(err)
	}

	active, err := store.Active(now)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Errorf("active = %v, want none", active)
	}

	// The expired record stays on disk.
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	var f struct {
		Waivers []json.RawMessage `json:"waivers"`
	}
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatal(err)
	}
	if len(f.Waivers) != 1 {
		t.Errorf("on-disk records = %d, want 1", len(f.Waivers))
	}
}

func TestStoreUnparseableExpiryExcluded(t *testing.T) {
	dir := t.TempDir()
	body := `{"waivers":[
		{"code":"NET001","reason":"bad clock","created_at":"2026-01-01T00:00:00Z","expires_at":"not-a-time"},
		{"code":"RUN009","reason":"ok","created_at":"2026-01-01T00:00:00Z","expires_at":"2099-01-01T00:00:00Z"}
	]}`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	active, err := NewStore(dir).Active(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].Code != "RUN009" {
		t.Errorf("active = %v, want the one valid record", active)
	}
}

func TestStoreRemove(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	now := time.Now()
	expires := now.Add(time.Hour)

	for _, w := range []core.Waiver{
		{Code: "ACCESS001", Path: "channels.a.dmPolicy", CreatedAt: now, ExpiresAt: expires},
		{Code: "ACCESS001", Path: "channels.b.dmPolicy", CreatedAt: now, ExpiresAt: expires},
		{Code: "NET002", CreatedAt: now, ExpiresAt: expires},
	} {
		if err := store.Add(w); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := store.Remove("ACCESS001", "channels.a.dmPolicy")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	// Empty path removes every record with the code.
	removed, err = store.Remove("ACCESS001", "")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	active, err := store.Active(now)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].Code != "NET002" {
		t.Errorf("active = %v", active)
	}
}

func TestStoreRemoveNoMatch(t *testing.T) {
	removed, err := NewStore(t.TempDir()).Remove("NET001", "")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}

func TestStoreMissingFileIsEmpty(t *testing.T) {
	active, err := NewStore(t.TempDir()).Active(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Errorf("active = %v", active)
	}
}

func TestStoreFileMode(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	now := time.Now()
	if err := store.Add(core.Waiver{Code: "X", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %o, want 600", info.Mode().Perm())
	}
}
