package testsupport

import (
	"testing"

	"tunetidy/internal/config"
	"tunetidy/internal/lookupcache"
)

// MustOpenStore opens a lookupcache.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *lookupcache.Store {
	t.Helper()

	store, err := lookupcache.Open(cfg.Paths.CachePath)
	if err != nil {
		t.Fatalf("lookupcache.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
