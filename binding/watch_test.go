package binding

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatch_Reloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindings.yaml")

	if err := os.WriteFile(path, []byte("variables:\n  n: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	loaded := make(chan *Bindings, 16)
	done := make(chan error, 1)

	go func() {
		done <- Watch(ctx, path, func(b *Bindings, err error) {
			if err == nil {
				select {
				case loaded <- b:
				default:
				}
			}
		})
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(200 * time.Millisecond)

	defer tick.Stop()

	for {
		select {
		case b := <-loaded:
			if sig, _ := b.Signature("n"); sig != "n = 2" {
				continue
			}

			cancel()

			if err := <-done; err != nil {
				t.Errorf("Watch() error = %v", err)
			}

			return

		case <-tick.C:
			if err := os.WriteFile(path, []byte("variables:\n  n: 2\n"), 0o600); err != nil {
				t.Fatal(err)
			}

		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(t.Context(), filepath.Join(t.TempDir(), "no", "such.yaml"),
		func(*Bindings, error) {})
	if err == nil {
		t.Error("expected error watching a missing directory")
	}
}
