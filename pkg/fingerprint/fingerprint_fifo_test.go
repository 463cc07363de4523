//go:build linux || darwin

package fingerprint

import (
	"context"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFingerprinter_RejectsFIFORoot(t *testing.T) {
	fifo := filepath.Join(t.TempDir(), "pipe")
	if err := syscall.Mkfifo(fifo, 0o644); err != nil {
		t.Skipf("mkfifo: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	fp := newMD5(t)

	done := make(chan error, 1)
	go func() {
		_, err := fp.Compute(ctx, fifo)
		done <- err
	}()

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrIO)
		require.ErrorContains(t, err, "not a regular file")
	case <-ctx.Done():
		t.Fatal("Compute blocked on a FIFO root")
	}

	_, err := fp.Size(ctx, fifo)
	require.ErrorIs(t, err, ErrIO)
	_, err = fp.LastModified(ctx, fifo)
	require.ErrorIs(t, err, ErrIO)
	_, err = PortableDigest(fifo)
	require.ErrorIs(t, err, ErrIO)
}
