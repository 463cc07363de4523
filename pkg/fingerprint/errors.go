package fingerprint

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors for package fingerprint.
// These errors can be checked with errors.Is().
var (
	// ErrIO indicates an entry vanished, was not readable, or failed mid-read.
	ErrIO = errors.New("fingerprint: i/o failure")

	// ErrUnsupportedAlgorithm indicates the requested hash primitive is unknown.
	ErrUnsupportedAlgorithm = errors.New("fingerprint: unsupported algorithm")
)

var errNotRegular = errors.New("not a regular file or directory")

// ioError wraps err so that it matches both ErrIO and the underlying
// *fs.PathError (and therefore fs.ErrNotExist, fs.ErrPermission, ...).
func ioError(op, path string, err error) error {
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		err = &fs.PathError{Op: op, Path: path, Err: err}
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}
