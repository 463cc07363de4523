package fingerprint

import (
	"context"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"time"
)

// Result is the fingerprint of one path.
type Result struct {
	// Path is the fingerprinted location as given by the caller.
	Path string

	// Dir reports whether Path is a directory.
	Dir bool

	// Size is the byte size, see Fingerprinter.Size.
	Size uint64

	// Digest is the lowercase hex content digest, see Fingerprinter.Digest.
	Digest string

	// Algorithm is the name of the hash used for Digest.
	Algorithm string

	// LastModified is the aggregate timestamp in UTC. Zero for a directory
	// without regular files.
	LastModified time.Time

	// Portable is the "h1:" digest when enabled, empty otherwise.
	Portable string
}

// Option configures a Fingerprinter.
type Option func(*options)

type options struct {
	algorithm string
	order     Order
	portable  bool
}

// WithAlgorithm selects the hash primitive by name. See Algorithms.
func WithAlgorithm(name string) Option {
	return func(o *options) {
		o.algorithm = name
	}
}

// WithOrder selects the directory traversal order.
func WithOrder(order Order) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithPortableDigest makes Compute also fill Result.Portable.
func WithPortableDigest(enabled bool) Option {
	return func(o *options) {
		o.portable = enabled
	}
}

// Fingerprinter computes size, digest and timestamp aggregates.
// It holds no mutable state and is safe for concurrent use.
type Fingerprinter struct {
	algo     Algorithm
	order    Order
	portable bool
}

// New creates a Fingerprinter. It fails with ErrUnsupportedAlgorithm when
// the configured algorithm is unknown.
func New(opts ...Option) (*Fingerprinter, error) {
	o := options{algorithm: DefaultAlgorithm, order: OrderNative}
	for _, opt := range opts {
		opt(&o)
	}

	algo, err := LookupAlgorithm(o.algorithm)
	if err != nil {
		return nil, err
	}

	return &Fingerprinter{algo: algo, order: o.order, portable: o.portable}, nil
}

// Algorithm returns the configured hash primitive.
func (f *Fingerprinter) Algorithm() Algorithm {
	return f.algo
}

// Order returns the configured traversal order.
func (f *Fingerprinter) Order() Order {
	return f.order
}

// Compute runs the three aggregates on path, one walk each, and stops at
// the first failure.
func (f *Fingerprinter) Compute(ctx context.Context, path string) (Result, error) {
	info, err := stat(path)
	if err != nil {
		return Result{}, err
	}

	res := Result{Path: path, Dir: info.IsDir(), Algorithm: f.algo.Name}

	if res.Size, err = f.Size(ctx, path); err != nil {
		return Result{}, err
	}
	if res.Digest, err = f.Digest(ctx, path); err != nil {
		return Result{}, err
	}
	if res.LastModified, err = f.LastModified(ctx, path); err != nil {
		return Result{}, err
	}
	if f.portable {
		if res.Portable, err = PortableDigest(path); err != nil {
			return Result{}, err
		}
	}

	return res, nil
}

// Size returns the byte length of a file. For a directory it returns the
// sum of every regular file length plus the size stat reports for every
// directory node visited, path included.
func (f *Fingerprinter) Size(ctx context.Context, path string) (uint64, error) {
	info, err := stat(path)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return uint64(info.Size()), nil
	}

	var total uint64
	err = walkDir(ctx, path, info, f.order, visitor{
		file: func(_ string, fi fs.FileInfo) error {
			total += uint64(fi.Size())
			return nil
		},
		postDir: func(_ string, di fs.FileInfo) error {
			total += uint64(di.Size())
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Digest returns the hex digest of a file's content. For a directory it
// hashes each regular file on its own and feeds "<hex>\n" for each of them,
// in traversal order, into a fresh outer hash.
func (f *Fingerprinter) Digest(ctx context.Context, path string) (string, error) {
	info, err := stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return f.hashFile(path)
	}

	outer := f.algo.New()
	err = walkDir(ctx, path, info, f.order, visitor{
		file: func(file string, _ fs.FileInfo) error {
			sum, err := f.hashFile(file)
			if err != nil {
				return err
			}
			_, err = io.WriteString(outer, sum+"\n")
			return err
		},
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(outer.Sum(nil)), nil
}

// LastModified returns a file's mtime in UTC. For a directory it returns
// the oldest mtime of its regular files; directory nodes are not
// considered. A directory without regular files yields the zero time.
func (f *Fingerprinter) LastModified(ctx context.Context, path string) (time.Time, error) {
	info, err := stat(path)
	if err != nil {
		return time.Time{}, err
	}
	if !info.IsDir() {
		return info.ModTime().UTC(), nil
	}

	var oldest time.Time
	err = walkDir(ctx, path, info, f.order, visitor{
		file: func(_ string, fi fs.FileInfo) error {
			mtime := fi.ModTime().UTC()
			if oldest.IsZero() || mtime.Before(oldest) {
				oldest = mtime
			}
			return nil
		},
	})
	if err != nil {
		return time.Time{}, err
	}
	return oldest, nil
}

// hashFile streams one file through a fresh hash. The handle is closed
// before returning.
func (f *Fingerprinter) hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", ioError("open", path, err)
	}
	defer file.Close()

	h := f.algo.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", ioError("read", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// stat resolves a root path. Only directories and regular files can be
// fingerprinted; a FIFO or device root would block on read.
func stat(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, ioError("stat", path, err)
	}
	if !info.IsDir() && !info.Mode().IsRegular() {
		return nil, ioError("stat", path, errNotRegular)
	}
	return info, nil
}
