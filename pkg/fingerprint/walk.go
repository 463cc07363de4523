package fingerprint

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Order controls how directory entries are enumerated.
type Order int

const (
	// OrderNative keeps the order returned by the filesystem driver.
	OrderNative Order = iota
	// OrderSorted visits entries by name.
	OrderSorted
)

// String returns the configuration name of the order.
func (o Order) String() string {
	switch o {
	case OrderNative:
		return "native"
	case OrderSorted:
		return "sorted"
	default:
		return "unknown"
	}
}

// ParseOrder parses "native" or "sorted". Empty means native.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native":
		return OrderNative, nil
	case "sorted":
		return OrderSorted, nil
	default:
		return OrderNative, fmt.Errorf("unknown traversal order %q", s)
	}
}

// visitor receives the entries of a depth-first walk.
// file is called for each regular file; postDir after a directory's
// entries, with the info of the directory node itself.
type visitor struct {
	file    func(path string, info fs.FileInfo) error
	postDir func(path string, info fs.FileInfo) error
}

// walkDir visits dir depth first. The directory handle is only held while
// listing; entries are visited after it is closed. A symlink counts as a
// regular file when its target is one, with the target's size and mtime.
// Links to directories, dangling links, devices and sockets are skipped.
func walkDir(ctx context.Context, dir string, info fs.FileInfo, order Order, v visitor) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := readDir(dir)
	if err != nil {
		return err
	}
	if order == OrderSorted {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			childInfo, err := entry.Info()
			if err != nil {
				return ioError("lstat", path, err)
			}
			if err := walkDir(ctx, path, childInfo, order, v); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if v.file == nil {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			fileInfo, err := entry.Info()
			if err != nil {
				return ioError("lstat", path, err)
			}
			if err := v.file(path, fileInfo); err != nil {
				return err
			}
		case entry.Type()&fs.ModeSymlink != 0:
			if v.file == nil {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			target, err := os.Stat(path)
			if err != nil || !target.Mode().IsRegular() {
				continue
			}
			if err := v.file(path, target); err != nil {
				return err
			}
		}
	}

	if v.postDir != nil {
		return v.postDir(dir, info)
	}
	return nil
}

// readDir lists dir without sorting, unlike os.ReadDir.
func readDir(dir string) ([]fs.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, ioError("open", dir, err)
	}
	entries, err := f.ReadDir(-1)
	closeErr := f.Close()
	if err != nil {
		return nil, ioError("readdir", dir, err)
	}
	if closeErr != nil {
		return nil, ioError("close", dir, closeErr)
	}
	return entries, nil
}
