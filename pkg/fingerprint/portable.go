package fingerprint

import (
	"io"
	"os"
	"path/filepath"

	"golang.org/x/mod/sumdb/dirhash"
)

// PortableDigest returns the Go module "h1:" digest of path. It hashes
// sorted slash-separated names together with contents, so it does not
// depend on the host's directory enumeration order.
func PortableDigest(path string) (string, error) {
	info, err := stat(path)
	if err != nil {
		return "", err
	}

	if info.IsDir() {
		sum, err := dirhash.HashDir(path, "", dirhash.Hash1)
		if err != nil {
			return "", ioError("hashdir", path, err)
		}
		return sum, nil
	}

	name := filepath.Base(path)
	sum, err := dirhash.Hash1([]string{name}, func(string) (io.ReadCloser, error) {
		return os.Open(path)
	})
	if err != nil {
		return "", ioError("hash", path, err)
	}
	return sum, nil
}
