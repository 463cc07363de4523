package fingerprint

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = "sha256"

// Algorithm is a named hash primitive.
type Algorithm struct {
	// Name is the identifier used in configuration and reports.
	Name string

	// Tool is the command line utility printing the same hex digest,
	// used to build compare hints ("md5sum", "b3sum", ...).
	Tool string

	// New returns a fresh hash state.
	New func() hash.Hash
}

var algorithms = map[string]Algorithm{
	"md5":    {Name: "md5", Tool: "md5sum", New: md5.New},
	"sha1":   {Name: "sha1", Tool: "sha1sum", New: sha1.New},
	"sha256": {Name: "sha256", Tool: "sha256sum", New: sha256.New},
	"sha512": {Name: "sha512", Tool: "sha512sum", New: sha512.New},
	"blake3": {Name: "blake3", Tool: "b3sum", New: func() hash.Hash { return blake3.New() }},
}

// LookupAlgorithm returns the algorithm registered under name (case insensitive).
func LookupAlgorithm(name string) (Algorithm, error) {
	algo, ok := algorithms[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Algorithm{}, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
	return algo, nil
}

// Algorithms lists the registered algorithm names in lexical order.
func Algorithms() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
