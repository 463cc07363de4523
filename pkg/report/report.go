// Package report renders the startup report of one application: its class
// loader roots and, for each filesystem root, the fingerprint metrics with a
// shell command an operator can run to compare them on another machine.
package report

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bft-labs/bootprobe/pkg/classpath"
	"github.com/bft-labs/bootprobe/pkg/fingerprint"
)

// DefaultTag prefixes the first line of every report.
const DefaultTag = "[BOOTPROBE]"

// Entry is one class loader root.
type Entry struct {
	// URL is the root location as reported by the loader.
	URL string

	// Path is the resolved filesystem path, empty when the root is not
	// backed by a local file.
	Path string

	// Result holds the metrics, nil when Path is empty.
	Result *fingerprint.Result
}

// Report is the startup report of one context.
type Report struct {
	Tag       string
	Context   string
	Algorithm fingerprint.Algorithm
	Entries   []Entry
}

// Builder computes reports with a shared Fingerprinter.
type Builder struct {
	fp  *fingerprint.Fingerprinter
	tag string
}

// NewBuilder creates a Builder. An empty tag selects DefaultTag.
func NewBuilder(fp *fingerprint.Fingerprinter, tag string) *Builder {
	if tag == "" {
		tag = DefaultTag
	}
	return &Builder{fp: fp, tag: tag}
}

// Algorithm returns the digest algorithm of the reports.
func (b *Builder) Algorithm() fingerprint.Algorithm {
	return b.fp.Algorithm()
}

// Build fingerprints every root of loader in loader order. The first
// failure aborts the whole report.
func (b *Builder) Build(ctx context.Context, contextPath string, loader classpath.Loader) (*Report, error) {
	r := &Report{Tag: b.tag, Context: contextPath, Algorithm: b.fp.Algorithm()}

	for _, raw := range classpath.Roots(loader) {
		entry := Entry{URL: raw}

		path, ok, err := classpath.Resolve(raw)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", raw, err)
		}
		if ok {
			res, err := b.fp.Compute(ctx, path)
			if err != nil {
				return nil, fmt.Errorf("fingerprint %s: %w", raw, err)
			}
			entry.Path = path
			entry.Result = &res
		}

		r.Entries = append(r.Entries, entry)
	}

	return r, nil
}

// String renders the report as multi-line text.
func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s starting '%s'\n  - ClassLoader:", r.Tag, r.Context)

	for _, e := range r.Entries {
		sb.WriteString("\n    * ")
		sb.WriteString(e.URL)
		if e.Result == nil {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(metadata(r.Algorithm, e.Path, e.Result))
	}

	return sb.String()
}

func metadata(algo fingerprint.Algorithm, path string, res *fingerprint.Result) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	var lines []string
	lines = append(lines,
		fmt.Sprintf("      o length=%d - use 'du -sb <folder>' to compare,", res.Size),
		fmt.Sprintf("      o %s=%s - use %s to compare", algo.Tool, res.Digest, CompareCommand(algo, abs, res.Dir)),
		fmt.Sprintf("      o lastModified=%s", FormatTime(res.LastModified)),
	)
	if res.Portable != "" {
		lines = append(lines, fmt.Sprintf("      o dirhash=%s", res.Portable))
	}
	return strings.Join(lines, "\n")
}

// CompareCommand returns the quoted shell command printing the same digest
// for path on another machine.
func CompareCommand(algo fingerprint.Algorithm, path string, dir bool) string {
	if dir {
		return fmt.Sprintf(`'find %s -type f -exec %s {} \; | cut -d" " -f1 | %s'`, path, algo.Tool, algo.Tool)
	}
	return fmt.Sprintf("'%s %s'", algo.Tool, path)
}

// FormatTime renders an aggregate timestamp, "n/a" for the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "n/a"
	}
	return t.UTC().Format(time.RFC3339Nano)
}
