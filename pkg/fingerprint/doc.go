// Package fingerprint computes comparable fingerprints of deployed artifacts.
//
// A fingerprint of a filesystem path is made of three independent metrics,
// each computed by its own synchronous walk of the tree:
//
//   - Size: byte length of a file, or for a directory the sum of every
//     regular file plus the storage size stat reports for every directory
//     node (comparable with `du -sb`).
//   - Digest: hash of a file's content, or for a directory the hash of the
//     newline-terminated hex digests of every regular file, in traversal
//     order.
//   - LastModified: mtime of a file in UTC, or for a directory the oldest
//     mtime among its regular files.
//
// # Usage
//
//	fp, err := fingerprint.New(fingerprint.WithAlgorithm("md5"))
//	if err != nil {
//	    return err
//	}
//	res, err := fp.Compute(ctx, "/srv/app/WEB-INF/lib")
//
// # Traversal order
//
// Directory entries are visited in the order the filesystem returns them
// (OrderNative). The directory digest is order sensitive, so two hosts with
// different enumeration order can report different digests for identical
// trees. OrderSorted visits entries by name and yields host independent
// digests that differ from native ones. PortableDigest offers the Go module
// "h1:" digest as a further host independent value.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package fingerprint
