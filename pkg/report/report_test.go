package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bft-labs/bootprobe/pkg/classpath"
	"github.com/bft-labs/bootprobe/pkg/fingerprint"
)

func newBuilder(t *testing.T, opts ...fingerprint.Option) *Builder {
	t.Helper()
	fp, err := fingerprint.New(append([]fingerprint.Option{fingerprint.WithAlgorithm("md5")}, opts...)...)
	require.NoError(t, err)
	return NewBuilder(fp, "")
}

func TestBuilder_Build(t *testing.T) {
	root := t.TempDir()
	classes := filepath.Join(root, "WEB-INF", "classes")
	require.NoError(t, os.MkdirAll(classes, 0o755))
	mtime := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	require.NoError(t, os.WriteFile(filepath.Join(classes, "App.class"), []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(filepath.Join(classes, "App.class"), mtime, mtime))
	jar := filepath.Join(root, "lib.jar")
	require.NoError(t, os.WriteFile(jar, []byte("y"), 0o644))

	loader := &classpath.WebappLoader{
		Roots: []classpath.ResourceRoot{classpath.StaticRoot{"http://cdn.example.com/static/"}},
		Local: []string{
			classpath.FileURL(classes, true),
			"jar:" + classpath.FileURL(jar, false) + "!/",
		},
	}

	r, err := newBuilder(t).Build(context.Background(), "/app", loader)
	require.NoError(t, err)
	require.Len(t, r.Entries, 3)
	require.Nil(t, r.Entries[0].Result)
	require.NotNil(t, r.Entries[1].Result)
	require.True(t, r.Entries[1].Result.Dir)
	require.Equal(t, jar, r.Entries[2].Path)
	require.False(t, r.Entries[2].Result.Dir)

	text := r.String()
	lines := strings.Split(text, "\n")
	require.Equal(t, "[BOOTPROBE] starting '/app'", lines[0])
	require.Equal(t, "  - ClassLoader:", lines[1])
	require.Equal(t, "    * http://cdn.example.com/static/", lines[2])
	require.Equal(t, "    * "+classpath.FileURL(classes, true), lines[3])
	require.True(t, strings.HasPrefix(lines[4], "      o length="), lines[4])
	require.Contains(t, lines[5], "      o md5sum=")
	require.Contains(t, lines[5], "'find "+classes+` -type f -exec md5sum {} \; | cut -d" " -f1 | md5sum'`)
	require.Equal(t, "      o lastModified=2024-02-03T04:05:06Z", lines[6])
	require.Contains(t, text, "'md5sum "+jar+"'")
	require.NotContains(t, text, "dirhash=")
}

func TestBuilder_BuildPortable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))

	r, err := newBuilder(t, fingerprint.WithPortableDigest(true)).
		Build(context.Background(), "/app", classpath.StaticLoader{classpath.FileURL(dir, true)})
	require.NoError(t, err)
	require.Contains(t, r.String(), "      o dirhash=h1:")
}

func TestBuilder_BuildFailsOnMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.jar")

	_, err := newBuilder(t).Build(context.Background(), "/app", classpath.StaticLoader{classpath.FileURL(missing, false)})
	require.ErrorIs(t, err, fingerprint.ErrIO)

	_, err = newBuilder(t).Build(context.Background(), "/app", classpath.StaticLoader{"not a url"})
	require.ErrorIs(t, err, classpath.ErrMalformedURL)
}

func TestBuilder_EmptyLoader(t *testing.T) {
	r, err := newBuilder(t).Build(context.Background(), "", nil)
	require.NoError(t, err)
	require.Equal(t, "[BOOTPROBE] starting ''\n  - ClassLoader:", r.String())
}

func TestCompareCommand(t *testing.T) {
	algo, err := fingerprint.LookupAlgorithm("blake3")
	require.NoError(t, err)
	require.Equal(t, "'b3sum /srv/a.jar'", CompareCommand(algo, "/srv/a.jar", false))
	require.Equal(t, `'find /srv/app -type f -exec b3sum {} \; | cut -d" " -f1 | b3sum'`, CompareCommand(algo, "/srv/app", true))
}

func TestFormatTime(t *testing.T) {
	require.Equal(t, "n/a", FormatTime(time.Time{}))
	ts := time.Date(2024, 1, 1, 13, 0, 0, 500, time.FixedZone("X", 3600))
	require.Equal(t, "2024-01-01T12:00:00.0000005Z", FormatTime(ts))
}
