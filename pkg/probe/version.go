package probe

import (
	"fmt"

	"github.com/bft-labs/bootprobe/pkg/classpath"
	"github.com/bft-labs/bootprobe/pkg/event"
	"github.com/bft-labs/bootprobe/pkg/fingerprint"
	"github.com/bft-labs/bootprobe/pkg/host"
	"github.com/bft-labs/bootprobe/pkg/lifecycle"
	"github.com/bft-labs/bootprobe/pkg/log"
	"github.com/bft-labs/bootprobe/pkg/report"
)

// Version information for the probe module.
const (
	// Version is the current version of the probe module.
	Version = "1.0.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	MinCompatibleVersion = "1.0.0"
)

// ModuleVersions returns the versions of every sub-module.
func ModuleVersions() map[string]string {
	return map[string]string{
		"probe":       Version,
		"fingerprint": fingerprint.Version,
		"classpath":   classpath.Version,
		"event":       event.Version,
		"host":        host.Version,
		"lifecycle":   lifecycle.Version,
		"log":         log.Version,
		"report":      report.Version,
	}
}

// validateModuleVersions checks that all module versions are compatible.
// Returns an error if any module version is below its minimum compatible version.
func validateModuleVersions() error {
	modules := map[string]struct {
		version    string
		minVersion string
	}{
		"fingerprint": {fingerprint.Version, fingerprint.MinCompatibleVersion},
		"classpath":   {classpath.Version, classpath.MinCompatibleVersion},
		"event":       {event.Version, event.MinCompatibleVersion},
		"host":        {host.Version, host.MinCompatibleVersion},
		"lifecycle":   {lifecycle.Version, lifecycle.MinCompatibleVersion},
		"log":         {log.Version, log.MinCompatibleVersion},
		"report":      {report.Version, report.MinCompatibleVersion},
	}

	for name, m := range modules {
		if !isVersionCompatible(m.version, m.minVersion) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, m.version, m.minVersion)
		}
	}

	return nil
}

// isVersionCompatible checks if version >= minVersion.
// Versions are in "major.minor.patch" form.
func isVersionCompatible(version, minVersion string) bool {
	var vMajor, vMinor, vPatch int
	var mMajor, mMinor, mPatch int

	_, _ = fmt.Sscanf(version, "%d.%d.%d", &vMajor, &vMinor, &vPatch)
	_, _ = fmt.Sscanf(minVersion, "%d.%d.%d", &mMajor, &mMinor, &mPatch)

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	if vMinor != mMinor {
		return vMinor > mMinor
	}
	return vPatch >= mPatch
}
