package runstore

import (
	"os"
	"runtime"
	"sync"
)

var (
	// disk-backed candidate chosen once per process
	diskPreferredDir string
	dirDiscoveryOnce sync.Once
)

// ResolveParent returns the directory the scratch directory is created in.
// A non-empty dir is returned as is; if it is unusable creating the store
// fails. Otherwise the current working directory is used, unless
// preferDiskBacked asks for a location that is unlikely to be memory backed
// (such as /var/tmp instead of a tmpfs /tmp).
func ResolveParent(dir string, preferDiskBacked bool) string {
	if dir != "" {
		return dir
	}
	if !preferDiskBacked {
		return "."
	}
	dirDiscoveryOnce.Do(func() {
		diskPreferredDir = findDiskBackedDirectory()
	})
	return diskPreferredDir
}

// findDiskBackedDirectory returns the first usable disk-preferred candidate,
// falling back to the OS temp directory.
func findDiskBackedDirectory() string {
	for _, candidate := range diskPreferredCandidates() {
		if isDirectoryUsable(candidate) {
			return candidate
		}
	}
	return os.TempDir()
}

// diskPreferredCandidates lists directories that are traditionally disk backed.
func diskPreferredCandidates() []string {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly", "solaris":
		return []string{"/var/tmp"}
	case "darwin":
		return []string{"/var/tmp", "/private/var/tmp"}
	default:
		// windows temp dirs are disk backed already
		return nil
	}
}

// isDirectoryUsable reports whether dir is an existing directory or does not
// exist yet and can be created later. Writability is checked when the
// scratch directory is actually created.
func isDirectoryUsable(dir string) bool {
	stat, err := os.Stat(dir)
	if err != nil {
		return os.IsNotExist(err)
	}
	return stat.IsDir()
}
