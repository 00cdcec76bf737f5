package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"tunetidy/internal/deps"
)

// minFreeBytes is the floor below which a run is refused; rewriting tags and
// copying backups both need scratch space.
const minFreeBytes = 64 << 20

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has usable headroom.
// A path that does not exist yet is checked at its nearest existing parent.
func CheckFreeSpace(name, path string) Result {
	probe := path
	for {
		if _, err := os.Stat(probe); err == nil {
			break
		}
		parent := strings.TrimRight(probe, "/")
		if idx := strings.LastIndex(parent, "/"); idx > 0 {
			probe = parent[:idx]
			continue
		}
		probe = "/"
		break
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(probe, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", probe, err)}
	}

	free := stat.Bavail * uint64(stat.Bsize)
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%s free, need at least %s)", probe, formatBytes(free), formatBytes(minFreeBytes))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s free)", probe, formatBytes(free))}
}

// CheckFpcalc verifies the fingerprinting binary is on PATH.
func CheckFpcalc(binary string) Result {
	const name = "Chromaprint fpcalc"

	statuses := deps.CheckBinaries(deps.Requirements(binary))
	if len(statuses) == 0 || !statuses[0].Available {
		detail := "not found"
		if len(statuses) > 0 && statuses[0].Detail != "" {
			detail = statuses[0].Detail
		}
		return Result{Name: name, Detail: detail}
	}
	return Result{Name: name, Passed: true, Detail: statuses[0].Command}
}

// CheckCredential verifies an AcoustID API key is configured. Validity is
// only provable by the first lookup, so this check is presence-only.
func CheckCredential(apiKey string) Result {
	const name = "AcoustID API key"

	if strings.TrimSpace(apiKey) == "" {
		return Result{Name: name, Detail: "missing (set acoustid.api_key or TUNETIDY_ACOUSTID_API_KEY)"}
	}
	return Result{Name: name, Passed: true, Detail: "configured"}
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
