// Package pathutil validates provisioning paths and checks sets of paths in
// one batch so an operator sees every missing path at once instead of fixing
// them one failing run at a time.
package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forestctl/forestctl/internal/logging"
	"github.com/forestctl/forestctl/internal/messages"
)

// ErrPathMissing tags batch-check failures. Callers use errors.Is to
// distinguish missing paths from other filesystem errors.
var ErrPathMissing = errors.New("required path missing")

// ValidateProvisioningPath checks that path is non-empty and absolute:
// either drive-letter absolute (`C:\...`, the production form) or absolute
// on the host platform. label names the path in error messages ("database",
// "log", "sysvol").
func ValidateProvisioningPath(label, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf(messages.PathInvalidEmptyFmt, label)
	}
	if !isDriveAbsolute(path) && !filepath.IsAbs(path) {
		return fmt.Errorf(messages.PathNotAbsoluteFmt, label, path)
	}
	return nil
}

// isDriveAbsolute reports whether path has the form `X:\...`. Checked
// explicitly because filepath.IsAbs rejects drive paths on non-Windows
// builds, and provisioning paths are Windows paths wherever validation runs.
func isDriveAbsolute(path string) bool {
	if len(path) < 3 {
		return false
	}
	drive := path[0]
	if !(drive >= 'A' && drive <= 'Z' || drive >= 'a' && drive <= 'z') {
		return false
	}
	return path[1] == ':' && (path[2] == '\\' || path[2] == '/')
}

// CheckAll stats every path, treating any stat error as "missing", and
// reports all missing paths in a single error after the full scan. The
// error lists the present paths too, for context. On success it emits one
// log line and nothing else.
func CheckAll(log *logging.Logger, paths []string) error {
	var missing, present []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
			continue
		}
		present = append(present, p)
	}

	if len(missing) > 0 {
		presentList := messages.PathsNonePresent
		if len(present) > 0 {
			presentList = strings.Join(present, ", ")
		}
		err := fmt.Errorf(messages.PathsMissingFmt, strings.Join(missing, ", "), presentList)
		log.Errorf("%v", err)
		return fmt.Errorf("%w: %v", ErrPathMissing, err)
	}

	log.Infof(messages.PathsAllPresentFmt, len(paths))
	return nil
}
