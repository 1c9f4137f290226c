// SPDX-License-Identifier: MPL-2.0

package directives

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// VersionFileName is the name of the marker file holding the last
// successfully installed version inside a package's state directory.
const VersionFileName = "version"

// VersionStore persists and retrieves the last-installed version marker for
// a package. The marker is a single text line inside the package's state
// directory. The zero value is ready to use.
type VersionStore struct{}

// Read returns the version recorded in stateDir. A missing marker file is
// not an error: it returns the empty string, which unambiguously means
// "never installed" because recorded versions are non-empty by invariant.
func (VersionStore) Read(stateDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(stateDir, VersionFileName))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read version marker in %s: %w", stateDir, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Write records version in stateDir, overwriting any previous marker. The
// marker is written to a temporary file and renamed into place so a crash
// mid-write cannot leave a partially-written file that Read would accept.
// The state directory must already exist; creating it is the caller's job.
func (VersionStore) Write(stateDir, version string) error {
	tmp, err := os.CreateTemp(stateDir, VersionFileName+".*")
	if err != nil {
		return fmt.Errorf("failed to write version marker in %s: %w", stateDir, err)
	}
	tmpName := tmp.Name()

	_, werr := tmp.WriteString(version + "\n")
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmpName)
		if werr != nil {
			return fmt.Errorf("failed to write version marker in %s: %w", stateDir, werr)
		}
		return fmt.Errorf("failed to write version marker in %s: %w", stateDir, cerr)
	}

	if err := os.Rename(tmpName, filepath.Join(stateDir, VersionFileName)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write version marker in %s: %w", stateDir, err)
	}
	return nil
}
