// SPDX-License-Identifier: MPL-2.0

package images

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"instdirs-cli/pkg/directives"
)

// DockerfileName is the build descriptor expected in every artifact's
// build-context directory.
const DockerfileName = "Dockerfile"

// Artifact is one named, independently buildable container image with its
// build-context directory.
type Artifact struct {
	// Name is the image name, used as the repository part of its tags.
	Name string
	// ContextDir is the directory holding the Dockerfile and build inputs.
	ContextDir string
}

// Discover returns the build artifacts under contextDir in declaration
// order. When names is non-empty it gives the declaration order and every
// named subdirectory must contain a Dockerfile; otherwise the lexically
// sorted subdirectories of contextDir that contain a Dockerfile are used.
// A missing contextDir with no declared names yields no artifacts.
func Discover(contextDir string, names []string) ([]Artifact, error) {
	if len(names) > 0 {
		artifacts := make([]Artifact, 0, len(names))
		for _, name := range names {
			dir := filepath.Join(contextDir, name)
			if _, err := os.Stat(filepath.Join(dir, DockerfileName)); err != nil {
				return nil, &directives.ConfigurationError{
					Reason: fmt.Sprintf("declared image %q has no %s under %s", name, DockerfileName, dir),
					Cause:  err,
				}
			}
			artifacts = append(artifacts, Artifact{Name: name, ContextDir: dir})
		}
		return artifacts, nil
	}

	entries, err := os.ReadDir(contextDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan image context directory %s: %w", contextDir, err)
	}

	var artifacts []Artifact
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(contextDir, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, DockerfileName)); err != nil {
			continue
		}
		artifacts = append(artifacts, Artifact{Name: entry.Name(), ContextDir: dir})
	}
	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Name < artifacts[j].Name })
	return artifacts, nil
}

// baseRef returns the image reference from the FROM declaration on the
// first line of the artifact's Dockerfile, reduced to its bare name: any
// "as <alias>" clause and any ":<tag>" suffix are stripped. It returns the
// empty string when the first line is not a FROM declaration.
func (a Artifact) baseRef() (string, error) {
	f, err := os.Open(filepath.Join(a.ContextDir, DockerfileName))
	if err != nil {
		return "", fmt.Errorf("failed to read build descriptor for image %q: %w", a.Name, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", scanner.Err()
	}

	fields := strings.Fields(scanner.Text())
	if len(fields) < 2 || !strings.EqualFold(fields[0], "FROM") {
		return "", nil
	}

	// Taking only the second field drops any trailing "as <alias>" clause.
	ref := fields[1]
	if i := strings.IndexByte(ref, ':'); i >= 0 {
		ref = ref[:i]
	}
	return ref, nil
}
