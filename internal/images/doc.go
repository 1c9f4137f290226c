// SPDX-License-Identifier: MPL-2.0

// Package images manages the auxiliary container images and secrets a
// package declares in its directives.
//
// Build artifacts are discovered from per-image subdirectories of a build
// context directory, each containing a Dockerfile. An artifact's dependency
// on another artifact is inferred from the base reference on the first line
// of its Dockerfile; references to images outside the artifact set are
// foreign bases and impose no ordering. The Manager builds images in
// dependency order, tears them down in reverse, and manages engine-level
// secrets with a caller-chosen existence policy.
package images
