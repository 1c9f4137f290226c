// SPDX-License-Identifier: MPL-2.0

// Package container provides a unified abstraction layer for container engines (Docker/Podman).
//
// The Engine interface defines the operations the directive lifecycle needs:
// building and tagging images, resolving tags to IDs, removing images, and
// managing engine-level secrets. Two implementations are provided: DockerEngine
// and PodmanEngine, both embedding BaseCLIEngine for shared CLI argument
// construction and command execution.
//
// Engine selection uses NewEngine(EngineType) with automatic fallback if the
// preferred engine is unavailable (the fallback is reported to the caller),
// or AutoDetectEngine() for preference-less detection (Docker is tried first).
//
// Secret values are always passed to the engine over stdin, never as command
// line arguments.
package container
