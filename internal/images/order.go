// SPDX-License-Identifier: MPL-2.0

package images

import (
	"instdirs-cli/internal/dag"
	"instdirs-cli/pkg/directives"
)

// BuildOrder returns the artifacts in the order they must be built so that
// every in-set base image precedes its first dependent. Teardown uses the
// exact reverse of this order.
//
// The ordering reproduces the legacy insertion behavior this tool replaces,
// which downstream packages depend on: artifacts are processed in
// declaration order, and whenever an artifact references an in-set base
// that is not yet placed, the base is moved to the FRONT of the sequence
// (not merely before the dependent). Unrelated bases therefore come out in
// reverse discovery order. This is a compatibility quirk, not a natural
// topological sort; do not "fix" it without migrating the consumers.
//
// References to images outside the artifact set are foreign bases and add
// no ordering constraint. A dependency cycle among in-set artifacts is
// rejected up front as a configuration error instead of being silently
// dropped.
func BuildOrder(artifacts []Artifact) ([]Artifact, error) {
	if len(artifacts) == 0 {
		return nil, nil
	}

	byName := make(map[string]Artifact, len(artifacts))
	for _, a := range artifacts {
		byName[a.Name] = a
	}

	bases := make(map[string]string, len(artifacts))
	graph := dag.New()
	for _, a := range artifacts {
		graph.AddNode(a.Name)
		base, err := a.baseRef()
		if err != nil {
			return nil, err
		}
		if _, known := byName[base]; known && base != a.Name {
			bases[a.Name] = base
			graph.AddEdge(base, a.Name)
		}
	}

	// Cycle pre-check only; the DAG's own ordering is NOT used.
	if _, err := graph.TopologicalSort(); err != nil {
		return nil, &directives.ConfigurationError{
			Reason: "dependency cycle among build artifacts",
			Cause:  err,
		}
	}

	order := make([]string, 0, len(artifacts))
	placed := make(map[string]bool, len(artifacts))
	for _, a := range artifacts {
		if base, ok := bases[a.Name]; ok && !placed[base] {
			order = append([]string{base}, order...)
			placed[base] = true
		}
		if !placed[a.Name] {
			order = append(order, a.Name)
			placed[a.Name] = true
		}
	}

	result := make([]Artifact, len(order))
	for i, name := range order {
		result[i] = byName[name]
	}
	return result, nil
}
