// Package stacktrace trims runtime stacks down to this module's frames.
package stacktrace

import "strings"

// InternalPaths returns the "internal/<pkg>/<file>.go:<line>" locations found
// in a raw stack trace from runtime/debug.Stack.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines)/2)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}

		loc := line
		if sp := strings.IndexByte(line[idx:], ' '); sp != -1 {
			loc = line[:idx+sp]
		}

		internalIdx := strings.Index(loc, "/internal/")
		if internalIdx == -1 {
			continue
		}
		paths = append(paths, loc[internalIdx+1:])
	}

	return paths
}
