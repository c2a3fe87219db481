// SPDX-License-Identifier: MIT

package reliability

// Test bridge: exposes the size of the graph cache and the error classifier
// to reliability_test.

// Classify is classify.
var Classify = classify

// CachedGraphs returns the number of n values with a cache entry.
func (e *Engine) CachedGraphs() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.graphs)
}
