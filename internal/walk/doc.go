// Package walk enumerates a process tree depth-first, pre-order, into a
// fixed-capacity record buffer.
//
// The traversal is iterative with an explicit work-stack owned by the
// walker, so call depth stays constant and no traversal state lives in the
// concurrently-mutated tree links themselves. The walker never allocates
// past its initial stack, never blocks and never fails: when the tree holds
// more processes than the buffer has slots, it keeps counting but stops
// storing, and the caller detects truncation by comparing the two returned
// counts.
package walk
