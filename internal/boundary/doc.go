// Package boundary is the syscall-style adapter in front of the walker.
//
// It owns the full call protocol: validate the caller's buffer and count
// arguments, size the staging buffer from a stale process count, allocate
// it outside the tree lock, re-acquire the shared lock for the traversal,
// copy results into caller memory and write back the stored count. The
// true total process count is the call's result and may exceed the stored
// count; comparing the two is how callers detect truncation.
//
// Caller memory and allocation are collaborator interfaces (CallerBuffer,
// CallerCount, Allocator) so that the EFAULT and ENOMEM failure paths stay
// reachable in tests. In-process implementations for all three live here
// as well.
package boundary
