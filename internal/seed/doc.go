// Package seed populates a process tree from the running system.
//
// Collect reads every live process out of procfs; Build inserts them into
// a tree in start-time order, so sibling order models creation order the
// same way the kernel's child lists do. Processes routinely vanish between
// the directory listing and the per-process reads, so Collect skips what
// it can no longer read instead of failing.
package seed
