// Package walker mirrors a source directory tree into a destination.
//
// A Dispatcher creates each destination directory, submits every regular file
// at that level to a shared Pool and descends into subdirectories. Each level
// waits on its own Pending counter until the pool has handled all of its
// files. Descents share one tree-wide bound, and a descent that finds the
// bound exhausted is walked by the caller instead of waiting for a slot.
package walker
