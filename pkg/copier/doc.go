// Package copier copies one file at a time, deciding first whether an
// existing destination may be replaced (force, interactive, no-clobber or
// refuse) and whether it is stale enough to update.
package copier
