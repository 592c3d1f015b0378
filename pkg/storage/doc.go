// Package storage classifies the medium behind a path and turns the classes
// of a copy's two ends into a worker count.
package storage
