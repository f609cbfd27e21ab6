// Package memory provides in-process adapters for tests and single-shot runs.
package memory
