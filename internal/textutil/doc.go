// Package textutil provides filename helpers for naming engine files and
// delivered output.
package textutil
