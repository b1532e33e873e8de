// Package preflight provides readiness checks for the engine binary and the
// directories clipforge writes to.
//
// The "clipforge check" command runs RunAll and prints every result. Each
// check is independent, so one failure does not hide the others.
package preflight
