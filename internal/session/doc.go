// Package session tracks the state of one conversion session: the selected
// input file, the chosen output kind and whether a conversion is running.
//
// Begin is the admission gate for conversions. It performs the input and busy
// checks and the transition to BUSY under a single lock, so two submissions
// can never both reach the engine.
package session
