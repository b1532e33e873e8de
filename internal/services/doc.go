// Package services defines shared utilities consumed by the conversion
// components and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp session and correlation identifiers for
//     logging.
//   - Structured error markers plus the Wrap helper so every failure carries
//     its component, the operation that failed, and an errors.Is-friendly
//     classification (input, busy, engine not ready, conversion, delivery).
//
// Use these helpers when wiring new components so failures are reported to
// the user and counted in metrics the same way everywhere.
package services
