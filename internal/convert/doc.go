// Package convert coordinates a conversion from submitted form to saved file.
//
// Start admits a submission through the session, validates the form, builds
// the engine command and runs stage, execute, read and deliver in a
// background Task. A failed conversion leaves the input selected so the user
// can adjust the form and retry; a delivered one clears the session.
package convert
