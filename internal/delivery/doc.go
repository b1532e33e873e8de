// Package delivery saves converted files for the user.
//
// A Deliverer exposes the output through a transient reference for the
// duration of the save and always releases it afterwards. DirSaver is the
// save primitive: an atomic write into the output directory that, like a
// browser download, picks "name (1).gif" rather than replacing a file.
package delivery
