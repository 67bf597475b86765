// Package language validates ISO 639-2 language codes against a reference list
// and resolves human-readable language names.
//
// The reference list defaults to a copy embedded in the binary. A List built
// from an explicit path reads that file on every check, so a missing or
// unreadable file makes validation fail instead of silently accepting codes.
package language
