// Package token defines the display-token value types shared by the view
// pipeline, the hook bridge and the script-facing API.
//
// A committed token stream is what the paint layer consumes. Tokens that
// carry a source offset must appear in non-decreasing offset order so that
// cursor and selection logic can binary-search a screen position from a
// byte offset; synthetic tokens (offset-less decorations) may appear
// anywhere. Validate enforces that invariant.
package token
