// Package buffer owns the editor's buffers and splits.
//
// A buffer is either real (file-backed, reading through a textstore.Store)
// or virtual (content supplied entirely by a script as ordered entries).
// A split shows at most one buffer's viewport at a time. The registry is
// mutated only from the event-loop goroutine, so it carries no locking;
// background work must post mutations onto the loop.
package buffer
