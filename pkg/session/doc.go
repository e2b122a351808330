/*
Package session implements conversation thread state.

A thread is identified by its key (user ID + mode) and holds the append-only
message history of every chat in that mode. The Manager serializes turns on
the same key with a reference-counted local mutex and, optionally, a
distributed lock, so that read-modify-write cycles never interleave.
*/
package session
