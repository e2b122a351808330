/*
Package observability turns engine lifecycle events into metrics and logs.

Every silent fallback of the conversation engine (a swallowed fetch error, a
failed generation, a recovered pipeline failure) surfaces here as a counter
increment and a structured log line, so degraded turns stay visible even
though callers always receive a well-formed reply.
*/
package observability
