// Package keygen builds deterministic cache keys from operation parameters.
//
// Keys follow a stable, version-free format:
//
//	{operation}:{payload-component}:{sorted-options-component}[:{question-component}]
//
// Short payloads are embedded verbatim for debuggability; payloads at or
// above the hash threshold are replaced by a streaming SHA-256 digest,
// computed incrementally so multi-megabyte inputs do not spike memory.
// Option maps are serialized with sorted keys, so two maps with the same
// entries always yield the same key.
//
// The "qa" operation gets special treatment: its "question" option becomes a
// separate key component, guaranteeing two different questions over the same
// text never share a key.
//
// Generators are pure and safe for concurrent use.
package keygen
