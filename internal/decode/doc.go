// Package decode maps loosely-typed wire payloads (nested maps and
// slices, as produced by JSON decoding) into typed values directed by a
// string descriptor.
//
// Descriptors form a small closed set: the primitive names "str", "int",
// "float", "bool", "bytes" and "object", the temporal names "date" and
// "datetime", the composites "list[T]" and "dict(K, V)", and model names
// resolved against a Registry. Model names are looked up in the domain
// namespace first and the generated (resource-API) namespace second,
// mirroring the two model packages of the kernel resource schema.
//
// A Registry is populated once at client construction and is read-only
// afterwards, so a single Registry is safe for concurrent use.
package decode
