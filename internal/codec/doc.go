// Package codec implements the bit-exact binary encoding of auxiliary data
// values.
//
// Encoding rules (all integers little-endian):
//
//	scalar    width/8 bytes, two's complement when signed
//	UUID      16 bytes
//	string    u64 length, UTF-8 bytes
//	bytes     u64 length, raw bytes
//	tuple     each element in order, no prefix
//	sequence  u64 count, elements in order
//	set       u64 count, elements strictly ascending
//	mapping   u64 count, (key, value) pairs strictly ascending by key
//
// Decode verifies set and mapping ordering rather than re-sorting, and
// rejects trailing bytes, so every strict prefix of a valid encoding fails
// with *DecodeError.
//
// Encode and Decode are pure functions and safe for concurrent use.
package codec
