// Package ir provides the shape and value model for typed auxiliary data.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the shape vocabulary
// the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Shapes form a closed set: scalars, strings, UUIDs, byte blobs, fixed
//     tuples, sets, sequences and mappings, nested to any depth
//   - Every value has a total natural order (Compare), so set elements and
//     mapping keys are always orderable
//   - Sets and mappings are normalized (sorted, duplicate-free) before they
//     are encoded or cached
//   - NO floats, NO nulls
package ir
