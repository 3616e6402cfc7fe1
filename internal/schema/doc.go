// Package schema maps auxiliary data schema names to their shapes.
//
// A Registry is populated once, before any container uses it, from the
// built-in catalogue plus optional extension catalogues (YAML or CUE
// files declaring additional schemas). After population it is read-only:
// concurrent Lookup calls are safe as long as no Register runs at the same
// time.
//
// Schema names are part of the wire contract. They are matched exactly
// (case-sensitive, no normalization) and must be NFC-normalized UTF-8 so
// that producers and consumers agree byte for byte.
package schema
