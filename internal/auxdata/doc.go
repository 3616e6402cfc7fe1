// Package auxdata implements the per-object auxiliary data container.
//
// A Container maps schema names to encoded byte blobs, keeping the
// insertion order of names. Values are encoded on Set and decoded lazily
// on Get, so entries whose schema is not registered in the running
// process survive a load/save cycle byte for byte.
//
// The on-disk form of a container is its table:
//
//	ContainerTable := EntryCount:u32 , Entry*
//	Entry          := NameLen:u32 , Name , BlobLen:u32 , Blob
//
// All integers are little-endian. MarshalTable and UnmarshalTable
// convert between the two.
//
// Containers are not safe for concurrent mutation. Callers that share a
// container across goroutines must synchronize externally.
package auxdata
