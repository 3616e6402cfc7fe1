// Package irfile reads and writes the auxiliary data of a whole IR: an
// ordered list of (object UUID, container) pairs.
//
// File layout (integers little-endian):
//
//	File    := "GTAX" , Version:u16 , Compression:u8 , Reserved:u8 ,
//	           Digest:[32]byte , RawLen:u64 , BodyLen:u64 , Body
//	Payload := ObjectCount:u32 , (UUID:[16]byte , TableLen:u32 , ContainerTable)*
//
// Body is Payload compressed with the algorithm named by Compression.
// Digest is the keyed BLAKE3 hash of the uncompressed Payload, so a
// file re-compressed with another algorithm keeps its digest.
package irfile
