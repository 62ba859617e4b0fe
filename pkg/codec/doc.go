// Package codec provides the frame protection used on the radio link.
package codec

// A frame is the plaintext transformed byte by byte followed by a single
// checksum byte. Each byte is XORed with the key byte at the same position
// (the key repeats) and then shifted by 3. The checksum is the XOR-fold of
// the transformed bytes, so it is verified before any byte is transformed
// back.
//
// This is an obfuscation, not a cipher. The checksum only catches
// corruptions whose XOR does not cancel out, and a peer with a different key
// decodes garbage without noticing.
//
// Producer: transmitter device
// Consumer: receiver device
