package conn

import "crypto/cipher"

// cfb8Stream is CFB mode with 8-bit feedback, the variant the protocol
// uses for stream encryption. Both directions run the block cipher's
// Encrypt, and the ciphertext byte always feeds the shift register; what
// differs is whether that byte is the output (encrypting) or the input
// (decrypting).
type cfb8Stream struct {
	block   cipher.Block
	iv      [16]byte
	encrypt bool
}

func newCFB8(block cipher.Block, iv []byte, encrypt bool) *cfb8Stream {
	s := &cfb8Stream{block: block, encrypt: encrypt}
	copy(s.iv[:], iv)
	return s
}

func (s *cfb8Stream) XORKeyStream(dst, src []byte) {
	var keystream [16]byte
	for i, b := range src {
		s.block.Encrypt(keystream[:], s.iv[:])
		out := b ^ keystream[0]

		// The ciphertext byte always feeds back: out when encrypting,
		// the input byte when decrypting.
		feedback := out
		if !s.encrypt {
			feedback = b
		}
		copy(s.iv[:], s.iv[1:])
		s.iv[15] = feedback

		dst[i] = out
	}
}
