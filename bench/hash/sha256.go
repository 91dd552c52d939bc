// Package hash implements the streaming FIPS 180-4 SHA-256 used to bind a
// run's byte-exact output to its result record. It is a from-scratch,
// allocation-free implementation: the digest itself is the measured
// artifact (spec component C2), not a library-replaceable concern, so it
// is not built on crypto/sha256.
package hash

import "encoding/binary"

// Size is the length in bytes of a SHA-256 digest.
const Size = 32

const blockSize = 64

var initialState = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

var roundConstants = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// Digest is a 32-byte SHA-256 output.
type Digest [Size]byte

// Context is a streaming SHA-256 computation. All storage is inline: there
// is no heap allocation in Init, Update or Final. A finalised context
// rejects further Update calls until Init (see ErrFinalised).
type Context struct {
	h         [8]uint32
	buf       [blockSize]byte
	buflen    int
	length    uint64 // total bytes fed, for the FIPS length suffix
	finalised bool
}

// Init (re)initialises ctx to the empty-message state. Safe to call on a
// zero-value Context and to call again to reuse a finalised one.
func (c *Context) Init() {
	c.h = initialState
	c.buflen = 0
	c.length = 0
	c.finalised = false
}

// Update feeds bytes into the running hash. It is idempotent for a
// zero-length slice. Calling Update after Final returns ErrFinalised and
// leaves the context unchanged.
func (c *Context) Update(p []byte) error {
	if c.finalised {
		return ErrFinalised
	}
	if len(p) == 0 {
		return nil
	}
	c.length += uint64(len(p))

	if c.buflen > 0 {
		n := copy(c.buf[c.buflen:], p)
		c.buflen += n
		p = p[n:]
		if c.buflen == blockSize {
			c.block(c.buf[:])
			c.buflen = 0
		}
	}
	for len(p) >= blockSize {
		c.block(p[:blockSize])
		p = p[blockSize:]
	}
	if len(p) > 0 {
		c.buflen = copy(c.buf[:], p)
	}
	return nil
}

// Final pads and finalises the context, returning the digest. Subsequent
// Update calls fail until Init is called again.
func (c *Context) Final() Digest {
	// FIPS 180-4 §5.1.1 padding: one 0x80 byte, zero bytes, then the
	// 64-bit big-endian bit length, packed to a block boundary.
	bitLen := c.length * 8

	var pad [blockSize]byte
	pad[0] = 0x80
	c.feedRaw(pad[:1])

	padLen := 56 - int(c.length+1)%blockSize
	if padLen < 0 {
		padLen += blockSize
	}
	var zero [blockSize]byte
	for padLen > 0 {
		n := padLen
		if n > blockSize {
			n = blockSize
		}
		c.feedRaw(zero[:n])
		padLen -= n
	}
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], bitLen)
	c.feedRaw(lenBuf[:])

	var out Digest
	for i, v := range c.h {
		binary.BigEndian.PutUint32(out[i*4:], v)
	}
	c.finalised = true
	return out
}

// Clone returns a copy of ctx that can be finalised independently. The
// result assembler uses this to finalise a copy of the run's hasher so the
// original remains usable for post-run audit (§4.4 get_result).
func (c *Context) Clone() Context {
	return *c
}

// Finalised reports whether Final has been called since the last Init.
func (c *Context) Finalised() bool { return c.finalised }

// feedRaw bypasses the finalised/length bookkeeping in Update; used only
// internally by Final while applying padding.
func (c *Context) feedRaw(p []byte) {
	for len(p) > 0 {
		if c.buflen == blockSize {
			c.block(c.buf[:])
			c.buflen = 0
		}
		n := copy(c.buf[c.buflen:], p)
		c.buflen += n
		p = p[n:]
	}
	if c.buflen == blockSize {
		c.block(c.buf[:])
		c.buflen = 0
	}
}

// block runs the 64-round compression function over one 512-bit block.
func (c *Context) block(p []byte) {
	var w [64]uint32
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(p[i*4:])
	}
	for i := 16; i < 64; i++ {
		s0 := rotr(w[i-15], 7) ^ rotr(w[i-15], 18) ^ (w[i-15] >> 3)
		s1 := rotr(w[i-2], 17) ^ rotr(w[i-2], 19) ^ (w[i-2] >> 10)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}

	a, b, cc, d, e, f, g, h := c.h[0], c.h[1], c.h[2], c.h[3], c.h[4], c.h[5], c.h[6], c.h[7]

	for i := 0; i < 64; i++ {
		s1 := rotr(e, 6) ^ rotr(e, 11) ^ rotr(e, 25)
		ch := (e & f) ^ (^e & g)
		t1 := h + s1 + ch + roundConstants[i] + w[i]
		s0 := rotr(a, 2) ^ rotr(a, 13) ^ rotr(a, 22)
		maj := (a & b) ^ (a & cc) ^ (b & cc)
		t2 := s0 + maj

		h, g, f, e = g, f, e, d+t1
		d, cc, b, a = cc, b, a, t1+t2
	}

	c.h[0] += a
	c.h[1] += b
	c.h[2] += cc
	c.h[3] += d
	c.h[4] += e
	c.h[5] += f
	c.h[6] += g
	c.h[7] += h
}

func rotr(x uint32, n uint) uint32 {
	return (x >> n) | (x << (32 - n))
}

// Hash is the one-shot equivalent of Init, Update, Final.
func Hash(p []byte) Digest {
	var c Context
	c.Init()
	_ = c.Update(p)
	return c.Final()
}

// Equal performs a constant-time comparison: it ORs together the XOR of
// every byte pair of both digests, and that loop never branches on the
// data; only the leading check for two all-zero digests does. Two zero-value (null)
// digests compare unequal — the contract treats "no digest computed" as
// never matching "no digest computed".
func Equal(a, b Digest) bool {
	if a == (Digest{}) && b == (Digest{}) {
		return false
	}
	var acc byte
	for i := 0; i < Size; i++ {
		acc |= a[i] ^ b[i]
	}
	return acc == 0
}
