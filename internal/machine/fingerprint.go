package machine

import (
	"encoding/binary"
	"hash/fnv"
)

// secondPassSalt is fed to the second FNV-1a accumulator before any data,
// so the two passes start from different states and yield different digests.
var secondPassSalt = []byte{0x9e, 0x37, 0x79, 0xb9}

// pageDigest returns a pair of deterministic digests for page pi,
// memoized until the page is next mutated (tape.hashFresh tracks this).
func (t *tape) pageDigest(pi int) (uint64, uint64) {
	if t.hashFresh[pi] {
		return t.hash1[pi], t.hash2[pi]
	}
	h1 := fnv.New64a()
	h2 := fnv.New64a()
	_, _ = h2.Write(secondPassSalt)
	if p := t.pages[pi]; p != nil {
		var buf [4]byte
		for _, v := range p {
			binary.BigEndian.PutUint32(buf[:], v)
			_, _ = h1.Write(buf[:])
			_, _ = h2.Write(buf[:])
		}
	}
	d1, d2 := h1.Sum64(), h2.Sum64()
	t.hash1[pi], t.hash2[pi] = d1, d2
	t.hashFresh[pi] = true
	return d1, d2
}

// fingerprint computes the (a, c, d, tape-prefix-hash, output-length)
// tuple used for snapshot caching and repeated-state pruning.
func (m *Machine) fingerprint() Fingerprint {
	h1 := fnv.New64a()
	h2 := fnv.New64a()
	_, _ = h2.Write(secondPassSalt)

	var buf [4]byte
	write := func(v uint32) {
		binary.BigEndian.PutUint32(buf[:], v)
		_, _ = h1.Write(buf[:])
		_, _ = h2.Write(buf[:])
	}
	write(m.a)
	write(m.c)
	write(m.d)

	numPages := int((m.peakCells + pageSize - 1) / pageSize)
	var pbuf [8]byte
	for pi := 0; pi < numPages; pi++ {
		d1, d2 := m.tape.pageDigest(pi)
		binary.BigEndian.PutUint64(pbuf[:], d1)
		_, _ = h1.Write(pbuf[:])
		binary.BigEndian.PutUint64(pbuf[:], d2)
		_, _ = h2.Write(pbuf[:])
	}

	var lbuf [8]byte
	binary.BigEndian.PutUint64(lbuf[:], uint64(len(m.output)))
	_, _ = h1.Write(lbuf[:])
	_, _ = h2.Write(lbuf[:])

	return Fingerprint{Hi: h1.Sum64(), Lo: h2.Sum64()}
}
