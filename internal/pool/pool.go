// Package pool recycles output scanline buffers across scale
// operations. The avatar handler allocates one buffer per emitted row
// per request; drawing those from size-bucketed sync.Pools lets the
// row buffers be reused across requests instead of allocated anew.
package pool

import "sync"

// Bucket sizes in bytes. A 512-pixel RGBA row (the largest the avatar
// surface ever emits) is 2 KiB; the ladder tops out at a 64Ki-pixel
// RGBA row, beyond which buffers are allocated directly and never
// pooled.
var sizes = [...]int{1 << 10, 4 << 10, 16 << 10, 64 << 10, 256 << 10}

var pools [len(sizes)]sync.Pool

func init() {
	for i := range pools {
		sz := sizes[i]
		pools[i] = sync.Pool{
			New: func() any {
				b := make([]byte, sz)
				return &b
			},
		}
	}
}

// bucket returns the index of the smallest bucket covering size, or -1
// if size exceeds the ladder.
func bucket(size int) int {
	for i, s := range sizes {
		if size <= s {
			return i
		}
	}
	return -1
}

// Get returns a byte slice of length size, drawn from a bucket when one
// covers it and allocated directly otherwise. Pass the result to Put
// when the row is no longer referenced.
func Get(size int) []byte {
	i := bucket(size)
	if i < 0 {
		return make([]byte, size)
	}
	bp := pools[i].Get().(*[]byte)
	return (*bp)[:size]
}

// Put returns b to its bucket. Only buffers whose capacity exactly
// matches a bucket size are accepted; everything else (direct
// allocations, foreign slices) is left to the garbage collector, so a
// stray Put can never poison a bucket with an undersized buffer.
func Put(b []byte) {
	c := cap(b)
	for i, s := range sizes {
		if c == s {
			b = b[:c]
			pools[i].Put(&b)
			return
		}
	}
}
