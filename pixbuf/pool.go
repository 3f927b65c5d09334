// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pixbuf

import (
	"math/bits"
	"sync"
)

// Pool recycles scratch word slices used to normalize stripes.
//
// Slices are grouped into power-of-two capacity classes so that stripes of
// slightly different heights share storage.
//
// Pool is safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[int][][]uint32
	maxSize int // max slices per bucket
}

// NewPool creates a pool keeping at most maxPerBucket slices per capacity
// class. Zero means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[int][][]uint32),
		maxSize: maxPerBucket,
	}
}

// sizeClass returns the power-of-two capacity that holds n words.
func sizeClass(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Get returns a slice of length n. Its contents are unspecified.
func (p *Pool) Get(n int) []uint32 {
	if n <= 0 {
		return nil
	}
	class := sizeClass(n)

	p.mu.Lock()
	bucket := p.buckets[class]
	if len(bucket) > 0 {
		s := bucket[len(bucket)-1]
		p.buckets[class] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		return s[:n]
	}
	p.mu.Unlock()

	return make([]uint32, n, class)
}

// Put returns s to the pool. Slices not obtained from Get are accepted if
// their capacity is a power of two; others are dropped.
func (p *Pool) Put(s []uint32) {
	c := cap(s)
	if c == 0 || c&(c-1) != 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[c]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[c] = append(bucket, s[:c])
}

// defaultPool is the package-level pool for convenient usage.
var defaultPool = NewPool(4)

// GetScratch retrieves a slice from the default pool.
func GetScratch(n int) []uint32 {
	return defaultPool.Get(n)
}

// PutScratch returns a slice to the default pool.
func PutScratch(s []uint32) {
	defaultPool.Put(s)
}
