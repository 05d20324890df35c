package deepequal

import (
	"encoding/binary"
	"fmt"
	"io"
)

// treeHasher computes structural hashes that agree with the difference
// engine: trees without differences hash alike
//
// children are combined commutatively, because the engine matches children by
// edge rather than by position. a duplicate hashes like its original. a
// duplicate that closes a cycle hashes as a constant for its kind, since its
// original is still being hashed
type treeHasher struct {
	cfg    *Config
	memo   map[*Node]uint64
	active map[*Node]bool
}

func newTreeHasher(cfg *Config) *treeHasher {
	return &treeHasher{
		cfg:    cfg,
		memo:   map[*Node]uint64{},
		active: map[*Node]bool{},
	}
}

func (h *treeHasher) hash(n *Node) (uint64, error) {
	if n.original != nil {
		if h.active[n.original] {
			return mix(cycleSeed, uint64(n.kind)), nil
		}
		return h.hash(n.original)
	}
	if sum, ok := h.memo[n]; ok {
		return sum, nil
	}
	if n.depth > h.cfg.MaxDepth {
		return 0, fmt.Errorf("%w: hashing %s at depth %d", ErrMaxDepth, n.Path(), n.depth)
	}

	h.active[n] = true
	defer delete(h.active, n)

	children, err := n.Children()
	if err != nil {
		return 0, err
	}

	sum := mix(uint64(n.kind), uint64(len(children)))
	if len(children) == 0 && (n.kind == Primitive || n.kind == Unknown) {
		sum = mix(sum, h.cfg.Comparer.Hash(n.Value()))
	}
	var acc uint64
	for _, ch := range children {
		chSum, err := h.hash(ch)
		if err != nil {
			return 0, err
		}
		acc += mix(hashString(ch.edge.String()), chSum)
	}
	sum = mix(sum, acc)

	h.memo[n] = sum
	return sum, nil
}

// cycleSeed stands in for a node whose hash is still being computed
const cycleSeed uint64 = 0x9e3779b97f4a7c15

func hashString(s string) uint64 {
	h := NewHash()
	io.WriteString(h, s)
	return h.Sum64()
}

// mix combines two hashes, order matters
func mix(a, b uint64) uint64 {
	h := NewHash()
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], a)
	binary.LittleEndian.PutUint64(buf[8:], b)
	h.Write(buf[:])
	return h.Sum64()
}
