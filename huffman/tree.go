package huffman

import (
	"container/heap"
	"sort"

	"github.com/pkg/errors"
)

// node is one Huffman tree node. Internal nodes carry the concatenation of
// their children's symbols; that label only ever feeds trace output.
type node struct {
	symbol string
	weight int
	seq    int // creation order, breaks weight ties deterministically
	zero   *node
	one    *node
}

func (n *node) leaf() bool { return n.zero == nil && n.one == nil }

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight < h[j].weight
	}
	return h[i].seq < h[j].seq
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x interface{}) {
	*h = append(*h, x.(*node))
}

func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// buildTree assembles the Huffman tree bottom-up: the two lowest-weight
// nodes are repeatedly combined, the first extracted becoming the zero child
// and the second the one child. Leaves are seeded in sorted symbol order and
// every node gets a sequence number at creation, so equal weights always
// resolve the same way and repeated builds produce identical trees.
func buildTree(freq map[string]int) *node {
	symbols := make([]string, 0, len(freq))
	for s := range freq {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	h := make(nodeHeap, 0, len(symbols))
	seq := 0
	for _, s := range symbols {
		h = append(h, &node{symbol: s, weight: freq[s], seq: seq})
		seq++
	}
	heap.Init(&h)

	if h.Len() == 1 {
		// A lone symbol still needs a distinguishable 1-bit code, so it
		// hangs off a synthetic parent instead of becoming the root.
		only := heap.Pop(&h).(*node)
		return &node{symbol: only.symbol, weight: only.weight, seq: seq, zero: only}
	}
	for h.Len() > 1 {
		a := heap.Pop(&h).(*node)
		b := heap.Pop(&h).(*node)
		heap.Push(&h, &node{
			symbol: a.symbol + b.symbol,
			weight: a.weight + b.weight,
			seq:    seq,
			zero:   a,
			one:    b,
		})
		seq++
	}
	return heap.Pop(&h).(*node)
}

// BuildCodeMap derives the prefix-free symbol→code map for a frequency
// table. Descending to a zero child appends bit 0, to a one child bit 1; a
// leaf's accumulated bits become its code. The walk keeps its own stack, so
// a degenerate tree as deep as the alphabet cannot overflow the call stack.
func BuildCodeMap(freq map[string]int) (map[string]Code, error) {
	if len(freq) == 0 {
		return nil, errors.New("huffman: empty frequency table")
	}

	type frame struct {
		n *node
		c Code
	}
	codes := make(map[string]Code, len(freq))
	stack := []frame{{buildTree(freq), Code{}}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.n.leaf() {
			if f.c.length > MaxCodeLength {
				return nil, errors.Wrapf(ErrFieldOverflow,
					"code for symbol %q needs %d bits", f.n.symbol, f.c.length)
			}
			codes[f.n.symbol] = f.c
			continue
		}
		if f.n.one != nil {
			stack = append(stack, frame{f.n.one, f.c.appendBit(1)})
		}
		if f.n.zero != nil {
			stack = append(stack, frame{f.n.zero, f.c.appendBit(0)})
		}
	}
	return codes, nil
}
