package collector

// radixIndex is the optional index backing: an edge-compressed byte trie,
// the same data-structure family as the original's Trie<T> (trie.rs), which
// stores a label per node and splits it lazily on first divergence. That
// source split children into two ordered BTreeMaps (lower_than/bigger_than)
// keyed by divergence offset, a trick for keeping Rust's Patricia-style trie
// walkable in byte order without per-node allocation churn; here a child is
// just looked up by its label's first byte in a Go map, which is simpler and
// just as fast since Go maps are not ordered-iteration-sensitive the way the
// original's BTreeMap-based iterator was designed around.
type radixIndex struct {
	root *radixNode
}

type radixNode struct {
	label    []byte
	value    *linkState
	children map[byte]*radixNode
}

func newRadixIndex() *radixIndex {
	return &radixIndex{root: &radixNode{}}
}

func (r *radixIndex) getOrCreate(key []byte) *linkState {
	return r.root.getOrCreate(key)
}

// get looks up key without creating a node for it, for callers (e.g.
// BrokenLinksCollector.IsDefined) that must not mutate the index merely by
// asking a question about it.
func (r *radixIndex) get(key []byte) (*linkState, bool) {
	n := r.root
	for {
		if len(key) == 0 {
			if n.value == nil {
				return nil, false
			}
			return n.value, true
		}
		child, ok := n.children[key[0]]
		if !ok {
			return nil, false
		}
		shared := commonPrefixLen(key, child.label)
		if shared != len(child.label) {
			return nil, false
		}
		key = key[shared:]
		n = child
	}
}

func (r *radixIndex) each(fn func(key []byte, st *linkState)) {
	r.root.each(nil, fn)
}

// getOrCreate walks n looking for key, splitting an edge when key diverges
// partway through an existing label and creating a fresh child when no edge
// shares a prefix with key at all.
func (n *radixNode) getOrCreate(key []byte) *linkState {
	if len(key) == 0 {
		if n.value == nil {
			n.value = &linkState{}
		}
		return n.value
	}

	child, ok := n.children[key[0]]
	if !ok {
		child = &radixNode{label: append([]byte(nil), key...), value: &linkState{}}
		if n.children == nil {
			n.children = make(map[byte]*radixNode)
		}
		n.children[key[0]] = child
		return child.value
	}

	shared := commonPrefixLen(key, child.label)
	switch {
	case shared == len(child.label):
		return child.getOrCreate(key[shared:])
	case shared == len(key):
		// key is a strict prefix of child.label: split child so key's
		// value lands on the split point, with the remainder hanging
		// below it.
		n.children[key[0]] = splitNode(child, shared, &linkState{})
		return n.children[key[0]].value
	default:
		// key and child.label diverge partway through both: split child
		// at the shared prefix, then add key's remainder as a sibling
		// edge under the split node.
		split := splitNode(child, shared, nil)
		n.children[key[0]] = split
		rest := &radixNode{label: append([]byte(nil), key[shared:]...), value: &linkState{}}
		split.children[rest.label[0]] = rest
		return rest.value
	}
}

// splitNode carves child's label at offset, inserting a new node that holds
// the shared prefix (and value, if any) with child demoted beneath it.
func splitNode(child *radixNode, offset int, value *linkState) *radixNode {
	split := &radixNode{
		label:    append([]byte(nil), child.label[:offset]...),
		value:    value,
		children: map[byte]*radixNode{child.label[offset]: child},
	}
	child.label = child.label[offset:]
	return split
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func (n *radixNode) each(prefix []byte, fn func(key []byte, st *linkState)) {
	full := append(append([]byte(nil), prefix...), n.label...)
	if n.value != nil {
		fn(full, n.value)
	}
	for _, c := range n.children {
		c.each(full, fn)
	}
}
