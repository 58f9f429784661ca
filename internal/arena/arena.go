// Package arena provides a bump-style slab allocator for the collector's
// witness lists, the Go translation of the original hyperlink's bumpalo
// arena. Rather than widening a raw pointer's lifetime to 'static against a
// heap-boxed arena (as the Rust source does, unsafely), a List holds plain
// slice references into the arena's blocks, so nothing needs to outlive
// anything through unsafe means: Go's GC keeps each block alive for as long
// as any List referencing it is reachable.
//
// Entries are never freed individually. The whole Arena is reclaimed in one
// shot when it becomes unreachable — the same "cheap bulk free, no retail
// free" discipline spec.md's design notes call for.
package arena

// Arena holds append-only witness storage for one collector.
type Arena struct {
	blocks [][]Witness
}

// Witness is one (path, paragraph) observation of a use of a not-yet-defined
// href, matching spec.md's §3 witness definition.
type Witness struct {
	Path      WitnessDoc
	Paragraph uint64 // fingerprint.FP; zero means "no paragraph context"
}

// WitnessDoc is the minimal document reference a witness needs: enough to
// name the file the broken link came from. Kept as an interface here (rather
// than importing the scanner package) to avoid a dependency cycle between
// arena and scanner.
type WitnessDoc interface {
	Path() string
}

const blockSize = 256

// List is a growable, arena-backed sequence of witnesses. Create one with
// NewList; the zero List has no Arena to append into.
type List struct {
	block, offset int // the block/offset of the next free slot, for append
	len           int
	a             *Arena
	// spans record, for an already-started list, which arena blocks and
	// offset ranges its entries live in; most lists are short (one block)
	// so this stays small.
	spans []span
}

type span struct {
	block      []Witness
	start, end int
}

// NewList creates an empty witness list backed by a.
func NewList(a *Arena) *List {
	return &List{a: a}
}

// Append adds w to the list, allocating a new arena block if the current
// one is full.
func (l *List) Append(w Witness) {
	if len(l.spans) == 0 || l.spans[len(l.spans)-1].end == len(l.spans[len(l.spans)-1].block) {
		block := l.a.newBlock()
		l.spans = append(l.spans, span{block: block, start: 0, end: 0})
	}
	last := &l.spans[len(l.spans)-1]
	last.block[last.end] = w
	last.end++
	l.len++
}

// Len returns the number of witnesses appended so far.
func (l *List) Len() int {
	return l.len
}

// Each calls fn for every witness in append order.
func (l *List) Each(fn func(Witness)) {
	for _, s := range l.spans {
		for _, w := range s.block[s.start:s.end] {
			fn(w)
		}
	}
}

// Extend moves every witness from other into l. other remains iterable
// (its spans are shared, not cleared) since the arena backing it is never
// freed out from under it.
func (l *List) Extend(other *List) {
	l.spans = append(l.spans, other.spans...)
	l.len += other.len
}

func (a *Arena) newBlock() []Witness {
	block := make([]Witness, blockSize)
	a.blocks = append(a.blocks, block)
	return a.blocks[len(a.blocks)-1]
}
