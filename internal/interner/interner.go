// Package interner provides arena-backed byte-string interning.
//
// Its contract mirrors the original hyperlink's string interner: interning
// the same bytes twice returns the same handle, and the bytes backing a
// handle stay valid for the lifetime of the Interner. Unlike the original,
// there is no unsafe lifetime widening here — the arena slab is just a
// []byte that the Interner (and anything holding a Handle into it) keeps
// alive through ordinary Go reference semantics.
package interner

// Handle identifies an interned byte string. It is only comparable and
// only meaningful relative to the Interner that produced it.
type Handle int

// chunkSize is the size of each arena slab. Strings larger than chunkSize
// get their own dedicated slab.
const chunkSize = 64 * 1024

// Interner deduplicates byte strings into a shared arena, handing back
// stable handles. It is not safe for concurrent use; callers that intern
// from multiple goroutines (e.g. one collector per worker) should use one
// Interner per goroutine, exactly as one BrokenLinksCollector per worker
// owns one Interner.
type Interner struct {
	chunks [][]byte
	index  map[string]Handle
	// entries holds, for each Handle, the chunk index and byte range the
	// interned string occupies.
	entries []entryRef
}

type entryRef struct {
	chunk      int
	start, end int
}

// New creates an empty Interner.
func New() *Interner {
	return &Interner{
		index: make(map[string]Handle),
	}
}

// Lookup returns the Handle already assigned to s, without interning it.
// The second return value is false if s has never been interned.
func (in *Interner) Lookup(s []byte) (Handle, bool) {
	h, ok := in.index[string(s)]
	return h, ok
}

// Intern returns the Handle for s, allocating a new arena entry only if s
// has not been seen before. Intern(a) == Intern(b) iff bytes.Equal(a, b).
func (in *Interner) Intern(s []byte) Handle {
	// map lookups on []byte need a string conversion; Go's compiler avoids
	// the allocation for this exact map[string]T read pattern.
	if h, ok := in.index[string(s)]; ok {
		return h
	}
	chunk, start, end := in.copyIn(s)
	h := Handle(len(in.entries))
	in.entries = append(in.entries, entryRef{chunk: chunk, start: start, end: end})
	in.index[string(s)] = h
	return h
}

// Bytes returns the interned bytes for h. The returned slice must not be
// mutated; it aliases the Interner's arena.
func (in *Interner) Bytes(h Handle) []byte {
	ref := in.entries[h]
	return in.chunks[ref.chunk][ref.start:ref.end]
}

// Len returns the number of distinct strings interned so far.
func (in *Interner) Len() int {
	return len(in.entries)
}

func (in *Interner) copyIn(s []byte) (chunk, start, end int) {
	if len(s) > chunkSize {
		in.chunks = append(in.chunks, append([]byte(nil), s...))
		return len(in.chunks) - 1, 0, len(s)
	}

	if len(in.chunks) == 0 || cap(in.chunks[len(in.chunks)-1])-len(in.chunks[len(in.chunks)-1]) < len(s) {
		in.chunks = append(in.chunks, make([]byte, 0, chunkSize))
	}

	idx := len(in.chunks) - 1
	cur := in.chunks[idx]
	start = len(cur)
	cur = append(cur, s...)
	in.chunks[idx] = cur
	return idx, start, len(cur)
}
