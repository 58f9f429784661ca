// Package collector implements the link-state aggregator spec.md calls C4:
// the reduction target that every HTML extraction worker folds its findings
// into, and that workers' partial results merge into each other during the
// parallel fan-in. It is grounded directly on the original hyperlink's
// LinkCollector trait and its two implementations (collector.rs): a
// UsedLinksCollector that just counts/records uses, and a BrokenLinksCollector
// that tracks, per href, whether it has ever been Defined and — if not — the
// witnesses (using documents/paragraphs) that reference it.
package collector

import (
	"sort"

	"github.com/hyperlint/hyperlint/internal/arena"
	"github.com/hyperlint/hyperlint/internal/fingerprint"
	"github.com/hyperlint/hyperlint/internal/href"
	"github.com/hyperlint/hyperlint/internal/interner"
)

// Doc is the minimal document reference a Uses event needs. scanner.Document
// satisfies this; it is kept as a local interface (mirroring arena.WitnessDoc)
// to avoid a dependency from collector back to scanner.
type Doc interface {
	Path() string
}

// Kind distinguishes the two events a link extractor reports.
type Kind uint8

const (
	// Uses records that some document referenced href, possibly from a
	// specific paragraph.
	Uses Kind = iota
	// Defines records that href identifies a document (or anchor) that
	// actually exists on the site.
	Defines
)

// Event is one observation reported by an extractor: either "this href
// exists" (Defines) or "this document used this href" (Uses). Doc and
// Paragraph are only meaningful when Kind is Uses.
type Event struct {
	Kind      Kind
	Href      href.Href
	Doc       Doc
	Paragraph fingerprint.FP
}

// UseEvent builds a Uses event. paragraph may be fingerprint.Zero when no
// paragraph context is available (e.g. the link came from HTML with
// paragraph attribution disabled).
func UseEvent(h href.Href, doc Doc, paragraph fingerprint.FP) Event {
	return Event{Kind: Uses, Href: h, Doc: doc, Paragraph: paragraph}
}

// DefineEvent builds a Defines event.
func DefineEvent(h href.Href) Event {
	return Event{Kind: Defines, Href: h}
}

// Ingest accepts a single event. Implementations must be safe to call
// repeatedly from a single goroutine only; parallelism is achieved by giving
// each worker its own collector and merging afterwards (see Merge on each
// concrete type), the same discipline the original applies per rayon fold
// item before try_reduce.
type Ingester interface {
	Ingest(Event)
}

// Use is one recorded use of an href, preserved for the UsedLinksCollector.
type Use struct {
	Href      href.Href
	Doc       Doc
	Paragraph fingerprint.FP
}

// UsedLinksCollector records every Uses event it sees and ignores Defines.
// It keeps every use, independent of whether its href is broken. The driver
// does not use it; its link counts come from BrokenLinksCollector.
type UsedLinksCollector struct {
	uses []Use
}

// NewUsedLinksCollector creates an empty collector.
func NewUsedLinksCollector() *UsedLinksCollector {
	return &UsedLinksCollector{}
}

// Ingest records e if it is a Uses event.
func (c *UsedLinksCollector) Ingest(e Event) {
	if e.Kind != Uses {
		return
	}
	c.uses = append(c.uses, Use{Href: e.Href, Doc: e.Doc, Paragraph: e.Paragraph})
}

// Merge absorbs other's recorded uses into c. other remains valid but should
// not be ingested into again afterwards.
func (c *UsedLinksCollector) Merge(other *UsedLinksCollector) {
	c.uses = append(c.uses, other.uses...)
}

// Uses returns every recorded use, in ingestion order.
func (c *UsedLinksCollector) Uses() []Use {
	return c.uses
}

// Count returns the number of recorded uses.
func (c *UsedLinksCollector) Count() int {
	return len(c.uses)
}

// linkState is the per-href accumulator: the Defined/Undefined(witnesses)
// monoid from spec.md §4.3, matching the original's LinkState enum. Once
// defined is set it is never unset — Defined dominates Undefined under
// merge — and witnesses collected before the Defines arrived are dropped,
// since they are no longer needed and holding them only wastes memory for
// the remainder of the run.
type linkState struct {
	defined   bool
	witnesses *arena.List
}

func (s *linkState) markDefined() {
	s.defined = true
	s.witnesses = nil
}

// index is the pluggable key→linkState store a BrokenLinksCollector is built
// on: either a plain Go map (the default) or an edge-compressed byte trie
// (radixIndex, opt-in) per spec.md §4.4's index-strategy choice.
type index interface {
	getOrCreate(key []byte) *linkState
	get(key []byte) (*linkState, bool)
	each(fn func(key []byte, st *linkState))
}

// Severity classifies a BrokenLink per spec.md §4.4: hard means the
// destination document itself doesn't exist; soft means the document exists
// but the specific "#fragment" on it doesn't.
type Severity uint8

const (
	// Hard is a bad link: without_anchor(href) is itself undefined.
	Hard Severity = iota
	// Soft is a bad anchor: the document exists but the fragment doesn't.
	Soft
)

// BrokenLink is one href that was never Defined, paired with the witnesses
// that used it and its hard/soft classification.
type BrokenLink struct {
	Href      href.Href
	Severity  Severity
	Witnesses []arena.Witness
}

// BrokenLinksCollector is the hot-path aggregator: the reduction target for
// the entire parallel fan-out phase. Every extraction worker owns one
// BrokenLinksCollector; results merge via Merge, which absorbs the other
// collector's arena blocks by reference (no witness is ever copied) exactly
// as the original collapses two PatriciaMaps by moving entries, not cloning
// them.
type BrokenLinksCollector struct {
	arena     *arena.Arena
	idx       index
	usedCount uint64
}

// NewBrokenLinksCollector creates a collector backed by a plain map index —
// the default, and the right choice unless a site's href set is large enough
// that the radix index's shared-prefix compression meaningfully reduces
// memory (see NewBrokenLinksCollectorRadix).
func NewBrokenLinksCollector() *BrokenLinksCollector {
	return &BrokenLinksCollector{
		arena: &arena.Arena{},
		idx:   newMapIndex(),
	}
}

// NewBrokenLinksCollectorRadix creates a collector backed by the
// edge-compressed radix index, trading lookup speed for the smaller memory
// footprint a large, prefix-heavy href set (many links sharing "/docs/...")
// benefits from.
func NewBrokenLinksCollectorRadix() *BrokenLinksCollector {
	return &BrokenLinksCollector{
		arena: &arena.Arena{},
		idx:   newRadixIndex(),
	}
}

// Ingest applies e to the collector's link-state table.
func (c *BrokenLinksCollector) Ingest(e Event) {
	st := c.idx.getOrCreate([]byte(e.Href))
	switch e.Kind {
	case Defines:
		st.markDefined()
	case Uses:
		c.usedCount++
		if st.defined {
			return
		}
		if st.witnesses == nil {
			st.witnesses = arena.NewList(c.arena)
		}
		st.witnesses.Append(arena.Witness{Path: e.Doc, Paragraph: uint64(e.Paragraph)})
	}
}

// UsedLinksCount returns the number of Uses events ingested (directly or via
// Merge) so far, matching spec.md §4.4's used_links_count operation.
func (c *BrokenLinksCollector) UsedLinksCount() uint64 {
	return c.usedCount
}

// IsDefined reports whether h is currently Defined in the merged index. The
// driver uses this against without_anchor(h) to classify a broken link as
// hard or soft (spec.md §4.4, "Anchor classification"). Looking it up never
// creates an entry: an href nobody has used or defined is not Defined.
func (c *BrokenLinksCollector) IsDefined(h href.Href) bool {
	st, ok := c.idx.get([]byte(h))
	return ok && st.defined
}

// Merge absorbs other into c: every href in other is folded into c's table
// under the same Defined-dominates-Undefined rule Ingest uses. other's
// witness lists are appended by reference via arena.List.Extend, not copied.
func (c *BrokenLinksCollector) Merge(other *BrokenLinksCollector) {
	c.usedCount += other.usedCount
	other.idx.each(func(key []byte, otherSt *linkState) {
		st := c.idx.getOrCreate(key)
		if otherSt.defined {
			st.markDefined()
			return
		}
		if st.defined || otherSt.witnesses == nil {
			return
		}
		if st.witnesses == nil {
			st.witnesses = arena.NewList(c.arena)
		}
		st.witnesses.Extend(otherSt.witnesses)
	})
}

// BrokenLinks returns every href that was used but never defined, sorted by
// href for deterministic output. Each entry carries the full set of
// witnesses observed for it and, when checkAnchors is set, its hard/soft
// classification per spec.md §4.4 and testable property 4: a broken href is
// soft iff it carries a fragment and without_anchor(href) is itself
// Defined; otherwise (no checkAnchors, or the base document is also
// missing) it is hard.
func (c *BrokenLinksCollector) BrokenLinks(checkAnchors bool) []BrokenLink {
	var out []BrokenLink
	c.idx.each(func(key []byte, st *linkState) {
		if st.defined {
			return
		}
		h := href.Href(append([]byte(nil), key...))
		severity := Hard
		if checkAnchors {
			base := href.WithoutAnchor(h)
			if base != h && c.IsDefined(base) {
				severity = Soft
			}
		}
		var ws []arena.Witness
		if st.witnesses != nil {
			ws = make([]arena.Witness, 0, st.witnesses.Len())
			st.witnesses.Each(func(w arena.Witness) {
				ws = append(ws, w)
			})
		}
		out = append(out, BrokenLink{Href: h, Severity: severity, Witnesses: ws})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Href < out[j].Href })
	return out
}

// HrefCount returns the number of distinct hrefs tracked, defined or not.
func (c *BrokenLinksCollector) HrefCount() int {
	n := 0
	c.idx.each(func([]byte, *linkState) { n++ })
	return n
}

// mapIndex is the default index: a plain Go map over hrefs interned into a
// shared arena (internal/interner), keyed by the resulting Handle rather
// than the raw bytes — design note §9's "string interning of hrefs",
// avoiding a fresh allocation for every repeated href across thousands of
// documents.
type mapIndex struct {
	in *interner.Interner
	m  map[interner.Handle]*linkState
}

func newMapIndex() *mapIndex {
	return &mapIndex{in: interner.New(), m: make(map[interner.Handle]*linkState)}
}

func (m *mapIndex) getOrCreate(key []byte) *linkState {
	h := m.in.Intern(key)
	st, ok := m.m[h]
	if !ok {
		st = &linkState{}
		m.m[h] = st
	}
	return st
}

func (m *mapIndex) get(key []byte) (*linkState, bool) {
	h, ok := m.in.Lookup(key)
	if !ok {
		return nil, false
	}
	st, ok := m.m[h]
	return st, ok
}

func (m *mapIndex) each(fn func(key []byte, st *linkState)) {
	for h, st := range m.m {
		fn(m.in.Bytes(h), st)
	}
}
