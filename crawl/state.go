package crawl

import (
	"fmt"
	"strings"

	"github.com/ficlit/vaultmigrate/fedora"
	"github.com/ficlit/vaultmigrate/vocab"
)

// State is the explicit crawl state: the breadth-first work queue, the
// processed counter, the active chunk buffers, and the collected binary
// references. Folding one fetched graph into the state is side-effect free,
// so chunk-boundary and termination logic are testable without I/O.
type State struct {
	Queue      []string
	Processed  int
	ChunkIndex int
	SrcBuf     []string
	TgtBuf     []string
	BinaryURLs []string
}

// NewState seeds the queue with one URI and positions the chunk index at 1.
func NewState(seed string) *State {
	return &State{Queue: []string{seed}, ChunkIndex: 1}
}

// Next pops the head of the FIFO queue. ok is false when the queue is empty.
func (s *State) Next() (uri string, ok bool) {
	if len(s.Queue) == 0 {
		return "", false
	}
	uri = s.Queue[0]
	s.Queue = s.Queue[1:]
	return uri, true
}

// Observe folds one fetched graph into the state: children linked via
// ldp:contains are enqueued, the raw serialization joins the source buffer
// under a provenance comment, the transformed triples extend the target
// buffer, and a metadata-endpoint effective URI records the underlying
// binary resource. requestedURI is the URI that was dequeued; effectiveURI
// is where the graph was actually fetched from.
func (s *State) Observe(g *fedora.Graph, requestedURI, effectiveURI string, targets []string) {
	for _, t := range g.Triples {
		if t.Pred.String() == vocab.LDPContains {
			s.Queue = append(s.Queue, t.Obj.String())
		}
	}

	s.SrcBuf = append(s.SrcBuf,
		fmt.Sprintf("# Source: %s (%d triples)", requestedURI, g.Len()),
		g.Serialize())
	s.TgtBuf = append(s.TgtBuf, targets...)
	s.Processed++

	if strings.HasSuffix(effectiveURI, vocab.MetadataSuffix) {
		s.BinaryURLs = append(s.BinaryURLs, strings.TrimSuffix(effectiveURI, vocab.MetadataSuffix))
	}
}

// AtChunkBoundary reports whether the processed counter has reached a
// positive multiple of chunkSize.
func (s *State) AtChunkBoundary(chunkSize int) bool {
	return chunkSize > 0 && s.Processed > 0 && s.Processed%chunkSize == 0
}

// AdvanceChunk clears the active buffers and moves to the next chunk index.
// Indices are monotonically increasing and never reused.
func (s *State) AdvanceChunk() {
	s.SrcBuf = nil
	s.TgtBuf = nil
	s.ChunkIndex++
}

// Done reports whether the crawl should terminate: queue exhausted or the
// optional resource cap reached (0 = unlimited).
func (s *State) Done(maxResources int) bool {
	if len(s.Queue) == 0 {
		return true
	}
	return maxResources > 0 && s.Processed >= maxResources
}
