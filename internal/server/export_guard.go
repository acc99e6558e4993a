package server

import (
	"sync"

	"github.com/google/uuid"
)

// exportGuard allows one export per draft at a time. Browser capacity across
// drafts is bounded separately by the PDF renderer.
type exportGuard struct {
	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

func newExportGuard() *exportGuard {
	return &exportGuard{inFlight: make(map[uuid.UUID]struct{})}
}

// acquire marks id as exporting. The returned release must be called once
// the export ends.
func (g *exportGuard) acquire(id uuid.UUID) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[id]; busy {
		return nil, &ErrExportInProgress{DraftID: id}
	}
	g.inFlight[id] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inFlight, id)
			g.mu.Unlock()
		})
	}, nil
}
