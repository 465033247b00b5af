package weather

import (
	"context"
	"strings"
	"sync"
)

// PanelState is the visible state of the weather indicator.
type PanelState string

const (
	PanelIdle    PanelState = "idle"
	PanelLoading PanelState = "loading"
	PanelError   PanelState = "error"
	PanelResult  PanelState = "result"
)

// PanelView is a point-in-time copy of the panel.
type PanelView struct {
	State  PanelState `json:"state"`
	Report *Report    `json:"report,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// Panel tracks the indicator across overlapping lookups. Each lookup takes a
// sequence number and only the most recent one may move the panel out of
// loading, so a slow earlier response never overwrites a newer one.
type Panel struct {
	mu     sync.Mutex
	seq    uint64
	state  PanelState
	report *Report
	err    string
}

func NewPanel() *Panel {
	return &Panel{state: PanelIdle}
}

// Begin moves the panel to loading and returns the sequence of the request.
func (p *Panel) Begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	p.state = PanelLoading
	p.err = ""
	return p.seq
}

// Finish records the outcome of request seq. It returns false and changes
// nothing when a newer request has begun since. An error keeps the last
// report so it can be shown again once a lookup succeeds.
func (p *Panel) Finish(seq uint64, r Report, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.seq {
		return false
	}
	if err != nil {
		p.state = PanelError
		p.err = err.Error()
		return true
	}
	p.state = PanelResult
	p.report = &r
	return true
}

// View returns the current panel state.
func (p *Panel) View() PanelView {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := PanelView{State: p.state, Error: p.err}
	if p.report != nil && p.state != PanelLoading {
		r := *p.report
		v.Report = &r
	}
	return v
}

// Lookup runs s.Lookup through the panel. An empty query leaves the panel
// untouched.
func (p *Panel) Lookup(ctx context.Context, s *Service, query string) (Report, error) {
	if strings.TrimSpace(query) == "" {
		return Report{}, ErrEmptyQuery
	}
	seq := p.Begin()
	r, err := s.Lookup(ctx, query)
	p.Finish(seq, r, err)
	return r, err
}
