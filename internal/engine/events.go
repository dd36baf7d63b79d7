package engine

import "sync"

// Event is a progress notification emitted during a run. The concrete types
// are TargetStarted, FileProcessed, TargetFinished and RunFinished.
type Event interface {
	// Percent is the overall run progress in [0, 100].
	Percent() float64
	isEvent()
}

// TargetStarted is emitted before a target begins. Index is zero-based.
type TargetStarted struct {
	Index       int
	Total       int
	TargetID    string
	DisplayName string
	Mode        Mode
}

// FileProcessed reports a batch of processed entries inside one target.
// Processed and Failed count the entries since the previous FileProcessed;
// TargetFiles and TargetBytes are running totals for the target.
type FileProcessed struct {
	Index       int
	Total       int
	TargetID    string
	Path        string // last entry of the batch
	Processed   uint
	Failed      uint
	BytesDelta  uint64
	IsError     bool
	TargetFiles uint
	TargetBytes uint64
}

// TargetFinished carries the final result of one target.
type TargetFinished struct {
	Index  int
	Total  int
	Result TargetResult
}

// RunFinished is always the last event of a run.
type RunFinished struct {
	Summary RunSummary
}

func (e TargetStarted) Percent() float64  { return fraction(e.Index, e.Total) }
func (e FileProcessed) Percent() float64  { return fraction(e.Index, e.Total) }
func (e TargetFinished) Percent() float64 { return fraction(e.Index+1, e.Total) }
func (e RunFinished) Percent() float64    { return 100 }

func (TargetStarted) isEvent()  {}
func (FileProcessed) isEvent()  {}
func (TargetFinished) isEvent() {}
func (RunFinished) isEvent()    {}

func fraction(done, total int) float64 {
	if total <= 0 {
		return 100
	}
	p := float64(done) / float64(total) * 100
	if p > 100 {
		return 100
	}
	return p
}

// ─── Sinks ───────────────────────────────────────────────────────────────────

// Sink consumes progress events. Emit is called from the run goroutine, in
// order, and must not block for long.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// MultiSink fans one event stream out to several sinks in order.
func MultiSink(sinks ...Sink) Sink {
	var live []Sink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	return SinkFunc(func(e Event) {
		for _, s := range live {
			s.Emit(e)
		}
	})
}

// Recorder is a Sink that keeps every event. Safe for concurrent readers.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
