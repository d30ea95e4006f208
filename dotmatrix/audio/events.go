// Package audio captures sound register traffic without synthesizing any
// output. A front end that wants actual audio can replay the event stream.
package audio

import "github.com/echoram/dotmatrix/dotmatrix/addr"

// Event is a single timed write to a sound register.
type Event struct {
	Cycle   uint64
	Address uint16
	Value   uint8
}

// Recorder backs the 0xFF10-0xFF3F range with plain registers and keeps a
// bounded log of writes, stamped with the machine cycle counter.
type Recorder struct {
	regs   [addr.AudioEnd - addr.AudioStart + 1]uint8
	events []Event
	limit  int
}

// NewRecorder creates a recorder that retains at most limit events; zero
// or negative means keep everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

func (r *Recorder) Read(address uint16) uint8 {
	return r.regs[address-addr.AudioStart]
}

func (r *Recorder) Write(address uint16, value uint8, cycle uint64) {
	r.regs[address-addr.AudioStart] = value
	r.events = append(r.events, Event{Cycle: cycle, Address: address, Value: value})
	if r.limit > 0 && len(r.events) > r.limit {
		r.events = r.events[len(r.events)-r.limit:]
	}
}

// Drain returns the buffered events and clears the log.
func (r *Recorder) Drain() []Event {
	out := r.events
	r.events = nil
	return out
}
