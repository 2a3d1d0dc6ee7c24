package tokengate

import "fmt"

// Per-request pipeline phases. Transitions are linear:
//
//	Validating -> Rejecting (terminal)
//	Validating -> Forwarding -> Completed (terminal)
//
// No phase repeats and nothing runs concurrently within one request.
type phase uint8

const (
	phaseValidating phase = iota
	phaseForwarding
	phaseRejecting
	phaseCompleted
)

func (p phase) String() string {
	switch p {
	case phaseValidating:
		return "validating"
	case phaseForwarding:
		return "forwarding"
	case phaseRejecting:
		return "rejecting"
	case phaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// requestState tracks one request's traversal through the pipeline. Each
// in-flight request owns its own instance; it is never shared. Driving it
// again after a terminal phase is a programming error and fails loudly.
type requestState struct {
	p phase
}

func (s *requestState) forward() { s.transition(phaseValidating, phaseForwarding) }
func (s *requestState) reject()  { s.transition(phaseValidating, phaseRejecting) }
func (s *requestState) complete() {
	s.transition(phaseForwarding, phaseCompleted)
}

func (s *requestState) transition(from, to phase) {
	if s.p == phaseRejecting || s.p == phaseCompleted {
		panic("tokengate: request driven after completion")
	}
	if s.p != from {
		panic(fmt.Sprintf("tokengate: invalid transition %s -> %s", s.p, to))
	}
	s.p = to
}
