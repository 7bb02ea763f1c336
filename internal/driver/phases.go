package driver

import "time"

// Pipeline phase names, in run order.
const (
	PhaseLoad   = "load"
	PhaseScan   = "scan"
	PhaseBuild  = "build"
	PhaseMerge  = "merge"
	PhaseChain  = "chain"
	PhaseEncode = "encode"
)

// PhaseStatus tells a phase start from its end.
type PhaseStatus uint8

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

func (s PhaseStatus) String() string {
	if s == PhaseEnd {
		return "end"
	}
	return "start"
}

// PhaseEvent is one phase boundary. Elapsed is set on PhaseEnd only.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver is called synchronously from the remapping goroutine.
type PhaseObserver func(PhaseEvent)

func (o PhaseObserver) emit(ev PhaseEvent) {
	if o != nil {
		o(ev)
	}
}
