package tagserver

import "sync/atomic"

// State is the lifecycle state of a Server.
type State uint32

const (
	IdleState State = iota
	ServingState
	ClosingState
	ClosedState
)

func (s State) String() string {
	switch s {
	case IdleState:
		return "Idle"
	case ServingState:
		return "Serving"
	case ClosingState:
		return "Closing"
	case ClosedState:
		return "Closed"
	default:
		return "Unknown"
	}
}

type atomicState struct {
	state atomic.Uint32
}

func (st *atomicState) Get() State {
	return State(st.state.Load())
}

func (st *atomicState) String() string {
	return st.Get().String()
}

func (st *atomicState) IsServing() bool {
	return st.Get() == ServingState
}

// ToServing moves Idle to Serving. A server serves at most once.
func (st *atomicState) ToServing() bool {
	return st.state.CompareAndSwap(uint32(IdleState), uint32(ServingState))
}

// ToClosing moves Idle or Serving to Closing.
func (st *atomicState) ToClosing() bool {
	if st.state.CompareAndSwap(uint32(ServingState), uint32(ClosingState)) {
		return true
	}

	return st.state.CompareAndSwap(uint32(IdleState), uint32(ClosingState))
}

func (st *atomicState) ToClosed() bool {
	if st.Get() == ClosedState {
		return true
	}

	return st.state.CompareAndSwap(uint32(ClosingState), uint32(ClosedState))
}
