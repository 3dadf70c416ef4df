package transport

import "sync/atomic"

// Metrics contains atomic counters for frame transfers.
// Counters can be used as the value of a prometheus CounterFunc.
type Metrics struct {
	// FrameSendCount indicates the number of frames fully sent.
	FrameSendCount atomic.Uint64
	// FrameRecvCount indicates the number of frames fully received.
	FrameRecvCount atomic.Uint64
	// ByteSendCount indicates the number of bytes written by successful sends.
	ByteSendCount atomic.Uint64
	// ByteRecvCount indicates the number of bytes consumed by successful receives.
	ByteRecvCount atomic.Uint64
	// TimeoutCount indicates the number of readiness waits that expired.
	TimeoutCount atomic.Uint64
	// ErrCount indicates the number of failed transfers, timeouts included.
	ErrCount atomic.Uint64
}

func (m *Metrics) recordSend(n int) {
	m.FrameSendCount.Add(1)
	m.ByteSendCount.Add(uint64(n)) //nolint:gosec // n is a frame length, never negative
}

func (m *Metrics) recordRecv(n int) {
	m.FrameRecvCount.Add(1)
	m.ByteRecvCount.Add(uint64(n)) //nolint:gosec // n is a frame length, never negative
}

func (m *Metrics) recordErr(timeout bool) {
	m.ErrCount.Add(1)
	if timeout {
		m.TimeoutCount.Add(1)
	}
}
