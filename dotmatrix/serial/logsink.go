// Package serial provides link-port devices for the SB/SC registers.
package serial

import (
	"log/slog"

	"github.com/echoram/dotmatrix/dotmatrix/addr"
	"github.com/echoram/dotmatrix/dotmatrix/bit"
	"github.com/echoram/dotmatrix/dotmatrix/interrupt"
)

// transferCycles is the DMG cost of shifting one byte out on the internal
// clock.
const transferCycles = 4096

// LogSink is a link-port peer that logs outgoing bytes as text lines.
// Test ROMs report their results over serial, which makes this the main
// way to observe them headless.
type LogSink struct {
	irq    interrupt.Requester
	logger *slog.Logger

	sb, sc    uint8
	countdown int

	immediate bool
	peerByte  uint8 // shifted into SB on completion, 0xFF = no peer

	line []byte
}

type LogSinkOption func(*LogSink)

// WithFixedTiming completes transfers after the DMG per-byte cycle count
// instead of immediately on the SC write.
func WithFixedTiming() LogSinkOption {
	return func(s *LogSink) { s.immediate = false }
}

func WithLogger(logger *slog.Logger) LogSinkOption {
	return func(s *LogSink) { s.logger = logger }
}

// NewLogSink creates a logging serial device. Completed transfers raise
// the serial interrupt through irq.
func NewLogSink(irq interrupt.Requester, opts ...LogSinkOption) *LogSink {
	s := &LogSink{
		irq:       irq,
		logger:    slog.Default(),
		immediate: true,
		peerByte:  0xFF,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LogSink) Read(address uint16) uint8 {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc
	default:
		panic("serial: read outside SB/SC")
	}
}

func (s *LogSink) Write(address uint16, value uint8) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		s.maybeStart()
	default:
		panic("serial: write outside SB/SC")
	}
}

// Tick advances an in-flight transfer by the given cycle count.
func (s *LogSink) Tick(cycles int) {
	if s.countdown == 0 {
		return
	}
	s.countdown -= cycles
	if s.countdown <= 0 {
		s.countdown = 0
		s.complete()
	}
}

func (s *LogSink) maybeStart() {
	// a transfer needs both the start bit and the internal clock bit
	if !bit.IsSet(7, s.sc) || !bit.IsSet(0, s.sc) {
		return
	}

	b := s.sb
	if b == 0 || b == '\n' || b == '\r' {
		s.flushLine()
	} else {
		s.line = append(s.line, b)
	}

	if s.immediate {
		s.complete()
		return
	}
	s.countdown = transferCycles
}

func (s *LogSink) complete() {
	s.sb = s.peerByte
	s.sc = bit.Clear(7, s.sc)
	s.irq.Request(interrupt.Serial)
}

func (s *LogSink) flushLine() {
	if len(s.line) == 0 {
		return
	}
	s.logger.Info("serial", "line", string(s.line))
	s.line = s.line[:0]
}
