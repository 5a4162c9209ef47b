// Package alarm keeps a bounded last-in-first-out record of fault events.
// The store never allocates after construction and never blocks: when it is
// full, a new alarm is dropped — history already captured is worth more than
// the event that overflowed it. LIFO order is deliberate: the most recent
// fault is the most operationally relevant one, so it is what a consumer
// sees first.
//
// The store is not safe for concurrent use; the controller pushes and drains
// from a single logical thread.
package alarm

import (
	"errors"
	"log"

	"github.com/Miceuz/VentilatorSoftware/pkg/hal"
)

// PayloadLen is the fixed length of an alarm's context payload in bytes.
// The payload is opaque here; interpretation belongs to the consumer.
const PayloadLen = 8

// DefaultCapacity is the alarm store size used when none is configured.
const DefaultCapacity = 8

// ErrEmpty is returned by Peek when no alarm is recorded.
var ErrEmpty = errors.New("alarm store empty")

// Cause identifies the kind of fault an alarm records.
type Cause uint8

const (
	CauseNone Cause = iota
	CauseSensorFault
	CauseOverPressure
	CauseUnderPressure
	CauseDisconnect
	CausePowerLoss
)

// String returns a short stable name for the cause.
func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseSensorFault:
		return "sensor_fault"
	case CauseOverPressure:
		return "over_pressure"
	case CauseUnderPressure:
		return "under_pressure"
	case CauseDisconnect:
		return "disconnect"
	case CausePowerLoss:
		return "power_loss"
	default:
		return "unknown"
	}
}

// Record is one immutable fault event.
type Record struct {
	Cause     Cause
	Timestamp uint32 // milliseconds since boot, from the HAL clock
	Data      [PayloadLen]byte
}

// Stack is a fixed-capacity LIFO store of alarm records. Construct with New;
// the zero value is not usable.
type Stack struct {
	h       hal.Hal
	records []Record
	top     int // index of the most recent record, -1 when empty
}

// New creates an empty alarm store that timestamps records from the given
// HAL clock. A capacity below one falls back to DefaultCapacity.
func New(h hal.Hal, capacity int) *Stack {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Stack{
		h:       h,
		records: make([]Record, capacity),
		top:     -1,
	}
}

// Add records a new alarm with the current timestamp. Up to PayloadLen bytes
// of data are copied; shorter payloads are zero padded. When the store is
// full the new alarm is dropped silently — callers cannot tell "recorded"
// from "dropped" and are not expected to.
func (s *Stack) Add(cause Cause, data []byte) {
	if s.top == len(s.records)-1 {
		// Full. Keep the history we already have.
		log.Printf("alarm store full, dropping alarm %s", cause)
		return
	}

	s.top++
	rec := &s.records[s.top]
	rec.Cause = cause
	rec.Timestamp = s.h.Millis()
	rec.Data = [PayloadLen]byte{}
	copy(rec.Data[:], data)
}

// Peek returns the most recently recorded alarm without removing it.
func (s *Stack) Peek() (Record, error) {
	if s.top < 0 {
		return Record{}, ErrEmpty
	}
	return s.records[s.top], nil
}

// Remove discards the most recently recorded alarm. Removing from an empty
// store is a no-op, not an error.
func (s *Stack) Remove() {
	if s.top >= 0 {
		s.top--
	}
}

// Available reports whether at least one alarm is recorded.
func (s *Stack) Available() bool { return s.top >= 0 }

// Len returns the number of recorded alarms.
func (s *Stack) Len() int { return s.top + 1 }

// Cap returns the fixed capacity of the store.
func (s *Stack) Cap() int { return len(s.records) }
