package alarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miceuz/VentilatorSoftware/pkg/hal"
)

func TestStack_EmptyBehaviour(t *testing.T) {
	s := New(hal.NewMock(), 4)

	assert.False(t, s.Available())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 4, s.Cap())

	_, err := s.Peek()
	assert.ErrorIs(t, err, ErrEmpty)

	// Remove on empty is a safe no-op.
	s.Remove()
	assert.False(t, s.Available())
	_, err = s.Peek()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestStack_LIFOOrder(t *testing.T) {
	s := New(hal.NewMock(), 4)

	s.Add(CauseSensorFault, nil)
	s.Add(CauseOverPressure, nil)
	s.Add(CauseUnderPressure, nil)

	want := []Cause{CauseUnderPressure, CauseOverPressure, CauseSensorFault}
	for _, cause := range want {
		rec, err := s.Peek()
		require.NoError(t, err)
		assert.Equal(t, cause, rec.Cause)
		s.Remove()
	}
	assert.False(t, s.Available())
}

func TestStack_Timestamps(t *testing.T) {
	m := hal.NewMock()
	s := New(m, 4)

	s.Add(CauseSensorFault, nil)
	m.Delay(250)
	s.Add(CauseDisconnect, nil)

	rec, err := s.Peek()
	require.NoError(t, err)
	assert.Equal(t, uint32(250), rec.Timestamp)
	s.Remove()

	rec, err = s.Peek()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), rec.Timestamp)
}

func TestStack_PayloadCopy(t *testing.T) {
	s := New(hal.NewMock(), 4)

	data := []byte{1, 2, 3}
	s.Add(CauseSensorFault, data)
	data[0] = 99 // mutation after Add must not leak into the record

	rec, err := s.Peek()
	require.NoError(t, err)
	assert.Equal(t, [PayloadLen]byte{1, 2, 3}, rec.Data)
}

func TestStack_PayloadTruncation(t *testing.T) {
	s := New(hal.NewMock(), 4)

	long := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	s.Add(CauseOverPressure, long)

	rec, err := s.Peek()
	require.NoError(t, err)
	assert.Equal(t, [PayloadLen]byte{1, 2, 3, 4, 5, 6, 7, 8}, rec.Data)
}

func TestStack_OverflowDropsNewest(t *testing.T) {
	s := New(hal.NewMock(), 2)

	s.Add(CauseSensorFault, []byte{1})
	s.Add(CauseOverPressure, []byte{2})
	require.Equal(t, 2, s.Len())

	// Store is full: this one must vanish without a trace.
	s.Add(CauseDisconnect, []byte{3})

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Available())

	rec, err := s.Peek()
	require.NoError(t, err)
	assert.Equal(t, CauseOverPressure, rec.Cause)
	assert.Equal(t, [PayloadLen]byte{2}, rec.Data)

	s.Remove()
	rec, err = s.Peek()
	require.NoError(t, err)
	assert.Equal(t, CauseSensorFault, rec.Cause)
}

func TestStack_ReusedSlotIsCleared(t *testing.T) {
	s := New(hal.NewMock(), 2)

	s.Add(CauseSensorFault, []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0x11, 0x22})
	s.Remove()

	// The slot is recycled; a short payload must not expose stale bytes.
	s.Add(CauseDisconnect, []byte{1})
	rec, err := s.Peek()
	require.NoError(t, err)
	assert.Equal(t, [PayloadLen]byte{1}, rec.Data)
}

func TestStack_DefaultCapacity(t *testing.T) {
	s := New(hal.NewMock(), 0)
	assert.Equal(t, DefaultCapacity, s.Cap())

	s = New(hal.NewMock(), -3)
	assert.Equal(t, DefaultCapacity, s.Cap())
}

func TestCause_String(t *testing.T) {
	tests := []struct {
		cause Cause
		want  string
	}{
		{CauseNone, "none"},
		{CauseSensorFault, "sensor_fault"},
		{CauseOverPressure, "over_pressure"},
		{CauseUnderPressure, "under_pressure"},
		{CauseDisconnect, "disconnect"},
		{CausePowerLoss, "power_loss"},
		{Cause(200), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cause.String())
		})
	}
}
