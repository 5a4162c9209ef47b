package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMock_ClockFrozenWithoutDelay(t *testing.T) {
	m := NewMock()

	assert.Equal(t, uint32(0), m.Millis())

	// Reads must not advance time.
	_, err := m.AnalogRead(A0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), m.Millis())

	m.Delay(10)
	assert.Equal(t, uint32(10), m.Millis())
	m.Delay(1)
	assert.Equal(t, uint32(11), m.Millis())
}

func TestMock_StaticAnalogValue(t *testing.T) {
	m := NewMock()
	m.SetAnalogValue(A2, 512)

	for i := 0; i < 3; i++ {
		counts, err := m.AnalogRead(A2)
		require.NoError(t, err)
		assert.Equal(t, uint16(512), counts)
	}

	// Other pins stay untouched.
	counts, err := m.AnalogRead(A0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), counts)
}

func TestMock_AnalogSequenceHoldsLastValue(t *testing.T) {
	m := NewMock()
	m.SetAnalogSequence(A1, 100, 200, 300)

	want := []uint16{100, 200, 300, 300, 300}
	for i, w := range want {
		counts, err := m.AnalogRead(A1)
		require.NoError(t, err)
		assert.Equal(t, w, counts, "read %d", i)
	}
}

func TestMock_SetAnalogValueClearsSequence(t *testing.T) {
	m := NewMock()
	m.SetAnalogSequence(A0, 10, 20, 30)
	m.SetAnalogValue(A0, 700)

	counts, err := m.AnalogRead(A0)
	require.NoError(t, err)
	assert.Equal(t, uint16(700), counts)
	counts, err = m.AnalogRead(A0)
	require.NoError(t, err)
	assert.Equal(t, uint16(700), counts)
}

func TestMock_DigitalWriteRequiresOutputMode(t *testing.T) {
	m := NewMock()
	pin := DigitalPin(7)

	// Default mode is input.
	err := m.DigitalWrite(pin, High)
	assert.ErrorIs(t, err, ErrPinModeViolation)

	require.NoError(t, m.SetPinMode(pin, ModeOutput))
	require.NoError(t, m.DigitalWrite(pin, High))
	assert.Equal(t, High, m.DigitalLevel(pin))

	// Reconfiguring back to input re-arms the guard.
	require.NoError(t, m.SetPinMode(pin, ModeInputPullup))
	err = m.DigitalWrite(pin, Low)
	assert.ErrorIs(t, err, ErrPinModeViolation)
}

func TestMock_UnknownPins(t *testing.T) {
	m := NewMock()

	_, err := m.AnalogRead(AnalogPin(NumAnalogPins))
	assert.ErrorIs(t, err, ErrUnknownPin)

	assert.ErrorIs(t, m.SetPinMode(DigitalPin(NumDigitalPins), ModeOutput), ErrUnknownPin)
	assert.ErrorIs(t, m.DigitalWrite(DigitalPin(NumDigitalPins), High), ErrUnknownPin)
	assert.ErrorIs(t, m.AnalogWrite(PwmPin(NumDigitalPins), 128), ErrUnknownPin)
}

func TestMock_AnalogWrite(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.AnalogWrite(PWM3, 200))
	assert.Equal(t, uint8(200), m.PwmValue(PWM3))
}

func TestCountsForVoltage(t *testing.T) {
	tests := []struct {
		name  string
		volts float32
		want  uint16
	}{
		{name: "zero", volts: 0, want: 0},
		{name: "full scale", volts: 5.0, want: 1023},
		{name: "mid scale", volts: 2.5, want: 512},
		{name: "rounds to nearest", volts: 5.0 / 1023.0 * 100.4, want: 100},
		{name: "clamps below zero", volts: -1.0, want: 0},
		{name: "clamps above vref", volts: 6.0, want: 1023},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountsForVoltage(tt.volts))
		})
	}
}

func TestVoltageRoundTrip(t *testing.T) {
	// CountsForVoltage followed by Voltage must stay within half an LSB.
	const halfLSB = VRef / float32(ADCMax) / 2

	for _, volts := range []float32{0, 0.5, 1.0, 2.3, 2.5, 3.7, 4.2, 5.0} {
		got := Voltage(CountsForVoltage(volts))
		assert.InDelta(t, volts, got, float64(halfLSB)*1.0001, "volts=%v", volts)
	}
}
