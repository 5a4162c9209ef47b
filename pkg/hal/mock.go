package hal

import (
	"github.com/chewxy/math32"
)

// Mock is the in-memory HAL backend used for host-side tests. It keeps all
// pin state in plain arrays and its clock is fully deterministic: Millis
// starts at zero and advances only when Delay is called, so a test that does
// not sleep observes a frozen clock.
//
// Analog inputs are scripted by the test harness: either a static value per
// pin, or a sequence that is consumed one entry per AnalogRead and then holds
// at its last value — enough to describe a realistic pressure waveform.
type Mock struct {
	millis uint32

	analogValues [NumAnalogPins]uint16
	analogSeqs   [NumAnalogPins][]uint16

	digitalModes  [NumDigitalPins]PinMode
	digitalLevels [NumDigitalPins]Level
	pwmValues     [NumDigitalPins]uint8
}

// NewMock creates a mock HAL with all analog pins at zero, all digital pins
// in ModeInput (the Arduino power-on default) and the clock at zero.
func NewMock() *Mock {
	return &Mock{}
}

// AnalogRead returns the scripted value for the pin. If a sequence is
// pending, its head is consumed; once the sequence is exhausted the last
// value keeps being returned.
func (m *Mock) AnalogRead(pin AnalogPin) (uint16, error) {
	if int(pin) >= NumAnalogPins {
		return 0, ErrUnknownPin
	}
	if seq := m.analogSeqs[pin]; len(seq) > 0 {
		m.analogValues[pin] = seq[0]
		m.analogSeqs[pin] = seq[1:]
	}
	return m.analogValues[pin], nil
}

// AnalogWrite records the PWM duty for later inspection by tests.
func (m *Mock) AnalogWrite(pin PwmPin, duty uint8) error {
	if int(pin) >= NumDigitalPins {
		return ErrUnknownPin
	}
	m.pwmValues[pin] = duty
	return nil
}

// SetPinMode configures the direction of a digital pin.
func (m *Mock) SetPinMode(pin DigitalPin, mode PinMode) error {
	if int(pin) >= NumDigitalPins {
		return ErrUnknownPin
	}
	m.digitalModes[pin] = mode
	return nil
}

// DigitalWrite drives a digital pin, enforcing the output-mode precondition.
func (m *Mock) DigitalWrite(pin DigitalPin, level Level) error {
	if int(pin) >= NumDigitalPins {
		return ErrUnknownPin
	}
	if m.digitalModes[pin] != ModeOutput {
		return ErrPinModeViolation
	}
	m.digitalLevels[pin] = level
	return nil
}

// Millis returns the simulated time. It only moves through Delay.
func (m *Mock) Millis() uint32 { return m.millis }

// Delay advances the simulated clock without sleeping.
func (m *Mock) Delay(ms uint32) { m.millis += ms }

// SetAnalogValue scripts a static raw ADC value on a pin. It also clears any
// pending sequence on that pin.
func (m *Mock) SetAnalogValue(pin AnalogPin, counts uint16) {
	if int(pin) >= NumAnalogPins {
		return
	}
	m.analogValues[pin] = counts
	m.analogSeqs[pin] = nil
}

// SetAnalogSequence scripts a dynamic raw ADC signal on a pin: each
// AnalogRead consumes one value, and after the last one the pin holds it.
func (m *Mock) SetAnalogSequence(pin AnalogPin, counts ...uint16) {
	if int(pin) >= NumAnalogPins {
		return
	}
	m.analogSeqs[pin] = append([]uint16(nil), counts...)
}

// SetAnalogVoltage scripts a static analog value given in volts.
func (m *Mock) SetAnalogVoltage(pin AnalogPin, volts float32) {
	m.SetAnalogValue(pin, CountsForVoltage(volts))
}

// SetAnalogVoltageSequence scripts a dynamic analog signal given in volts.
func (m *Mock) SetAnalogVoltageSequence(pin AnalogPin, volts ...float32) {
	counts := make([]uint16, len(volts))
	for i, v := range volts {
		counts[i] = CountsForVoltage(v)
	}
	m.SetAnalogSequence(pin, counts...)
}

// DigitalLevel reports the last level written to a digital output pin.
func (m *Mock) DigitalLevel(pin DigitalPin) Level {
	if int(pin) >= NumDigitalPins {
		return Low
	}
	return m.digitalLevels[pin]
}

// PwmValue reports the last duty written to a PWM pin.
func (m *Mock) PwmValue(pin PwmPin) uint8 {
	if int(pin) >= NumDigitalPins {
		return 0
	}
	return m.pwmValues[pin]
}

// CountsForVoltage converts volts into the nearest raw ADC reading. Rounding
// to nearest keeps the quantisation error within half an LSB, which the
// 0.005 kPa pressure tolerance depends on.
func CountsForVoltage(volts float32) uint16 {
	counts := math32.Round(volts / VRef * float32(ADCMax))
	if counts < 0 {
		return 0
	}
	if counts > float32(ADCMax) {
		return ADCMax
	}
	return uint16(counts)
}
