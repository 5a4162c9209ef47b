// Package hal isolates all hardware access behind a single swappable
// interface. Nothing outside this package touches pins, ADCs or the clock
// directly; the rest of the controller is written against Hal and can run
// unmodified on the real board (Serial bridge, firmware/) or on a developer
// host (Mock).
package hal

import "errors"

// ADC and board geometry of the target (Arduino Uno class hardware).
const (
	// VRef is the ADC reference voltage in volts.
	VRef float32 = 5.0
	// ADCMax is the maximum raw ADC reading (10-bit converter).
	ADCMax uint16 = 1023

	NumAnalogPins  = 6
	NumDigitalPins = 14
)

var (
	// ErrPinModeViolation is returned when writing a digital pin that is not
	// configured as an output.
	ErrPinModeViolation = errors.New("pin mode violation")
	// ErrUnknownPin is returned for a pin number outside the board layout.
	ErrUnknownPin = errors.New("unknown pin")
	// ErrNotConnected is returned by the serial backend before Connect or
	// after Close.
	ErrNotConnected = errors.New("not connected")
)

// Hal is the hardware capability surface consumed by the sensor pipeline and
// the alarm store. All operations are synchronous; Delay is the only one that
// suspends. Implementations are not required to be safe for concurrent use —
// the controller runs a single logical thread of control.
type Hal interface {
	// AnalogRead returns the raw ADC counts (0..ADCMax) on an analog pin.
	AnalogRead(pin AnalogPin) (uint16, error)

	// AnalogWrite sets the PWM duty (0..255) on a PWM-capable pin.
	AnalogWrite(pin PwmPin, duty uint8) error

	// SetPinMode configures the direction of a digital pin.
	SetPinMode(pin DigitalPin, mode PinMode) error

	// DigitalWrite drives a digital output pin. The pin must have been
	// configured with ModeOutput, otherwise ErrPinModeViolation.
	DigitalWrite(pin DigitalPin, level Level) error

	// Millis returns monotonic milliseconds since boot.
	Millis() uint32

	// Delay suspends for the given number of milliseconds.
	Delay(ms uint32)
}

// Ensure both backends implement Hal.
var (
	_ Hal = (*Mock)(nil)
	_ Hal = (*Serial)(nil)
)

// Voltage converts raw ADC counts into volts against VRef. Kept in float32
// so that every consumer performs byte-for-byte identical arithmetic.
func Voltage(counts uint16) float32 {
	return float32(counts) / float32(ADCMax) * VRef
}
