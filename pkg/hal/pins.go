package hal

// Strongly typed pin identities. Each pin category gets its own type so that,
// for example, a PWM pin can never be handed to AnalogRead — the mix-up is a
// compile error rather than a silent misread.

// AnalogPin identifies an analog input pin (ADC channel).
type AnalogPin uint8

// Analog input pins of the target board (Arduino Uno: A0..A5).
const (
	A0 AnalogPin = iota
	A1
	A2
	A3
	A4
	A5
)

// Pressure transducer assignments.
const (
	// PinInhalation carries the MPXV7002 differential sensor on the
	// inhalation limb.
	PinInhalation = A0
	// PinExhalation carries the MPXV7002 differential sensor on the
	// exhalation limb.
	PinExhalation = A1
	// PinPatient carries the MPXV5004 single-ended patient pressure sensor.
	PinPatient = A3
)

// DigitalPin identifies a digital I/O pin (0..13 on the Uno).
type DigitalPin uint8

// PwmPin identifies a digital pin with PWM capability.
type PwmPin uint8

// PWM3 drives the hardware alarm buzzer output.
const PWM3 PwmPin = 3

// PinMode is the configured direction of a digital pin.
type PinMode uint8

const (
	// ModeInput is the power-on default for every digital pin.
	ModeInput PinMode = iota
	ModeOutput
	ModeInputPullup
)

// Level is the logic level of a digital pin.
type Level uint8

const (
	Low Level = iota
	High
)
