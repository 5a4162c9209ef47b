//go:build tinygo

package main

import "machine"

const (
	// Serial configuration. One request line is at most "aw 13 255\n"
	// (10 bytes) and one reply is at most "err pinmode\n" (12 bytes), so
	// 115200 baud leaves orders of magnitude of headroom over the host's
	// polling rate.
	UART_BAUD_RATE = 115200
)

// analogPins maps the bridge protocol's analog pin numbers (0 = A0) to the
// board pins.
var analogPins = [6]machine.Pin{
	machine.ADC0,
	machine.ADC1,
	machine.ADC2,
	machine.ADC3,
	machine.ADC4,
	machine.ADC5,
}

// digitalPins maps the protocol's digital pin numbers to the board pins.
var digitalPins = [14]machine.Pin{
	machine.D0,
	machine.D1,
	machine.D2,
	machine.D3,
	machine.D4,
	machine.D5,
	machine.D6,
	machine.D7,
	machine.D8,
	machine.D9,
	machine.D10,
	machine.D11,
	machine.D12,
	machine.D13,
}
