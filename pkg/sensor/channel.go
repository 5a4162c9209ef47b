package sensor

import (
	"github.com/chewxy/math32"

	"github.com/Miceuz/VentilatorSoftware/pkg/hal"
)

// channel is one physical transducer bound to one analog pin, together with
// its moving-average window and the zero-pressure voltage captured during
// calibration. The window is a fixed-size ring that is fully seeded at
// calibration time, so every average is over real data.
type channel struct {
	name ChannelID
	pin  hal.AnalogPin
	fn   TransferFunc

	vref   float32
	adcMax float32

	window []float32 // ring of the last len(window) raw voltages
	next   int       // ring write cursor

	// zeroOffset is the voltage observed at ambient (zero) pressure. NaN
	// until calibrate has run.
	zeroOffset float32
}

func newChannel(name ChannelID, pin hal.AnalogPin, fn TransferFunc, window int, vref float32, adcMax float32) *channel {
	return &channel{
		name:       name,
		pin:        pin,
		fn:         fn,
		vref:       vref,
		adcMax:     adcMax,
		window:     make([]float32, window),
		zeroOffset: math32.NaN(),
	}
}

// voltage converts raw ADC counts to volts with the channel's fixed scale.
func (c *channel) voltage(counts uint16) float32 {
	return float32(counts) / c.adcMax * c.vref
}

// calibrate samples the pin once under the assumption that the true applied
// pressure is zero, records the voltage as the zero offset and seeds the
// whole window with it so following averages are not polluted by stale data.
// Calling it again re-zeroes against whatever voltage is present.
func (c *channel) calibrate(h hal.Hal) error {
	counts, err := h.AnalogRead(c.pin)
	if err != nil {
		return err
	}
	volts := c.voltage(counts)
	for i := range c.window {
		c.window[i] = volts
	}
	c.next = 0
	c.zeroOffset = volts
	return nil
}

// read takes one new sample, advances the ring, and returns the calibrated
// pressure of the averaged window.
func (c *channel) read(h hal.Hal) (float32, error) {
	if math32.IsNaN(c.zeroOffset) {
		return 0, ErrNotCalibrated
	}

	counts, err := h.AnalogRead(c.pin)
	if err != nil {
		return 0, err
	}
	c.window[c.next] = c.voltage(counts)
	c.next++
	if c.next == len(c.window) {
		c.next = 0
	}

	var sum float32
	for _, v := range c.window {
		sum += v
	}
	mean := sum / float32(len(c.window))

	// The measured zero offset replaces the nominal intercept, so the
	// channel reads exactly zero at the boot-time ambient condition.
	return (mean - c.zeroOffset) / c.fn.Slope, nil
}
