// Package sensor turns raw ADC samples into calibrated pressure readings in
// kPa: sample -> voltage -> moving average -> transfer-function inversion ->
// calibration offset. All math is float32 end to end; the round-trip error
// stays below 0.005 kPa absolute.
//
// Sensors is not safe for concurrent use: the controller runs one acquisition
// tick at a time.
package sensor

import (
	"errors"
	"fmt"

	"github.com/Miceuz/VentilatorSoftware/pkg/config"
	"github.com/Miceuz/VentilatorSoftware/pkg/hal"
)

var (
	// ErrInvalidArgument signals a programming defect such as a nil
	// waveform buffer. Fail fast, nothing partial happens.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotCalibrated is returned from Reading before Init has run.
	ErrNotCalibrated = errors.New("not calibrated")
	// ErrUnknownChannel is returned for a channel id not in the config.
	ErrUnknownChannel = errors.New("unknown channel")
	// ErrUnknownTransfer is returned for an unrecognised transfer-function
	// name in the config.
	ErrUnknownTransfer = errors.New("unknown transfer function")
)

// ChannelID names a configured sensor channel.
type ChannelID string

// Channel ids of the reference configuration.
const (
	Inhalation ChannelID = "inhalation"
	Exhalation ChannelID = "exhalation"
	Patient    ChannelID = "patient"
)

// Sensors owns every configured pressure channel and the HAL handle they
// sample through. Construct with New, calibrate once with Init, then poll
// with Reading on each acquisition tick.
type Sensors struct {
	h        hal.Hal
	channels map[ChannelID]*channel
	order    []ChannelID
}

// New builds the sensor pipeline from configuration. The HAL handle is
// explicit so tests can run any number of independent instances.
func New(h hal.Hal, cfg *config.Config) (*Sensors, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: nil HAL", ErrInvalidArgument)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	adcMax := float32(uint32(1)<<uint(cfg.ADC.ResolutionBits) - 1)

	s := &Sensors{
		h:        h,
		channels: make(map[ChannelID]*channel, len(cfg.Channels)),
		order:    make([]ChannelID, 0, len(cfg.Channels)),
	}
	for _, cc := range cfg.Channels {
		if int(cc.Pin) >= hal.NumAnalogPins {
			return nil, fmt.Errorf("channel %s: %w: analog pin %d", cc.Name, hal.ErrUnknownPin, cc.Pin)
		}
		fn, err := TransferByName(cc.Transfer)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", cc.Name, err)
		}
		id := ChannelID(cc.Name)
		s.channels[id] = newChannel(id, hal.AnalogPin(cc.Pin), fn, cc.Window, cfg.ADC.VRef, adcMax)
		s.order = append(s.order, id)
	}
	return s, nil
}

// Init calibrates every channel against the ambient condition present right
// now, assuming zero applied pressure. Must run once at boot before any
// reading is trusted; running it again re-zeroes all channels.
func (s *Sensors) Init() error {
	for _, id := range s.order {
		if err := s.channels[id].calibrate(s.h); err != nil {
			return fmt.Errorf("calibrating %s: %w", id, err)
		}
	}
	return nil
}

// Reading samples the channel once and returns its calibrated pressure in
// kPa. Each call advances the channel's moving-average window by one sample.
func (s *Sensors) Reading(id ChannelID) (float32, error) {
	ch, ok := s.channels[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownChannel, id)
	}
	return ch.read(s.h)
}

// Channels lists the configured channel ids in configuration order.
func (s *Sensors) Channels() []ChannelID {
	out := make([]ChannelID, len(s.order))
	copy(out, s.order)
	return out
}
