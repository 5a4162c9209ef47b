package sensor

import (
	"fmt"

	"github.com/Miceuz/VentilatorSoftware/pkg/config"
)

// TransferFunc is the affine pressure-to-voltage equation of a transducer:
//
//	volts = Slope*kPa + Offset
//
// All arithmetic stays in float32 so that two channels fed the same inputs
// produce bit-identical pressures.
type TransferFunc struct {
	Slope  float32 // V per kPa
	Offset float32 // V at 0 kPa (nominal, before calibration)
}

// MPXV7002 is the differential flow sensor: volts = 5*(0.2*kPa + 0.5).
func MPXV7002() TransferFunc {
	return TransferFunc{Slope: 5 * 0.2, Offset: 5 * 0.5}
}

// MPXV5004 is the single-ended patient pressure sensor:
// volts = 5*(0.2*kPa + 0.2).
func MPXV5004() TransferFunc {
	return TransferFunc{Slope: 5 * 0.2, Offset: 5 * 0.2}
}

// TransferByName resolves a configuration transfer-function name.
func TransferByName(name string) (TransferFunc, error) {
	switch name {
	case config.TransferMPXV7002:
		return MPXV7002(), nil
	case config.TransferMPXV5004:
		return MPXV5004(), nil
	default:
		return TransferFunc{}, fmt.Errorf("%w: transfer function %q", ErrUnknownTransfer, name)
	}
}

// Voltage applies the forward equation.
func (f TransferFunc) Voltage(kPa float32) float32 {
	return f.Slope*kPa + f.Offset
}

// Pressure applies the closed-form inverse.
func (f TransferFunc) Pressure(volts float32) float32 {
	return (volts - f.Offset) / f.Slope
}

// VoltageBuf applies the forward equation to a whole waveform, writing into
// the caller's buffer. Nil or length-mismatched buffers are a programming
// defect and fail immediately with ErrInvalidArgument, leaving voltages
// untouched.
func (f TransferFunc) VoltageBuf(pressures, voltages []float32) error {
	if pressures == nil || voltages == nil {
		return fmt.Errorf("%w: nil waveform buffer", ErrInvalidArgument)
	}
	if len(voltages) < len(pressures) {
		return fmt.Errorf("%w: voltage buffer too short (%d < %d)",
			ErrInvalidArgument, len(voltages), len(pressures))
	}
	for i, p := range pressures {
		voltages[i] = f.Voltage(p)
	}
	return nil
}
