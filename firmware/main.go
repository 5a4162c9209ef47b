//go:generate tinygo flash -target=arduino

//go:build tinygo

// Board-side half of the serial HAL bridge. The host sends one ASCII request
// per line and gets exactly one reply line back:
//
//	ar <pin>          -> <counts>        raw 10-bit ADC reading
//	aw <pin> <duty>   -> ok              PWM/actuation output
//	pm <pin> <mode>   -> ok              0=input 1=output 2=input_pullup
//	dw <pin> <level>  -> ok|err pinmode  digital write, output pins only
//
// Anything unparseable gets "err cmd", an out-of-range pin "err pin". The
// firmware keeps no other state than the configured pin modes.
package main

import (
	"machine"
	"time"
)

const (
	modeInput       = 0
	modeOutput      = 1
	modeInputPullup = 2
)

var (
	uart = machine.UART0

	adcs     [6]machine.ADC
	pinModes [14]uint8

	lineBuffer [32]byte
	linePos    int
)

func main() {
	uart.Configure(machine.UARTConfig{BaudRate: UART_BAUD_RATE})

	machine.InitADC()
	for i, pin := range analogPins {
		adcs[i] = machine.ADC{Pin: pin}
		adcs[i].Configure(machine.ADCConfig{})
	}

	for {
		for uart.Buffered() > 0 {
			b, err := uart.ReadByte()
			if err != nil {
				continue
			}
			if b == '\n' || b == '\r' {
				if linePos > 0 {
					reply(handleLine(string(lineBuffer[:linePos])))
					linePos = 0
				}
				continue
			}
			if linePos < len(lineBuffer) {
				lineBuffer[linePos] = b
				linePos++
			}
		}
		time.Sleep(100 * time.Microsecond)
	}
}

func reply(s string) {
	uart.Write([]byte(s))
	uart.WriteByte('\n')
}

// handleLine parses one request and returns the reply line.
func handleLine(line string) string {
	cmd, rest := splitField(line)
	pinStr, argStr := splitField(rest)

	pin, ok := parseNum(pinStr)
	if !ok {
		return "err cmd"
	}

	switch cmd {
	case "ar":
		if pin >= len(analogPins) {
			return "err pin"
		}
		// TinyGo ADC readings are left-aligned 16 bit; the protocol
		// carries the native 10-bit counts.
		return itoa(int(adcs[pin].Get() >> 6))

	case "aw":
		duty, ok := parseNum(argStr)
		if !ok || duty > 255 {
			return "err cmd"
		}
		if pin >= len(digitalPins) {
			return "err pin"
		}
		setPWM(digitalPins[pin], uint8(duty))
		return "ok"

	case "pm":
		mode, ok := parseNum(argStr)
		if !ok || mode > modeInputPullup {
			return "err cmd"
		}
		if pin >= len(digitalPins) {
			return "err pin"
		}
		cfg := machine.PinConfig{Mode: machine.PinInput}
		switch mode {
		case modeOutput:
			cfg.Mode = machine.PinOutput
		case modeInputPullup:
			cfg.Mode = machine.PinInputPullup
		}
		digitalPins[pin].Configure(cfg)
		pinModes[pin] = uint8(mode)
		return "ok"

	case "dw":
		level, ok := parseNum(argStr)
		if !ok || level > 1 {
			return "err cmd"
		}
		if pin >= len(digitalPins) {
			return "err pin"
		}
		if pinModes[pin] != modeOutput {
			return "err pinmode"
		}
		digitalPins[pin].Set(level == 1)
		return "ok"

	default:
		return "err cmd"
	}
}

// setPWM drives an actuation output. The alarm buzzer only needs on/off, so
// duty is thresholded instead of running a hardware PWM slice.
func setPWM(pin machine.Pin, duty uint8) {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Set(duty >= 128)
}

// splitField returns the text before the first space and the remainder.
func splitField(s string) (string, string) {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}

// parseNum parses a small non-negative decimal.
func parseNum(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
		if n > 65535 {
			return 0, false
		}
	}
	return n, true
}

// itoa formats a small non-negative decimal without pulling in fmt.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
