package hal

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate matches the firmware UART configuration.
	DefaultBaudRate = 115200

	replyOK         = "ok"
	replyErrPinMode = "err pinmode"
	replyErrPin     = "err pin"
)

// Serial is the production HAL backend on a host machine: every operation is
// forwarded as one line over a serial link to the board firmware (see
// firmware/), which answers with a single reply line. The protocol is plain
// ASCII:
//
//	ar <pin>          -> <counts>
//	aw <pin> <duty>   -> ok
//	pm <pin> <mode>   -> ok
//	dw <pin> <level>  -> ok | err pinmode
//
// Requests are strictly one-at-a-time; the mutex only exists so that Close
// may be called from a signal handler while a read is in flight.
type Serial struct {
	port     string
	baudRate int

	mu        sync.Mutex
	conn      serial.Port
	reader    *bufio.Reader
	connected bool
	bootTime  time.Time

	modes [NumDigitalPins]PinMode
}

// NewSerial creates a serial-bridge HAL for the given port. Connect must be
// called before any pin operation.
func NewSerial(port string, baudRate int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	return &Serial{
		port:     port,
		baudRate: baudRate,
	}
}

// Connect opens the serial port and anchors the millisecond clock.
func (s *Serial) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return fmt.Errorf("already connected")
	}

	conn, err := serial.Open(s.port, &serial.Mode{BaudRate: s.baudRate})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", s.port, err)
	}

	s.conn = conn
	s.reader = bufio.NewReader(conn)
	s.connected = true
	s.bootTime = time.Now()
	return nil
}

// Close closes the serial port.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}
	s.connected = false
	s.reader = nil
	err := s.conn.Close()
	s.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}
	return nil
}

// IsConnected reports whether the port is open.
func (s *Serial) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// AnalogRead requests one raw ADC sample from the board.
func (s *Serial) AnalogRead(pin AnalogPin) (uint16, error) {
	if int(pin) >= NumAnalogPins {
		return 0, ErrUnknownPin
	}
	reply, err := s.exchange(fmt.Sprintf("ar %d", pin))
	if err != nil {
		return 0, err
	}
	return parseCountsReply(reply)
}

// AnalogWrite sets the PWM duty on the board.
func (s *Serial) AnalogWrite(pin PwmPin, duty uint8) error {
	if int(pin) >= NumDigitalPins {
		return ErrUnknownPin
	}
	reply, err := s.exchange(fmt.Sprintf("aw %d %d", pin, duty))
	if err != nil {
		return err
	}
	return checkOKReply(reply)
}

// SetPinMode configures a digital pin direction on the board. The mode is
// mirrored host-side so DigitalWrite can reject mode violations without a
// round trip, matching the Mock backend behaviour.
func (s *Serial) SetPinMode(pin DigitalPin, mode PinMode) error {
	if int(pin) >= NumDigitalPins {
		return ErrUnknownPin
	}
	reply, err := s.exchange(fmt.Sprintf("pm %d %d", pin, mode))
	if err != nil {
		return err
	}
	if err := checkOKReply(reply); err != nil {
		return err
	}
	s.modes[pin] = mode
	return nil
}

// DigitalWrite drives a digital output pin on the board.
func (s *Serial) DigitalWrite(pin DigitalPin, level Level) error {
	if int(pin) >= NumDigitalPins {
		return ErrUnknownPin
	}
	if s.modes[pin] != ModeOutput {
		return ErrPinModeViolation
	}
	reply, err := s.exchange(fmt.Sprintf("dw %d %d", pin, level))
	if err != nil {
		return err
	}
	return checkOKReply(reply)
}

// Millis returns milliseconds since Connect.
func (s *Serial) Millis() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return 0
	}
	return uint32(time.Since(s.bootTime).Milliseconds())
}

// Delay sleeps for real. The acquisition path never calls this; it exists
// for bring-up scripts.
func (s *Serial) Delay(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// exchange sends one request line and reads one reply line.
func (s *Serial) exchange(cmd string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return "", ErrNotConnected
	}
	if _, err := s.conn.Write([]byte(cmd + "\n")); err != nil {
		return "", fmt.Errorf("failed to send %q: %w", cmd, err)
	}
	line, err := s.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read reply to %q: %w", cmd, err)
	}
	return strings.TrimSpace(line), nil
}

// parseCountsReply parses the reply to an "ar" request.
func parseCountsReply(reply string) (uint16, error) {
	if strings.HasPrefix(reply, "err") {
		return 0, checkOKReply(reply)
	}
	counts, err := strconv.ParseUint(reply, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid counts reply %q: %w", reply, err)
	}
	if counts > uint64(ADCMax) {
		return 0, fmt.Errorf("counts reply out of range: %d (max %d)", counts, ADCMax)
	}
	return uint16(counts), nil
}

// checkOKReply maps a reply line to an error.
func checkOKReply(reply string) error {
	switch reply {
	case replyOK:
		return nil
	case replyErrPinMode:
		return ErrPinModeViolation
	case replyErrPin:
		return ErrUnknownPin
	default:
		return fmt.Errorf("unexpected reply %q", reply)
	}
}
