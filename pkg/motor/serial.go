package motor

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"go.bug.st/serial"
)

// SerialDriver sends joint states to a motor bridge as ASCII frames:
// 'M', one digit per channel (left then right), newline. "M10\n" is
// left on, right off.
type SerialDriver struct {
	port   io.WriteCloser
	name   string
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewSerialDriver opens the bridge at path with 8N1 framing.
func NewSerialDriver(path string, baud int, logger *slog.Logger) (*SerialDriver, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, wrapErr(BackendSerial, "open "+path, err)
	}

	d := newSerialDriver(port, path, logger)
	if err := d.Apply(Off); err != nil {
		port.Close()
		return nil, err
	}
	return d, nil
}

func newSerialDriver(port io.WriteCloser, name string, logger *slog.Logger) *SerialDriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SerialDriver{port: port, name: name, logger: logger}
}

// EncodeFrame returns the wire frame for a joint state.
func EncodeFrame(s State) []byte {
	frame := []byte("M00\n")
	if s.Left {
		frame[1] = '1'
	}
	if s.Right {
		frame[2] = '1'
	}
	return frame
}

// Apply writes one frame.
func (d *SerialDriver) Apply(s State) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	return d.write(s)
}

func (d *SerialDriver) write(s State) error {
	frame := EncodeFrame(s)
	n, err := d.port.Write(frame)
	if err != nil {
		return fmt.Errorf("write %s: %w", d.name, err)
	}
	if n != len(frame) {
		return fmt.Errorf("write %s: short write %d/%d", d.name, n, len(frame))
	}
	d.logger.Debug("[SERIAL] "+describe(s), "frame", string(frame[:3]))
	return nil
}

// Close sends a stop frame and closes the port. Later calls are no-ops.
func (d *SerialDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	stopErr := d.write(Off)
	closeErr := d.port.Close()
	if stopErr != nil {
		return stopErr
	}
	return closeErr
}
