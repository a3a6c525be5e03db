//go:build linux

package capture

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	evKey         = 1
	keyRelease    = 0
	keyPress      = 1
	keyAutoRepeat = 2
)

// input_event is 24 bytes on 64-bit Linux:
// timeval (16 bytes) + type (2) + code (2) + value (4)
const inputEventSize = 24

type evdevCapture struct {
	events    chan Event
	files     []*os.File
	stop      chan struct{}
	mu        sync.Mutex
	installed bool
}

// New creates a raw key capture reading /dev/input directly.
// Requires the user to be in the 'input' group.
func New() Capture {
	return &evdevCapture{
		events: make(chan Event, 16),
	}
}

func (c *evdevCapture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.installed {
		return fmt.Errorf("key capture already installed")
	}

	keyboards, err := findKeyboards()
	if err != nil {
		return fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	c.stop = make(chan struct{})
	c.files = nil

	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		c.files = append(c.files, f)
		go c.readEvents(f, c.stop)
	}

	if len(c.files) == 0 {
		return fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}

	c.installed = true
	return nil
}

func (c *evdevCapture) readEvents(f *os.File, stop chan struct{}) {
	buf := make([]byte, inputEventSize*16)

	for {
		select {
		case <-stop:
			return
		default:
		}

		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

			if evType != evKey {
				continue
			}
			code, ok := keyCodeNames[evCode]
			if !ok {
				continue
			}

			ev := Event{Code: code}
			switch evValue {
			case keyPress:
				ev.Press = true
			case keyAutoRepeat:
				ev.Press = true
				ev.Repeat = true
			case keyRelease:
			default:
				continue
			}

			select {
			case c.events <- ev:
			case <-stop:
				return
			}
		}
	}
}

func (c *evdevCapture) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.installed {
		return
	}
	close(c.stop)
	for _, f := range c.files {
		f.Close()
	}
	c.files = nil
	c.installed = false
}

func (c *evdevCapture) Events() <-chan Event {
	return c.events
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, filepath.Join("/dev/input", e.Name()))
		}
	}
	return keyboards, nil
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}

// Diagnose checks raw capture availability and returns a status message.
func Diagnose() (string, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	var opened string
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(keyboards))
	}

	return fmt.Sprintf("%d keyboard(s) found, opened %s", len(keyboards), opened), nil
}
