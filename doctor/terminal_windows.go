//go:build windows

package doctor

import "os"

func resetTerminal() {
	// Not needed on Windows
}

var interruptSignals = []os.Signal{os.Interrupt}
