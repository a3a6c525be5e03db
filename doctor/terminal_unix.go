//go:build !windows

package doctor

import (
	"os"
	"os/exec"
	"syscall"
)

// The raw capture probe can leave the terminal in a raw-ish state;
// stty puts it back.
func resetTerminal() {
	exec.Command("stty", "sane").Run()
}

var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
