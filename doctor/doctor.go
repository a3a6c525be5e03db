// Package doctor runs interactive system diagnostics for the -doctor
// flag: raw keyboard access, settings persistence, and desktop portal
// availability.
package doctor

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"murmur/binding"
	"murmur/capture"
	"murmur/portal"
)

func setupInterruptHandler() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, interruptSignals...)
	go func() {
		<-sigChan
		fmt.Println("\ninterrupted")
		os.Exit(1)
	}()
}

// Run executes the checks and returns an exit code (0=all pass, 1=any fail).
func Run() int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("murmur doctor - interactive system diagnostics")
	fmt.Println("==============================================")

	allPass := true

	if !checkCapture() {
		allPass = false
	}
	if !checkSettings() {
		allPass = false
	}
	if !checkPortal() {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
	} else {
		fmt.Println("Some checks failed. See details above.")
	}

	if allPass {
		return 0
	}
	return 1
}

func checkCapture() bool {
	fmt.Println()
	fmt.Println("[1/3] Raw keyboard capture")

	status, err := capture.Diagnose()
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Printf("  %s\n", status)

	fmt.Println("  Press any key within 10s...")
	cap := capture.New()
	if err := cap.Start(); err != nil {
		fmt.Printf("  FAIL: cannot read keyboard: %v\n", err)
		return false
	}
	defer cap.Stop()

	select {
	case ev := <-cap.Events():
		fmt.Printf("  PASS: saw %s\n", ev.Code)
		resetTerminal()
		return true
	case <-time.After(10 * time.Second):
		fmt.Println("  FAIL: timeout waiting for a key event")
		return false
	}
}

func checkSettings() bool {
	fmt.Println()
	fmt.Println("[2/3] Settings persistence")

	path := binding.DefaultPath()
	fmt.Printf("  settings file: %s\n", path)

	store, err := binding.NewFileStore(path, []binding.Binding{
		{ID: "ptt", DefaultBinding: "ctrl+shift+space"},
	})
	if err != nil {
		fmt.Printf("  FAIL: cannot open settings: %v\n", err)
		return false
	}
	b, err := store.GetBinding("ptt")
	if err != nil {
		fmt.Printf("  FAIL: cannot read binding: %v\n", err)
		return false
	}
	// Write the current value back to prove the file is writable.
	if err := store.SetBinding("ptt", b.CurrentBinding); err != nil {
		fmt.Printf("  FAIL: cannot write settings: %v\n", err)
		return false
	}
	fmt.Println("  PASS: settings readable and writable")
	return true
}

func checkPortal() bool {
	fmt.Println()
	fmt.Println("[3/3] Desktop portal")

	if !portal.IsWaylandSession() {
		fmt.Printf("  SKIP: not a wayland session (XDG_SESSION_TYPE=%q)\n", os.Getenv("XDG_SESSION_TYPE"))
		return true
	}

	state := portal.NewState()
	watcher := portal.NewWatcher(state)
	if err := watcher.Start(); err != nil {
		fmt.Printf("  FAIL: portal unreachable: %v\n", err)
		return false
	}
	defer watcher.Stop()

	select {
	case infos := <-watcher.Updates():
		fmt.Printf("  PASS: portal reports %d shortcut(s)\n", len(infos))
		for _, info := range infos {
			hazard := ""
			if info.HasPrintableKey {
				hazard = "  (printable key)"
			}
			fmt.Printf("    %s: %s%s\n", info.ID, info.Trigger, hazard)
		}
		return true
	case <-time.After(5 * time.Second):
		fmt.Println("  FAIL: no shortcut snapshot within 5s")
		return false
	}
}
