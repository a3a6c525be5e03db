package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"murmur/binding"
	"murmur/capture"
	"murmur/doctor"
	"murmur/hotkey"
	"murmur/keys"
	"murmur/log"
	"murmur/portal"
)

var version = "dev"

var defaultBindings = []binding.Binding{
	{ID: "ptt", DefaultBinding: "ctrl+shift+space"},
	{ID: "toggle", DefaultBinding: "ctrl+shift+f9"},
}

// initCrashLog points runtime panics at a file in the default log dir.
// Called before flag parsing; run() re-points it once -logpath is known.
func initCrashLog() {
	dir, err := log.ResolveDir("")
	if err != nil {
		return
	}
	os.MkdirAll(dir, 0755)
	openCrashFile(dir)
}

func openCrashFile(dir string) {
	crashPath := filepath.Join(dir, "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
	debug.SetCrashOutput(crashFile, debug.CrashOptions{})
}

func run() {
	configFlag := flag.String("config", "", "settings file path (default: OS config location)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	longPressFlag := flag.Duration("longpress", 350*time.Millisecond, "Long-press threshold separating hold from tap (e.g., 350ms)")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("murmur %s\n", version)
		os.Exit(0)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}
	if *logPathFlag != "" {
		openCrashFile(log.Dir())
	}

	if *doctorFlag {
		os.Exit(doctor.Run())
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer log.Close()
	log.Infof("murmur %s starting [pid=%d]", version, os.Getpid())

	cfgPath := *configFlag
	if cfgPath == "" {
		cfgPath = binding.DefaultPath()
	}
	store, err := binding.NewFileStore(cfgPath, defaultBindings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open settings at %s: %v\n", cfgPath, err)
		os.Exit(1)
	}

	osName := keys.Detect()
	backend := hotkey.NewBackend(func(id string) (string, error) {
		b, err := store.GetBinding(id)
		if err != nil {
			return "", err
		}
		return b.CurrentBinding, nil
	}, osName)
	defer backend.Close()

	for _, b := range defaultBindings {
		if err := backend.Register(b.ID); err != nil {
			log.Warnf("hotkey %s not live: %v", b.ID, err)
		}
	}

	coord := binding.NewCoordinator(store, backend)
	sink := tuiSink{}
	rec := binding.NewRecorder(coord, store, capture.New(), osName, sink)

	// The push-to-talk binding gets the hybrid interpretation: hold past
	// the threshold talks until release, a tap latches on until the next
	// tap.
	hy := hotkey.NewHybrid(backend.Keydown("ptt"), backend.Keyup("ptt"), *longPressFlag)
	go func() {
		for {
			select {
			case <-hy.Start():
				log.SessionEvent("ptt", "active")
				sink.HotkeyActive("ptt", hy.IsToggle())
			case <-hy.Stop():
				log.SessionEvent("ptt", "inactive")
				sink.HotkeyInactive("ptt")
			}
		}
	}()
	go func() {
		active := false
		for {
			select {
			case <-backend.Keydown("toggle"):
				active = !active
				if active {
					log.SessionEvent("toggle", "active")
					sink.HotkeyActive("toggle", true)
				} else {
					log.SessionEvent("toggle", "inactive")
					sink.HotkeyInactive("toggle")
				}
			case <-backend.Keyup("toggle"):
			}
		}
	}()

	if portal.IsWaylandSession() {
		state := portal.NewState()
		watcher := portal.NewWatcher(state)
		if err := watcher.Start(); err != nil {
			log.Warnf("portal sync unavailable: %v", err)
		} else {
			defer watcher.Stop()
			go func() {
				for infos := range watcher.Updates() {
					sink.PortalUpdate(infos)
				}
			}()
		}
	}

	p := NewTUIProgram(store, rec, coord, osName)
	tuiMu.Lock()
	tuiProgram = p
	tuiMu.Unlock()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		log.Errorf("tui: %v", err)
	}
	log.Info("murmur exiting")
}
