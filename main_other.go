//go:build !linux

package main

import (
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	initCrashLog()
	// Cocoa/Win32 hotkey registration must run on the main thread.
	mainthread.Init(run)
}
