package ui

import (
	"fmt"
	"os"
	"sync"
)

type logEntry struct {
	level   string
	message string
}

var (
	activeLogMu sync.RWMutex
	activeLogCh chan logEntry
)

// setActiveLogChannel sets the channel used by the spinner to receive log
// updates. Internal to the spinner.
func setActiveLogChannel(ch chan logEntry) {
	activeLogMu.Lock()
	activeLogCh = ch
	activeLogMu.Unlock()
}

func clearActiveLogChannel() {
	setActiveLogChannel(nil)
}

// Logf logs a formatted message. If a spinner is active its text updates;
// the message is mirrored to stdout either way so output survives the
// spinner.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	activeLogMu.RLock()
	ch := activeLogCh
	activeLogMu.RUnlock()
	if ch != nil {
		select {
		case ch <- logEntry{level: "info", message: msg}:
		default:
			// drop rather than block the spinner loop
		}
	}
	fmt.Fprint(os.Stdout, msg)
}

// Log writes a plain message with a trailing newline.
func Log(msg string) {
	Logf("%s\n", msg)
}
