package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

const normalLogSize = 512

// Flags to modify Backend's behavior.
const (
	// LogFlagLongFile adds the full path and line of the logging callsite,
	// e.g. /a/b/c/main.go:123.
	LogFlagLongFile uint32 = 1 << iota

	// LogFlagShortFile adds the file name and line of the logging callsite,
	// e.g. main.go:123. It takes precedence over LogFlagLongFile.
	LogFlagShortFile
)

// Rotated log files roll over at 100 MB and the last 8 are kept.
const (
	rotateThresholdKB = 100 * 1000
	rotateMaxRolls    = 8
)

// flagsFromEnv reads a comma separated list of backend flags from the
// LOGFLAGS environment variable.
func flagsFromEnv() uint32 {
	var flags uint32
	for _, flag := range strings.Split(os.Getenv("LOGFLAGS"), ",") {
		switch flag {
		case "longfile":
			flags |= LogFlagLongFile
		case "shortfile":
			flags |= LogFlagShortFile
		}
	}
	return flags
}

// levelWriter receives every entry at or above its level.
type levelWriter struct {
	io.WriteCloser
	level Level
}

// Backend serializes the entries of all its subsystem loggers into its
// writers from a single goroutine.
type Backend struct {
	flag      uint32
	isRunning uint32
	writers   []levelWriter
	writeChan chan logEntry
	done      sync.Mutex // held while the backend goroutine drains writeChan
}

// NewBackendWithFlags returns a Backend with the given flags instead of the
// ones in LOGFLAGS.
func NewBackendWithFlags(flags uint32) *Backend {
	return &Backend{flag: flags, writeChan: make(chan logEntry)}
}

// NewBackend returns a Backend configured through LOGFLAGS.
func NewBackend() *Backend {
	return NewBackendWithFlags(flagsFromEnv())
}

// AddLogFile adds a rotated log file, creating it and its directory if
// needed, that receives every entry at or above logLevel.
func (b *Backend) AddLogFile(logFile string, logLevel Level) error {
	if logDir := filepath.Dir(logFile); logDir != "." {
		err := os.MkdirAll(logDir, 0700)
		if err != nil {
			return errors.Wrapf(err, "failed to create log directory %s", logDir)
		}
	}
	logRotator, err := rotator.New(logFile, rotateThresholdKB, false, rotateMaxRolls)
	if err != nil {
		return errors.Wrapf(err, "failed to create file rotator for %s", logFile)
	}
	return b.addWriter(logRotator, logLevel)
}

// AddLogWriter adds logWriter to the writers that receive every entry at or
// above logLevel.
func (b *Backend) AddLogWriter(logWriter io.WriteCloser, logLevel Level) error {
	return b.addWriter(logWriter, logLevel)
}

func (b *Backend) addWriter(writer io.WriteCloser, level Level) error {
	if b.IsRunning() {
		return errors.New("cannot add a log writer to a running backend")
	}
	b.writers = append(b.writers, levelWriter{WriteCloser: writer, level: level})
	return nil
}

// Run starts writing entries in a new goroutine. It may only be called once.
func (b *Backend) Run() error {
	if !atomic.CompareAndSwapUint32(&b.isRunning, 0, 1) {
		return errors.New("the log backend is already running")
	}
	b.done.Lock()
	go func() {
		defer b.done.Unlock()
		defer atomic.StoreUint32(&b.isRunning, 0)
		defer func() {
			if err := recover(); err != nil {
				fmt.Fprintf(os.Stderr, "Fatal error in the log backend: %+v\n%s\n", err, debug.Stack())
			}
		}()

		for entry := range b.writeChan {
			for _, writer := range b.writers {
				if entry.level >= writer.level {
					_, _ = writer.Write(entry.log)
				}
			}
		}
	}()
	return nil
}

// IsRunning returns whether Run was called and the backend is not closed yet.
func (b *Backend) IsRunning() bool {
	return atomic.LoadUint32(&b.isRunning) != 0
}

// Close waits for the pending entries to be written and closes every
// writer.
func (b *Backend) Close() {
	close(b.writeChan)
	b.done.Lock()
	defer b.done.Unlock()
	for _, writer := range b.writers {
		_ = writer.Close()
	}
}

// Logger returns a logger for the subsystem with the given tag. The logger
// writes nothing until its level is set.
func (b *Backend) Logger(subsystemTag string) *Logger {
	return &Logger{LevelOff, subsystemTag, b, b.writeChan}
}
