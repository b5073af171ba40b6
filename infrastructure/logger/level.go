package logger

import "strings"

// Level is the level at which a logger is configured. Messages below it
// are dropped.
type Level uint32

// Level constants.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

var levelTags = [...]string{"TRC", "DBG", "INF", "WRN", "ERR", "CRT", "OFF"}

// levelsByName accepts both the long name and the tag of every level.
var levelsByName = map[string]Level{
	"trace": LevelTrace, "trc": LevelTrace,
	"debug": LevelDebug, "dbg": LevelDebug,
	"info": LevelInfo, "inf": LevelInfo,
	"warn": LevelWarn, "wrn": LevelWarn,
	"error": LevelError, "err": LevelError,
	"critical": LevelCritical, "crt": LevelCritical,
	"off": LevelOff,
}

// LevelFromString parses a case insensitive level name. Unknown names
// return LevelInfo and false.
func LevelFromString(s string) (l Level, ok bool) {
	l, ok = levelsByName[strings.ToLower(s)]
	if !ok {
		return LevelInfo, false
	}
	return l, true
}

// String returns the tag used for the level in log lines.
func (l Level) String() string {
	if l >= LevelOff {
		return "OFF"
	}
	return levelTags[l]
}
