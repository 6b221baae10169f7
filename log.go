package ggc

import "sync/atomic"

import "github.com/prataprc/golog"

// logging is off by default; application code that wants collector-level
// diagnostics calls LogComponents("gc") once during startup. This mirrors
// llrb.LogComponents/bogn.LogComponents in the rest of the storage pack:
// a package-level switch gated by an atomic flag, rather than a logger
// threaded through every call.
var logok int32

// LogComponents turns on collector logging. Accepts "gc", "tracer",
// "sweep" or "all"; any other value is ignored.
func LogComponents(components ...string) {
	for _, comp := range components {
		switch comp {
		case "gc", "tracer", "sweep", "all":
			atomic.StoreInt32(&logok, 1)
		}
	}
}

func debugf(format string, v ...interface{}) {
	if atomic.LoadInt32(&logok) > 0 {
		golog.Debugf(format, v...)
	}
}

func infof(format string, v ...interface{}) {
	if atomic.LoadInt32(&logok) > 0 {
		golog.Infof(format, v...)
	}
}

func warnf(format string, v ...interface{}) {
	if atomic.LoadInt32(&logok) > 0 {
		golog.Warnf(format, v...)
	}
}

func errorf(format string, v ...interface{}) {
	if atomic.LoadInt32(&logok) > 0 {
		golog.Errorf(format, v...)
	}
}
