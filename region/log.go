package region

import "github.com/bnclabs/mcpalloc/log"

var gate = log.NewGate("region", "self")

// LogComponents enable logging for "region" or "self" or "all".
func LogComponents(components ...string) {
	gate.Enable(components...)
}

func debugf(format string, v ...interface{}) {
	gate.Debugf(format, v...)
}

func warnf(format string, v ...interface{}) {
	gate.Warnf(format, v...)
}
