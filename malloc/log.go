package malloc

import "fmt"

import "github.com/bnclabs/mcpalloc/log"

var gate = log.NewGate("malloc", "pool", "tcache", "self")

// LogComponents enable logging. By default logging is disabled, if
// applications want log information for malloc components call this
// function with "self" or "all" or "malloc" or "pool" or "tcache" as
// argument.
func LogComponents(components ...string) {
	gate.Enable(components...)
}

func debugf(format string, v ...interface{}) {
	gate.Debugf(format, v...)
}

func infof(format string, v ...interface{}) {
	gate.Infof(format, v...)
}

func warnf(format string, v ...interface{}) {
	gate.Warnf(format, v...)
}

func errorf(format string, v ...interface{}) {
	gate.Errorf(format, v...)
}

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
