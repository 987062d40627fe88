package jsonv

import "github.com/bnclabs/mcpalloc/log"

var gate = log.NewGate("jsonv", "self")

// LogComponents enable logging for "jsonv" or "self" or "all".
func LogComponents(components ...string) {
	gate.Enable(components...)
}

func errorf(format string, v ...interface{}) {
	gate.Errorf(format, v...)
}
