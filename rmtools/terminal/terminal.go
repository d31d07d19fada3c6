package terminal

import (
	"fmt"
)

const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
)

// Error prints an error in red, followed by its cause if any
func Error(err error, format string, a ...interface{}) {
	fmt.Printf("%s%s%s\n", red, withCause(err, fmt.Sprintf(format, a...)), reset)
}

// Warn prints a warning in yellow
func Warn(format string, a ...interface{}) {
	fmt.Printf("%s! %s%s\n", yellow, fmt.Sprintf(format, a...), reset)
}

func withCause(err error, message string) string {
	if err == nil {
		return message
	}
	return fmt.Sprintf("%s [%s]", message, err)
}
