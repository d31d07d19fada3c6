package terminal

import (
	"fmt"
	"time"
)

const spinner = `|/-\`

// Operation represents a long running operation
type Operation struct {
	channel chan bool
	done    chan struct{}
}

// NewOperation starts a long running operation
func NewOperation(format string, a ...interface{}) *Operation {
	o := &Operation{
		channel: make(chan bool),
		done:    make(chan struct{}),
	}
	spinFrames := []rune(spinner)
	spinFramesSize := len(spinFrames)
	message := fmt.Sprintf(format, a...)

	go func() {
		defer close(o.done)
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		pos := 0

		for {
			select {
			case <-o.channel:
				return
			case <-ticker.C:
				fmt.Printf("\r  %s%s%s %s ", yellow, message, reset, string(spinFrames[pos%spinFramesSize]))
				pos++
			}
		}
	}()

	return o
}

// Success informs that the operation succeeded
func (o *Operation) Success(format string, a ...interface{}) {
	o.finished("✓", green, fmt.Sprintf(format, a...))
}

// Error informs that the operation failed
func (o *Operation) Error(err error, format string, a ...interface{}) {
	o.finished("✗", red, withCause(err, fmt.Sprintf(format, a...)))
}

func (o *Operation) finished(symbol string, color string, message string) {
	close(o.channel)
	<-o.done

	fmt.Printf("\033[2K")
	fmt.Printf("\r%s %s%s%s \n", symbol, color, message, reset)
}
