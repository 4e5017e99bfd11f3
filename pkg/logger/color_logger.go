package logger

import (
	"fmt"
	"io"
	"log"
)

type ColorLogger struct {
	*log.Logger
}

type Color string

const (
	ColorBlack  Color = "\u001b[30m"
	ColorRed    Color = "\u001b[31m"
	ColorGreen  Color = "\u001b[32m"
	ColorYellow Color = "\u001b[33m"
	ColorBlue   Color = "\u001b[34m"
	ColorReset  Color = "\u001b[0m"
)

// NewColorLogger wraps lg. A nil lg gives a logger that drops everything.
func NewColorLogger(lg *log.Logger) *ColorLogger {
	if lg == nil {
		return Discard()
	}
	return &ColorLogger{lg}
}

func Discard() *ColorLogger {
	return &ColorLogger{log.New(io.Discard, "", 0)}
}

func (c *ColorLogger) Printcf(color Color, format string, args ...interface{}) {
	c.Print(string(color) + fmt.Sprintf(format, args...) + string(ColorReset))
}

func (c *ColorLogger) Printc(color Color, s string) {
	c.Print(string(color) + s + string(ColorReset))
}

// Errorf prints in red.
func (c *ColorLogger) Errorf(format string, args ...interface{}) {
	c.Printcf(ColorRed, format, args...)
}
