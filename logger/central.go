package logger

import (
	"io"
)

// Permission decides whether a caller may add to the log. Packages that log
// on behalf of something that can be silenced pass that thing in.
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (allow) AllowLogging() bool {
	return true
}

// Allow always permits logging.
var Allow Permission = allow{}

const maxCentral = 256

var central = NewLogger(maxCentral)

func Log(perm Permission, tag, detail string) {
	central.Log(perm, tag, detail)
}

func Logf(perm Permission, tag, detail string, args ...any) {
	central.Logf(perm, tag, detail, args...)
}

func Clear() {
	central.Clear()
}

func Write(output io.Writer) {
	central.Write(output)
}

func Tail(output io.Writer, number int) {
	central.Tail(output, number)
}

// SetEcho mirrors every new entry to output. A nil output stops echoing.
func SetEcho(output io.Writer) {
	central.SetEcho(output)
}
