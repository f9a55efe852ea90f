package world

import (
	"log"
	"os"
	"sync/atomic"
)

var pkgLogger atomic.Pointer[log.Logger]

func init() {
	pkgLogger.Store(log.New(os.Stderr, "[world] ", log.LstdFlags|log.Lmicroseconds))
}

// SetLogger replaces the logger used for failures that have no caller to
// return an error to. A nil logger restores the default.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(os.Stderr, "[world] ", log.LstdFlags|log.Lmicroseconds)
	}
	pkgLogger.Store(l)
}

func logger() *log.Logger { return pkgLogger.Load() }
