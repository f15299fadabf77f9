package badger

import (
	"fmt"
	"log/slog"
	"strings"
)

// slogAdapter routes badger's printf-style logging into slog.
type slogAdapter struct {
	log *slog.Logger
}

func newSlogAdapter(log *slog.Logger) *slogAdapter {
	return &slogAdapter{log: log.With("component", "badger")}
}

func (a *slogAdapter) Errorf(format string, args ...interface{}) {
	a.log.Error(trimMessage(format, args))
}

func (a *slogAdapter) Warningf(format string, args ...interface{}) {
	a.log.Warn(trimMessage(format, args))
}

func (a *slogAdapter) Infof(format string, args ...interface{}) {
	a.log.Debug(trimMessage(format, args))
}

func (a *slogAdapter) Debugf(format string, args ...interface{}) {
	a.log.Debug(trimMessage(format, args))
}

func trimMessage(format string, args []interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}
