package browser

import (
	"io"
	"strings"

	"go.uber.org/zap"
)

type zapWriter struct {
	*zap.Logger
}

func (log zapWriter) Write(data []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line != "" {
			log.Logger.Info(line)
		}
	}
	return len(data), nil
}

// LogWriter returns a writer that logs each line written to it, for capturing the output of
// driver and browser processes.
func LogWriter(log *zap.Logger) io.Writer {
	return zapWriter{Logger: log}
}
