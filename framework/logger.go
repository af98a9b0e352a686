package framework

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timestampFormat = "2006-01-02 15:04:05.000"

type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

func NullLogger() Logger { return nullLogger{} }

type CapturedMessage struct {
	Time    time.Time
	Message string
}

type CapturedOutput []CapturedMessage

type CapturingLogger struct {
	output []CapturedMessage
	lock   sync.Mutex
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.lock.Lock()
	l.output = append(l.output, CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)})
	l.lock.Unlock()
}

func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append([]CapturedMessage(nil), l.output...)
	l.lock.Unlock()
	return ret
}

func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s] %s\n",
			prefix,
			m.Time.Format(timestampFormat),
			m.Message,
		)
	}
}

// loggerSink lets zap write encoded entries into a Logger, one Printf call per entry.
type loggerSink struct {
	logger Logger
}

func (s loggerSink) Write(data []byte) (int, error) {
	s.logger.Printf("%s", strings.TrimRight(string(data), "\n"))
	return len(data), nil
}

func (s loggerSink) Sync() error { return nil }

// NewZapLogger returns a zap logger whose entries are sent to the given Logger. This is how
// component logs end up in the captured debug output of the test that produced them.
//
// Timestamps are left out of the encoded entry, since CapturingLogger adds its own.
func NewZapLogger(logger Logger, level zapcore.Level) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	if _, ok := logger.(nullLogger); ok {
		return zap.NewNop()
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		loggerSink{logger: logger},
		level,
	)
	return zap.New(core)
}
