// Package membuf implements a family of fixed-capacity, linearly addressed
// buffers with a mutable read/write cursor.
//
// Every buffer carries four cursor fields: a capacity fixed at construction,
// a soft limit, a position advanced by relative operations, and an optional
// mark that Reset rewinds to. Multi-byte accessors are byte-order aware and
// default to big-endian.
//
// Three storage backings implement the same contract: an ordinary heap slice
// (Allocate, Wrap), an off-heap anonymous mapping (AllocateDirect), and a
// memory-mapped file (Map, MapNamed). Buffers derived with Slice, Duplicate,
// AsReadOnly or one of the typed view constructors alias the same storage
// under fully independent cursors.
//
// Some examples on using the API are implemented as executable go programs in
// the `examples` subdirectory.
package membuf

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is the last tagged version of the package
const Version = "1.0.0"

var logging bool
var logWriters = []zapcore.WriteSyncer{os.Stdout}
var logger *zap.Logger
var zapEncoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "level",
	NameKey:        "logger",
	CallerKey:      "caller",
	MessageKey:     "msg",
	StacktraceKey:  "stacktrace",
	EncodeLevel:    zapcore.LowercaseLevelEncoder,
	EncodeTime:     zapcore.ISO8601TimeEncoder,
	EncodeDuration: zapcore.SecondsDurationEncoder,
}

func initLogging() {
	logging = false
	initializeLogger()
}

// EnableLogging enables logging if true is passed and disables it if false
// is passed.
func EnableLogging(enable bool) {
	logging = enable
}

// AddLogWriter adds a new io.Writer as a target for writing
// logs.
func AddLogWriter(writer io.Writer) {
	logWriters = append(logWriters, zapcore.AddSync(writer))
	initializeLogger()
}

// SetLogWriters will set the passed io.Writer instances as targets for
// writing logs.
func SetLogWriters(writers ...io.Writer) {
	writesyncers := make([]zapcore.WriteSyncer, 0, len(writers))
	for _, w := range writers {
		writesyncers = append(writesyncers, zapcore.AddSync(w))
	}

	logWriters = writesyncers
	initializeLogger()
}

func initializeLogger() {
	ws := zap.CombineWriteSyncers(logWriters...)
	logger = zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zapEncoderConfig),
		ws, zapcore.InfoLevel,
	))
}

// init maintains a central location of all things that happen when the package
// is initialized instead of everything being scattered in multiple source files
func init() {
	initLogging()
	initConfig()
}
