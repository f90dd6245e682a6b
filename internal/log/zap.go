package log

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the log output encoding.
type Format string

const (
	FormatJSON    Format = "JSON"
	FormatConsole Format = "Console"
)

var AvailableFormats = []Format{FormatJSON, FormatConsole}

func (f *Format) Type() string {
	return "string"
}

func (f *Format) String() string {
	return string(*f)
}

func (f *Format) Set(s string) error {
	switch strings.ToLower(s) {
	case "json":
		*f = FormatJSON
		return nil
	case "console":
		*f = FormatConsole
		return nil
	default:
		return fmt.Errorf("invalid format '%s'", s)
	}
}

// Options holds the command-line configurable logging settings.
type Options struct {
	// Debug enables more verbose logging.
	Debug bool
	// Format corresponds to the log format (JSON or plain text).
	Format Format
}

func NewDefaultOptions() Options {
	return Options{
		Debug:  false,
		Format: FormatJSON,
	}
}

func (o *Options) AddPFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Debug, "log-debug", o.Debug, "Enables more verbose logging")
	fs.Var(&o.Format, "log-format", "Log format, one of JSON or Console")
}

func (o *Options) Validate() error {
	for i := range AvailableFormats {
		if o.Format == AvailableFormats[i] {
			return nil
		}
	}

	return fmt.Errorf("invalid log-format specified %q; available: %+v", o.Format, AvailableFormats)
}

func NewFromOptions(o Options) *zap.Logger {
	return New(o.Debug, o.Format)
}

func New(debug bool, format Format) *zap.Logger {
	sink := zapcore.AddSync(os.Stderr)

	lvl := zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		lvl = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.StringDurationEncoder

	var enc zapcore.Encoder
	if format == FormatJSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	opts := []zap.Option{
		zap.AddCaller(),
		zap.ErrorOutput(sink),
	}

	return zap.New(zapcore.NewCore(enc, sink, lvl), opts...)
}

// NewDefault creates a new logger with the default settings.
func NewDefault() *zap.Logger {
	return New(false, FormatJSON)
}
