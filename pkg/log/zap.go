package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"os"
)

// SetupLogger builds the console logger shared by all commands. logLevel
// accepts the zap spellings: debug, info, warn, error, dpanic, panic, fatal.
func SetupLogger(logLevel string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, err
	}

	atomicLevel := zap.NewAtomicLevel()
	atomicLevel.SetLevel(zapLevel)

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:   "msg",
		LevelKey:     "level",
		TimeKey:      "time",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.CapitalColorLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)
	consoleOut := zapcore.Lock(os.Stdout)

	core := zapcore.NewCore(consoleEncoder, consoleOut, atomicLevel)

	logger := zap.New(core, zap.AddCaller(), zap.Development())

	return logger, nil
}
