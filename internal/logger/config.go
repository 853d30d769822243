// internal/logger/config.go
package logger

// Config controls log output and rotation.
type Config struct {
	LogFile     string // rotated JSON log
	MaxSize     int    // megabytes before rotation
	MaxBackups  int
	MaxAge      int // days
	Compress    bool
	Development bool // debug level + pretty console output
}

// DefaultConfig returns production logging defaults.
func DefaultConfig() *Config {
	return &Config{
		LogFile:    "logs/levermon.log",
		MaxSize:    50,
		MaxBackups: 3,
		MaxAge:     14,
		Compress:   true,
	}
}
