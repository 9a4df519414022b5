package gormlog

import (
	"strings"

	gormlogger "gorm.io/gorm/logger"
)

// Level maps a config string to a gorm log level, defaulting to Warn.
func Level(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
