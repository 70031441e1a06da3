package helpers

import "log/slog"

func Logging(logger *slog.Logger, logType, message string, args ...any) {
	if logger == nil {
		return
	}

	switch logType {
	case "error":
		logger.Error(message, args...)
	case "debug":
		logger.Debug(message, args...)
	case "warn":
		logger.Warn(message, args...)
	default:
		logger.Info(message, args...)
	}
}
