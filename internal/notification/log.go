package notification

import "log/slog"

// LogService writes one-time codes to the application log instead of
// delivering them. It is the development fallback when SMTP is not
// configured.
type LogService struct {
	logger *slog.Logger
}

// NewLogService creates a log-only delivery service.
func NewLogService(logger *slog.Logger) *LogService {
	return &LogService{logger: logger}
}

// SendOtp logs the code and destination address.
func (s *LogService) SendOtp(to, code string) error {
	s.logger.Warn("smtp not configured, logging one-time code instead",
		"to", to, "code", code)
	return nil
}
