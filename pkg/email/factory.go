package email

import "log/slog"

// NewSender picks Postmark when configured, then a DevSender when DevDir is
// set, and a LogSender otherwise.
func NewSender(cfg Config, log *slog.Logger) (EmailSender, error) {
	switch {
	case cfg.PostmarkEnabled():
		return NewPostmarkSender(cfg)
	case cfg.DevDir != "":
		return NewDevSender(cfg.DevDir), nil
	default:
		return NewLogSender(log), nil
	}
}
