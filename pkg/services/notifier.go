package services

import "log/slog"

// Notifier is told about newly discovered chapters. Implementations are
// fire-and-forget: they never return an error and must not panic the caller.
type Notifier interface {
	Notify(seriesTitle, chapterTitle, seriesURL string)
}

// LogNotifier announces new chapters on the log. It stands in for a real
// notification channel on platforms without one.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(seriesTitle, chapterTitle, seriesURL string) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("new chapter available",
		"series", seriesTitle,
		"chapter", chapterTitle,
		"url", seriesURL,
	)
}
