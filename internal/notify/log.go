package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogSink пишет события в лог. Используется, когда внешние каналы выключены.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Emit(_ context.Context, e Event) error {
	fields := []zap.Field{
		zap.String("id", e.ID.String()),
		zap.String("kind", string(e.Kind)),
		zap.String("recipient_type", string(e.RecipientType)),
		zap.String("recipient_id", e.RecipientID.String()),
	}
	if e.AppointmentID != nil {
		fields = append(fields, zap.String("appointment_id", e.AppointmentID.String()))
	}
	s.log.Info("notify.event", fields...)
	return nil
}
