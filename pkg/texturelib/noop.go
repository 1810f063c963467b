package texturelib

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink.
// Useful when event observation is not needed, and for testing.
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// TextureUploaded does nothing and returns nil
func (n *NoopEventSink) TextureUploaded(ctx context.Context, texture *Texture) error {
	return nil
}

// TextureDeleted does nothing and returns nil
func (n *NoopEventSink) TextureDeleted(ctx context.Context, textureID uuid.UUID) error {
	return nil
}

// VisibilityChanged does nothing and returns nil
func (n *NoopEventSink) VisibilityChanged(ctx context.Context, texture *Texture) error {
	return nil
}

// ClosetAttached does nothing and returns nil
func (n *NoopEventSink) ClosetAttached(ctx context.Context, userID, textureID uuid.UUID) error {
	return nil
}

// ClosetDetached does nothing and returns nil
func (n *NoopEventSink) ClosetDetached(ctx context.Context, userID, textureID uuid.UUID) error {
	return nil
}

// LoggingEventSink is an event sink that logs events but takes no other
// action. Useful for development and debugging.
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates a new logging event sink
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

func (l *LoggingEventSink) TextureUploaded(ctx context.Context, texture *Texture) error {
	l.logger.Info("texture uploaded",
		"texture_id", texture.ID,
		"kind", string(texture.Kind),
		"public", texture.Public,
		"size_units", texture.SizeUnits,
		"uploader_id", texture.UploaderID)
	return nil
}

func (l *LoggingEventSink) TextureDeleted(ctx context.Context, textureID uuid.UUID) error {
	l.logger.Info("texture deleted", "texture_id", textureID)
	return nil
}

func (l *LoggingEventSink) VisibilityChanged(ctx context.Context, texture *Texture) error {
	l.logger.Info("texture visibility changed",
		"texture_id", texture.ID,
		"public", texture.Public)
	return nil
}

func (l *LoggingEventSink) ClosetAttached(ctx context.Context, userID, textureID uuid.UUID) error {
	l.logger.Info("closet entry attached", "user_id", userID, "texture_id", textureID)
	return nil
}

func (l *LoggingEventSink) ClosetDetached(ctx context.Context, userID, textureID uuid.UUID) error {
	l.logger.Info("closet entry detached", "user_id", userID, "texture_id", textureID)
	return nil
}
