package lsp

import (
	"context"
	"log/slog"

	"go.lsp.dev/protocol"

	"github.com/yapf-ls/yapfls/internal/settings"
)

// logToClient writes to the client's output channel.
func (s *server) logToClient(ctx context.Context, message string) {
	s.notifyLog(ctx, protocol.MessageTypeLog, message)
}

// logDebug writes to the output channel only when the workspace enabled
// debug logging.
func (s *server) logDebug(ctx context.Context, message string, stg *settings.Settings) {
	if stg != nil && stg.ShowDebugLog {
		s.notifyLog(ctx, protocol.MessageTypeLog, message)
	}
}

func (s *server) logError(ctx context.Context, message string, stg *settings.Settings) {
	slog.Error(message)
	s.notifyLog(ctx, protocol.MessageTypeError, message)
	if notifyAt(stg, settings.NotifyOnError) {
		s.showMessage(ctx, protocol.MessageTypeError, message)
	}
}

func (s *server) logWarning(ctx context.Context, message string, stg *settings.Settings) {
	slog.Warn(message)
	s.notifyLog(ctx, protocol.MessageTypeWarning, message)
	if notifyAt(stg, settings.NotifyOnWarning) {
		s.showMessage(ctx, protocol.MessageTypeWarning, message)
	}
}

// notifyAt reports whether the workspace verbosity covers the given level.
func notifyAt(stg *settings.Settings, level settings.Notifications) bool {
	if stg == nil {
		return false
	}
	switch stg.ShowNotifications {
	case settings.NotifyAlways:
		return true
	case settings.NotifyOnWarning:
		return level == settings.NotifyOnWarning || level == settings.NotifyOnError
	case settings.NotifyOnError:
		return level == settings.NotifyOnError
	default:
		return false
	}
}

func (s *server) notifyLog(ctx context.Context, typ protocol.MessageType, message string) {
	if s.conn == nil {
		return
	}
	s.conn.Notify(ctx, protocol.MethodWindowLogMessage, &protocol.LogMessageParams{
		Type:    typ,
		Message: message,
	})
}

func (s *server) showMessage(ctx context.Context, typ protocol.MessageType, message string) {
	if s.conn == nil {
		return
	}
	s.conn.Notify(ctx, protocol.MethodWindowShowMessage, &protocol.ShowMessageParams{
		Type:    typ,
		Message: message,
	})
}
