// Package app holds what the per-entity catalogue services share.
package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"musiccatalog/internal/logging"
	"musiccatalog/internal/store"
)

// LogWrite records the outcome of a catalogue write. Rejected input is logged
// as a warning, storage failures as errors.
func LogWrite(ctx context.Context, entity, action string, id int64, found bool, err error) {
	logger := logging.WithContext(ctx)

	var event *zerolog.Event
	switch {
	case err == nil && found:
		event = logger.Info()
	case err == nil:
		event = logger.Debug().Bool("found", false)
	case store.IsValidation(err) || errors.Is(err, store.ErrConstraint):
		event = logger.Warn().Err(err)
	default:
		event = logger.Error().Err(err)
	}

	event.
		Str("entity", entity).
		Str("action", action).
		Int64("id", id).
		Msg("catalog write")
}
