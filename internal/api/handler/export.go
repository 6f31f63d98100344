package handler

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/edvin/dockspace/internal/dms"
)

// Exporter regenerates the DMS files after a committed mutation. The export
// runs inline with the request; a failed export is logged and surfaced by
// the next scan rather than failing the request, since storage already
// committed.
type Exporter struct {
	syncer *dms.Syncer
	logger zerolog.Logger
}

func NewExporter(syncer *dms.Syncer, logger zerolog.Logger) *Exporter {
	return &Exporter{syncer: syncer, logger: logger}
}

func (e *Exporter) AfterChange(ctx context.Context) {
	res, err := e.syncer.Export(ctx)
	if err != nil {
		e.logger.Error().Err(err).Msg("dms export after change failed")
		return
	}
	if res.Failed() {
		e.logger.Warn().Interface("result", res).Msg("dms export after change completed with failures")
	}
}
