// Package decode implements the tail matcher and offset trimming that turn
// a decoded OpenLR line location reference into a concrete LineLocation on
// a target map, per spec.md §4.G-§4.H, and wires them behind the module's
// top-level Decode entry point (spec.md §6.1).
package decode

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/NERVsystems/openlr-dereferencer/pkg/geo"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/config"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/monitoring"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/observer"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/tracing"
)

// Decode resolves ref against reader: it nominates and scores candidates
// for each LRP, searches for a length-consistent chain of routes
// connecting them (backtracking across candidate alternatives as needed),
// and trims ref's head/tail offsets from the assembled route.
//
// obs defaults to observer.Noop{} when nil. tool defaults to geo.WGS84{}
// when nil. ctx is polled between LRP transitions and at each A* dequeue;
// a cancelled context surfaces as a wrapped context error.
func Decode(ctx context.Context, ref model.LineLocationReference, reader model.MapReader, cfg config.Config, obs observer.Observer, tool geo.Tool) (model.LineLocation, error) {
	return DecodeWithLogger(ctx, ref, reader, cfg, obs, tool, slog.Default())
}

// DecodeWithLogger is Decode with an explicit *slog.Logger for candidate
// nomination's debug-level tracing, for callers that don't want the
// process-wide default logger.
func DecodeWithLogger(ctx context.Context, ref model.LineLocationReference, reader model.MapReader, cfg config.Config, obs observer.Observer, tool geo.Tool, logger *slog.Logger) (model.LineLocation, error) {
	start := time.Now()
	loc, err := decode(ctx, ref, reader, cfg, obs, tool, logger)
	status := "success"
	if err != nil {
		status = "failure"
	}
	monitoring.DecodeDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	return loc, err
}

func decode(ctx context.Context, ref model.LineLocationReference, reader model.MapReader, cfg config.Config, obs observer.Observer, tool geo.Tool, logger *slog.Logger) (model.LineLocation, error) {
	ctx, span := tracing.StartSpan(ctx, "decode.Decode",
		trace.WithAttributes(attribute.Int(tracing.AttrLRPCount, len(ref.Points))))
	defer span.End()

	if obs == nil {
		obs = observer.Noop{}
	}
	if tool == nil {
		tool = geo.WGS84{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		err = wrapError(CodeInvalidReference, "invalid configuration", err)
		tracing.RecordError(ctx, err)
		return model.LineLocation{}, err
	}
	if err := ref.Validate(); err != nil {
		err = wrapError(CodeInvalidReference, "invalid line location reference", err)
		tracing.RecordError(ctx, err)
		return model.LineLocation{}, err
	}

	routes, err := Match(ctx, ref, reader, cfg, obs, tool, logger)
	if err != nil {
		tracing.RecordError(ctx, err)
		return model.LineLocation{}, err
	}

	loc, err := TrimOffsets(routes, ref.PositiveOffset, ref.NegativeOffset)
	if err != nil {
		tracing.RecordError(ctx, err)
		return model.LineLocation{}, err
	}
	span.SetAttributes(attribute.Int(tracing.AttrLineCount, len(loc.Lines)))
	return loc, nil
}
