package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/internal/domain/parse"
	"github.com/okian/roastcurve/internal/domain/profileset"
	"github.com/okian/roastcurve/internal/domain/types"
	"github.com/okian/roastcurve/pkg/logger"
	"github.com/okian/roastcurve/pkg/metrics"
)

// Derive runs normalize and derive over rows without touching any session.
func (s *Service) Derive(ctx context.Context, mode model.InputMode, rows []model.RawRow) (types.DeriveResult, error) {
	if err := mode.Check(); err != nil {
		return types.DeriveResult{}, s.fail(ctx, "derive", err)
	}
	if len(rows) > s.maxPoints {
		err := fmt.Errorf("%w: %d rows, limit %d", profileset.ErrTooManyPoints, len(rows), s.maxPoints)
		return types.DeriveResult{}, s.fail(ctx, "derive", err)
	}

	points, dropped, err := s.process(rows, mode)
	if err != nil {
		return types.DeriveResult{}, s.fail(ctx, "derive", err)
	}
	s.logDropped(ctx, "derive", dropped)
	return types.DeriveResult{
		Mode:    mode,
		Points:  points,
		Table:   model.ToTable(points, s.maxPoints),
		Dropped: dropped,
	}, nil
}

// Parse turns pasted text into raw rows without touching any session.
func (s *Service) Parse(ctx context.Context, mode model.InputMode, text string) (types.ParseResult, error) {
	rows, stats, err := parse.ParseWithStats(text, mode)
	if err != nil {
		return types.ParseResult{}, s.fail(ctx, "parse", err)
	}
	metrics.RecordParse(stats.Kept, stats.Skipped)
	return types.ParseResult{Mode: mode, Rows: rows, Kept: stats.Kept, Skipped: stats.Skipped}, nil
}

// process is the instrumented normalize + derive pass.
func (s *Service) process(rows []model.RawRow, mode model.InputMode) ([]model.RoastPoint, int, error) {
	start := time.Now()
	points, dropped, err := profileset.Process(rows, mode)
	if err != nil {
		return nil, 0, err
	}
	metrics.RecordRowsNormalized(len(points), dropped)
	metrics.RecordDerivation(string(mode))
	metrics.RecordDeriveLatency(float64(time.Since(start).Microseconds()) / 1000)
	return points, dropped, nil
}

// logDropped notes rows discarded for a missing temperature.
func (s *Service) logDropped(ctx context.Context, op string, dropped int, fields ...logger.Field) {
	if dropped == 0 || s.logger == nil {
		return
	}
	fields = append(fields, logger.String("op", op), logger.Int("dropped", dropped))
	s.logger.Debug(ctx, "rows dropped during normalization", fields...)
}
