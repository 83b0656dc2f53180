package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jask/jaskcalc/internal/calc"
	"github.com/jask/jaskcalc/internal/database"
	"github.com/jask/jaskcalc/internal/database/repository"
)

const errorResult = "Error"

// TapeService turns evaluator transitions into tape entries. A nil service or
// one without a repo records nothing.
type TapeService struct {
	Tape  *repository.TapeRepo
	Log   zerolog.Logger
	Limit int

	// Now defaults to database.Now.
	Now func() time.Time
}

// EntryFor reports the tape entry for t, if t evaluated anything.
func (s *TapeService) EntryFor(t calc.Transition) (repository.TapeEntry, bool) {
	ev := t.Evaluated
	if ev == nil {
		return repository.TapeEntry{}, false
	}
	e := repository.TapeEntry{
		ID:         uuid.NewString(),
		Expression: fmt.Sprintf("%s %s %s", calc.Format(ev.Left), ev.Op.Symbol(), calc.Format(ev.Right)),
		CreatedAt:  s.now(),
	}
	if ev.Err != nil {
		e.Result = errorResult
		e.IsError = true
	} else {
		e.Result = calc.Format(ev.Result)
	}
	return e, true
}

func (s *TapeService) Record(ctx context.Context, e repository.TapeEntry) error {
	return s.RecordBatch(ctx, []repository.TapeEntry{e})
}

// RecordBatch stores entries atomically, in order.
func (s *TapeService) RecordBatch(ctx context.Context, entries []repository.TapeEntry) error {
	if s == nil || s.Tape == nil || len(entries) == 0 {
		return nil
	}
	if err := s.Tape.InsertBatch(ctx, entries); err != nil {
		s.Log.Error().Err(err).Int("entries", len(entries)).Msg("tape insert failed")
		return fmt.Errorf("record tape entries: %w", err)
	}
	for _, e := range entries {
		s.Log.Debug().Str("id", e.ID).Str("expression", e.Expression).Str("result", e.Result).Msg("tape entry recorded")
	}
	return nil
}

// Observe records the entry for t, if any.
func (s *TapeService) Observe(ctx context.Context, t calc.Transition) (bool, error) {
	if s == nil || s.Tape == nil {
		return false, nil
	}
	e, ok := s.EntryFor(t)
	if !ok {
		return false, nil
	}
	return true, s.Record(ctx, e)
}

// Recent lists the newest entries up to Limit.
func (s *TapeService) Recent(ctx context.Context) ([]repository.TapeEntry, error) {
	if s == nil || s.Tape == nil {
		return nil, nil
	}
	entries, err := s.Tape.List(ctx, s.Limit)
	if err != nil {
		return nil, fmt.Errorf("list tape: %w", err)
	}
	return entries, nil
}

// Total counts every stored entry, including those beyond Limit.
func (s *TapeService) Total(ctx context.Context) (int, error) {
	if s == nil || s.Tape == nil {
		return 0, nil
	}
	n, err := s.Tape.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count tape: %w", err)
	}
	return n, nil
}

func (s *TapeService) Clear(ctx context.Context) error {
	if s == nil || s.Tape == nil {
		return nil
	}
	if err := s.Tape.Clear(ctx); err != nil {
		return fmt.Errorf("clear tape: %w", err)
	}
	s.Log.Info().Msg("tape cleared")
	return nil
}

func (s *TapeService) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return database.Now()
}
