// Package update drives a batch column update: every source line is
// sanitized, split, validated, bound and executed in file order, one line at
// a time, while the rows-affected total accumulates.
//
// The first structurally short line stops the run, and so does the first
// database error. Nothing is rolled back; rows already executed stay applied.
package update

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/zeebo/xxh3"

	"mysqlupdate/internal/config"
	"mysqlupdate/internal/metrics"
	"mysqlupdate/internal/parser/delimited"
)

// Updater executes the run's statement for one row. storage.Updater
// satisfies it.
type Updater interface {
	Update(ctx context.Context, matchValue, updateValue string) (int64, error)
}

// State is the driver's lifecycle position.
type State int

const (
	Ready State = iota
	Scanning
	Finished
	Aborted
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Scanning:
		return "scanning"
	case Finished:
		return "finished"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is the run accumulator.
type Result struct {
	// RowsUpdated sums rows-affected over every executed line. On abort it
	// still holds what was applied before the stop.
	RowsUpdated int64

	// LinesRead counts source lines consumed, including the one that aborted.
	LinesRead int64

	State   State
	Aborted bool

	// Fingerprint is an xxh3 digest of the sanitized lines that were sent to
	// the database, so two runs can be compared without keeping the input.
	Fingerprint uint64
}

// Driver owns the per-run loop. It is single-use per Run call and not safe
// for concurrent use.
type Driver struct {
	updater       Updater
	mapping       config.SourceMapping
	log           zerolog.Logger
	job           string
	progressEvery int64
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l zerolog.Logger) Option { return func(d *Driver) { d.log = l } }

// WithJob sets the job label used for metrics.
func WithJob(job string) Option { return func(d *Driver) { d.job = job } }

// WithProgressEvery logs a progress line every n executed lines; 0 disables it.
func WithProgressEvery(n int) Option { return func(d *Driver) { d.progressEvery = int64(n) } }

// New returns a Driver in the Ready state.
func New(u Updater, m config.SourceMapping, opts ...Option) *Driver {
	d := &Driver{
		updater: u,
		mapping: m,
		log:     zerolog.Nop(),
		job:     "mysqlupdate",
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Run streams src line by line and applies the update for each line. It
// returns a *StructuralRowError for a short line, a *LineError wrapping the
// *storage.DatabaseError for a failed statement, and a *SourceError when src
// cannot be read. The Result is meaningful in every case.
func (d *Driver) Run(ctx context.Context, src io.Reader) (Result, error) {
	res := Result{State: Ready}
	h := xxh3.New()
	m := d.mapping
	start := time.Now()

	lr := delimited.NewLineReader(src)
	res.State = Scanning
	d.log.Debug().
		Int("match_field", m.MatchField).
		Int("update_field", m.UpdateField).
		Str("delimiter", string(m.Delimiter)).
		Msg("scanning source")

	for {
		// On cancellation Line is the first line not read.
		if err := ctx.Err(); err != nil {
			return d.abort(&res, h, start, &LineError{Line: res.LinesRead + 1, Err: err})
		}
		if !lr.Next() {
			break
		}
		res.LinesRead++
		metrics.RecordRows(d.job, metrics.KindRead, 1)

		line := delimited.Sanitize(lr.Text(), m.Quote, m.Escape)
		fields := delimited.Split(line, m.Delimiter)
		if err := delimited.Validate(fields, m.MatchField, m.UpdateField); err != nil {
			metrics.RecordRows(d.job, metrics.KindRejected, 1)
			d.log.Error().
				Int64("line", lr.Line()).
				Int("fields", len(fields)).
				Int("need", m.RequiredFields()).
				Msg("not enough columns in source file for the match or update index; stopping")
			return d.abort(&res, h, start, &StructuralRowError{Line: lr.Line(), Err: err})
		}

		_, _ = h.WriteString(line)
		_, _ = h.Write([]byte{'\n'})

		matchValue := delimited.Field(fields, m.MatchField)
		updateValue := delimited.Field(fields, m.UpdateField)

		t0 := time.Now()
		n, err := d.updater.Update(ctx, matchValue, updateValue)
		metrics.RecordStatement(d.job, err, time.Since(t0))
		if err != nil {
			metrics.RecordRows(d.job, metrics.KindFailed, 1)
			d.log.Error().Err(err).Int64("line", lr.Line()).Str("match", matchValue).Msg("update failed; stopping")
			return d.abort(&res, h, start, &LineError{Line: lr.Line(), Err: err})
		}

		res.RowsUpdated += n
		metrics.RecordRows(d.job, metrics.KindUpdated, n)
		d.log.Trace().Int64("line", lr.Line()).Str("match", matchValue).Int64("affected", n).Msg("row")

		if d.progressEvery > 0 && res.LinesRead%d.progressEvery == 0 {
			d.log.Info().
				Int64("lines", res.LinesRead).
				Int64("updated", res.RowsUpdated).
				Dur("elapsed", time.Since(start).Truncate(time.Millisecond)).
				Msg("progress")
		}
	}
	if err := lr.Err(); err != nil {
		d.log.Error().Err(err).Int64("line", res.LinesRead+1).Msg("reading source failed; stopping")
		return d.abort(&res, h, start, &SourceError{Err: err})
	}

	res.State = Finished
	res.Fingerprint = h.Sum64()
	metrics.RecordRun(d.job, nil, time.Since(start))
	d.log.Info().
		Int64("lines", res.LinesRead).
		Int64("updated", res.RowsUpdated).
		Str("fingerprint", fmt.Sprintf("%016x", res.Fingerprint)).
		Dur("elapsed", time.Since(start).Truncate(time.Millisecond)).
		Msg("update completed")
	return res, nil
}

func (d *Driver) abort(res *Result, h *xxh3.Hasher, start time.Time, err error) (Result, error) {
	res.State = Aborted
	res.Aborted = true
	res.Fingerprint = h.Sum64()
	metrics.RecordRun(d.job, err, time.Since(start))
	d.log.Warn().
		Int64("lines", res.LinesRead).
		Int64("updated_before_stop", res.RowsUpdated).
		Msg("run aborted; rows already updated remain applied")
	return *res, err
}
