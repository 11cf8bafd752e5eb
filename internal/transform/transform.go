// Package transform holds the table transforms applied to candidate
// profile data: recency filters, work history aggregation and category
// ratios. Every transform returns a new table and leaves its input alone.
package transform

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/saltyorg/cassframe/internal/table"
)

// Column names and windows used when the caller has no better choice.
const (
	DefaultDateColumn       = "updated_time"
	DefaultActiveDays       = 30
	DefaultCompletionColumn = "certificate_completion_date"
	DefaultCertificateDays  = 730

	DefaultStartColumn          = "start_date"
	DefaultEndColumn            = "end_date"
	DefaultEmploymentTypeColumn = "employeement_type"

	EntityColumn  = "emp_id"
	WorkExpColumn = "work_exp_id"
	DomainColumn  = "domain"

	// ContractingType is the employment type label that marks contract work.
	ContractingType = "Contracting"
)

// Transformer applies transforms relative to a clock.
type Transformer struct {
	log zerolog.Logger
	now func() time.Time
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithClock overrides time.Now as the reference for recency filters.
func WithClock(now func() time.Time) Option {
	return func(t *Transformer) {
		t.now = now
	}
}

// New creates a Transformer logging through log.
func New(log zerolog.Logger, opts ...Option) *Transformer {
	t := &Transformer{
		log: log.With().Str("component", "transform").Logger(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ActiveProfiles keeps the rows whose dateCol value is at or after
// now minus activeDays days. Rows with no date are dropped.
func (tr *Transformer) ActiveProfiles(t *table.Table, dateCol string, activeDays int) (*table.Table, error) {
	cutoff := tr.cutoff(activeDays)
	tr.log.Debug().Time("since", cutoff).Str("column", dateCol).Msg("Filtering active profiles")
	return filterSince(t, dateCol, cutoff)
}

// CertificateTrend keeps the certificates completed within the last
// activeDays days.
func (tr *Transformer) CertificateTrend(t *table.Table, completionCol string, activeDays int) (*table.Table, error) {
	cutoff := tr.cutoff(activeDays)
	tr.log.Debug().Time("since", cutoff).Str("column", completionCol).Msg("Filtering certificate trend")
	return filterSince(t, completionCol, cutoff)
}

func (tr *Transformer) cutoff(activeDays int) time.Time {
	return tr.now().Add(-time.Duration(activeDays) * 24 * time.Hour)
}

func filterSince(t *table.Table, column string, cutoff time.Time) (*table.Table, error) {
	c, err := t.ColumnIndex(column)
	if err != nil {
		return nil, err
	}

	keep := make([]bool, t.Len())
	for i := range keep {
		ts, ok, err := toTime(t.Row(i)[c])
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", column, i, err)
		}
		keep[i] = ok && !ts.Before(cutoff)
	}

	return t.Filter(func(i int, _ []any) bool { return keep[i] }), nil
}
