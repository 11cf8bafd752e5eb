package transform

import (
	"fmt"
	"slices"
	"time"

	"github.com/saltyorg/cassframe/internal/table"
)

// Columns added by WorkDurations.
const (
	ExpDaysColumn    = "exp_days"
	ExpYearsColumn   = "exp_years"
	Contract2YColumn = "contract_2y"
)

// Columns produced by WorkAggregation, after EntityColumn.
const (
	TotalExpColumn    = "total_exp"
	TotalSwitchColumn = "total_switch"
	SwitchRelColumn   = "switch_rel"
	NoOfDomainColumn  = "no_of_domain"
)

// averageYear is the mean Gregorian year of 365.2425 days. Elapsed years
// are a plain floor division by it, not calendar arithmetic.
const averageYear = 31556952 * time.Second

const day = 24 * time.Hour

// WorkDurations returns a copy of t with exp_days, exp_years and
// contract_2y appended. exp_days and exp_years are int64 (nil when either
// date is missing); contract_2y is true for Contracting rows of at most two
// years.
func (tr *Transformer) WorkDurations(t *table.Table, startCol, endCol, empTypeCol string) (*table.Table, error) {
	start, err := t.ColumnIndex(startCol)
	if err != nil {
		return nil, err
	}
	end, err := t.ColumnIndex(endCol)
	if err != nil {
		return nil, err
	}
	empType, err := t.ColumnIndex(empTypeCol)
	if err != nil {
		return nil, err
	}

	return t.WithColumns([]string{ExpDaysColumn, ExpYearsColumn, Contract2YColumn}, func(row []any) ([]any, error) {
		from, okFrom, err := toTime(row[start])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", startCol, err)
		}
		to, okTo, err := toTime(row[end])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", endCol, err)
		}
		if !okFrom || !okTo {
			return []any{nil, nil, false}, nil
		}

		elapsed := to.Sub(from)
		days := floorDiv(elapsed, day)
		years := floorDiv(elapsed, averageYear)
		label, _ := toString(row[empType])
		return []any{days, years, label == ContractingType && years <= 2}, nil
	})
}

type workGroup struct {
	entity      any
	totalExp    int64
	totalSwitch int64
	switchRel   int64
	domains     map[string]struct{}
}

// WorkAggregation summarizes work history per emp_id: the sum of whole
// years worked, the number of work entries, how many of them were short
// contracts, and the number of distinct domains. Rows without an emp_id
// are ignored. Output rows are sorted by emp_id.
func (tr *Transformer) WorkAggregation(t *table.Table, startCol, endCol, empTypeCol string) (*table.Table, error) {
	durations, err := tr.WorkDurations(t, startCol, endCol, empTypeCol)
	if err != nil {
		return nil, err
	}

	idx, err := columnIndexes(durations, EntityColumn, WorkExpColumn, DomainColumn, ExpYearsColumn, Contract2YColumn)
	if err != nil {
		return nil, err
	}
	entityIdx, workExpIdx, domainIdx, yearsIdx, contractIdx := idx[0], idx[1], idx[2], idx[3], idx[4]

	groups := make(map[string]*workGroup)
	var order []*workGroup
	for i := 0; i < durations.Len(); i++ {
		row := durations.Row(i)
		if row[entityIdx] == nil {
			continue
		}

		key := valueKey(row[entityIdx])
		g, ok := groups[key]
		if !ok {
			g = &workGroup{entity: row[entityIdx], domains: make(map[string]struct{})}
			groups[key] = g
			order = append(order, g)
		}

		if years, ok := row[yearsIdx].(int64); ok {
			g.totalExp += years
		}
		if row[workExpIdx] != nil {
			g.totalSwitch++
		}
		if row[contractIdx] == true {
			g.switchRel++
		}
		if row[domainIdx] != nil {
			g.domains[valueKey(row[domainIdx])] = struct{}{}
		}
	}

	slices.SortStableFunc(order, func(a, b *workGroup) int {
		return compareValues(a.entity, b.entity)
	})

	out := table.New(EntityColumn, TotalExpColumn, TotalSwitchColumn, SwitchRelColumn, NoOfDomainColumn)
	for _, g := range order {
		if err := out.Append(g.entity, g.totalExp, g.totalSwitch, g.switchRel, int64(len(g.domains))); err != nil {
			return nil, err
		}
	}

	tr.log.Debug().Int("rows", t.Len()).Int("entities", out.Len()).Msg("Aggregated work history")
	return out, nil
}

func columnIndexes(t *table.Table, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		c, err := t.ColumnIndex(name)
		if err != nil {
			return nil, err
		}
		idx[i] = c
	}
	return idx, nil
}
