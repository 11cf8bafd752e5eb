package transform

import (
	"cmp"
	"slices"

	"github.com/saltyorg/cassframe/internal/table"
)

// RatioSuffix is appended to the category column name to name the ratio column.
const RatioSuffix = "_ratio"

// CategoryRatio returns each distinct value of categoryCol with its share of
// the non-nil rows as a whole percentage. Percentages are truncated, so they
// only add up to 100 when every count divides evenly. Rows are ordered by
// count, most frequent first; ties keep first appearance order.
func (tr *Transformer) CategoryRatio(t *table.Table, categoryCol string) (*table.Table, error) {
	values, err := t.Column(categoryCol)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		value any
		count int64
	}
	buckets := make(map[string]*bucket)
	var order []*bucket
	var total int64
	for _, v := range values {
		if v == nil {
			continue
		}
		total++
		key := valueKey(v)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{value: v}
			buckets[key] = b
			order = append(order, b)
		}
		b.count++
	}

	slices.SortStableFunc(order, func(a, b *bucket) int {
		return cmp.Compare(b.count, a.count)
	})

	out := table.New(categoryCol, categoryCol+RatioSuffix)
	for _, b := range order {
		if err := out.Append(b.value, b.count*100/total); err != nil {
			return nil, err
		}
	}

	tr.log.Debug().Str("column", categoryCol).Int("categories", out.Len()).Msg("Computed category ratio")
	return out, nil
}
