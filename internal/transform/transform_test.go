package transform

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltyorg/cassframe/internal/table"
)

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newTestTransformer() *Transformer {
	return New(zerolog.Nop(), WithClock(func() time.Time { return fixedNow }))
}

func TestActiveProfiles(t *testing.T) {
	tbl := table.New("emp_id", DefaultDateColumn)
	require.NoError(t, tbl.Append(1, fixedNow.AddDate(0, 0, -10)))
	require.NoError(t, tbl.Append(2, fixedNow.AddDate(0, 0, -31)))
	require.NoError(t, tbl.Append(3, fixedNow.Add(-30*24*time.Hour)))
	require.NoError(t, tbl.Append(4, nil))

	out, err := newTestTransformer().ActiveProfiles(tbl, DefaultDateColumn, DefaultActiveDays)
	require.NoError(t, err)

	ids, err := out.Column("emp_id")
	require.NoError(t, err)
	assert.Equal(t, []any{1, 3}, ids)
}

func TestActiveProfiles_ZeroDaysBoundaryInclusive(t *testing.T) {
	tbl := table.New("emp_id", DefaultDateColumn)
	require.NoError(t, tbl.Append(1, fixedNow))
	require.NoError(t, tbl.Append(2, fixedNow.Add(-time.Nanosecond)))
	require.NoError(t, tbl.Append(3, fixedNow.Add(time.Hour)))

	out, err := newTestTransformer().ActiveProfiles(tbl, DefaultDateColumn, 0)
	require.NoError(t, err)

	ids, err := out.Column("emp_id")
	require.NoError(t, err)
	assert.Equal(t, []any{1, 3}, ids)
}

func TestActiveProfiles_ParsesStringDates(t *testing.T) {
	tbl := table.New("emp_id", DefaultDateColumn)
	require.NoError(t, tbl.Append("a", "2026-10-18"))
	require.NoError(t, tbl.Append("b", "2020-01-01 10:00:00"))
	require.NoError(t, tbl.Append("c", "2026-10-01T00:00:00Z"))

	out, err := newTestTransformer().ActiveProfiles(tbl, DefaultDateColumn, DefaultActiveDays)
	require.NoError(t, err)

	ids, err := out.Column("emp_id")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "c"}, ids)
}

func TestActiveProfiles_BadDate(t *testing.T) {
	tbl := table.New(DefaultDateColumn)
	require.NoError(t, tbl.Append("yesterday"))

	_, err := newTestTransformer().ActiveProfiles(tbl, DefaultDateColumn, 1)
	assert.Error(t, err)
}

func TestActiveProfiles_MissingColumn(t *testing.T) {
	tbl := table.New("emp_id")

	_, err := newTestTransformer().ActiveProfiles(tbl, DefaultDateColumn, DefaultActiveDays)
	var colErr *table.ColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, DefaultDateColumn, colErr.Column)
}

func TestCertificateTrend(t *testing.T) {
	tbl := table.New("certificate", DefaultCompletionColumn)
	require.NoError(t, tbl.Append("cka", fixedNow.AddDate(-1, 0, 0)))
	require.NoError(t, tbl.Append("ccna", fixedNow.AddDate(-3, 0, 0)))
	require.NoError(t, tbl.Append("aws", fixedNow.Add(-730*24*time.Hour)))

	out, err := newTestTransformer().CertificateTrend(tbl, DefaultCompletionColumn, DefaultCertificateDays)
	require.NoError(t, err)

	certs, err := out.Column("certificate")
	require.NoError(t, err)
	assert.Equal(t, []any{"cka", "aws"}, certs)
}

func workTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New(EntityColumn, WorkExpColumn, DomainColumn,
		DefaultStartColumn, DefaultEndColumn, DefaultEmploymentTypeColumn)
	date := func(y int) time.Time { return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC) }

	// Permanent for three years (1096 days), then contracting for one (366 days).
	require.NoError(t, tbl.Append(int64(7), "w1", "retail", date(2016), date(2019), "Permanent"))
	require.NoError(t, tbl.Append(int64(7), "w2", "banking", date(2020), date(2021), ContractingType))
	return tbl
}

func TestWorkAggregation(t *testing.T) {
	out, err := newTestTransformer().WorkAggregation(workTable(t),
		DefaultStartColumn, DefaultEndColumn, DefaultEmploymentTypeColumn)
	require.NoError(t, err)

	assert.Equal(t, []string{EntityColumn, TotalExpColumn, TotalSwitchColumn, SwitchRelColumn, NoOfDomainColumn}, out.Columns())
	require.Equal(t, 1, out.Len())
	assert.Equal(t, []any{int64(7), int64(4), int64(2), int64(1), int64(2)}, out.Row(0))
}

func TestWorkAggregation_GroupsSortedByEntity(t *testing.T) {
	tbl := workTable(t)
	date := func(y int) time.Time { return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, tbl.Append(int64(3), "w3", "banking", date(2012), date(2018), "Permanent"))
	require.NoError(t, tbl.Append(int64(3), nil, "banking", date(2016), date(2017), ContractingType))
	require.NoError(t, tbl.Append(nil, "w5", "banking", date(2016), date(2017), ContractingType))

	out, err := newTestTransformer().WorkAggregation(tbl,
		DefaultStartColumn, DefaultEndColumn, DefaultEmploymentTypeColumn)
	require.NoError(t, err)

	require.Equal(t, 2, out.Len())
	assert.Equal(t, []any{int64(3), int64(7), int64(1), int64(1), int64(1)}, out.Row(0))
	assert.Equal(t, int64(7), out.Row(1)[0])
}

func TestWorkAggregation_NumericStringEntitiesSortNumerically(t *testing.T) {
	tbl := table.New(EntityColumn, WorkExpColumn, DomainColumn,
		DefaultStartColumn, DefaultEndColumn, DefaultEmploymentTypeColumn)
	for _, id := range []string{"10", "9", "2"} {
		require.NoError(t, tbl.Append(id, "w"+id, "retail", "2016-01-01", "2019-01-01", "Permanent"))
	}

	out, err := newTestTransformer().WorkAggregation(tbl,
		DefaultStartColumn, DefaultEndColumn, DefaultEmploymentTypeColumn)
	require.NoError(t, err)

	ids, err := out.Column(EntityColumn)
	require.NoError(t, err)
	assert.Equal(t, []any{"2", "9", "10"}, ids)
}

func TestCompareValues(t *testing.T) {
	assert.Negative(t, compareValues("9", "10"))
	assert.Positive(t, compareValues(int64(10), "9"))
	assert.Negative(t, compareValues("a10", "a9"), "non-numeric strings compare as text")
	assert.Zero(t, compareValues(int64(3), 3))
}

func TestWorkDurations_TruncatesYears(t *testing.T) {
	tbl := table.New("start", "end", "type")
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	// 364 days is under the 365.2425-day year, 1095 days is just under three.
	require.NoError(t, tbl.Append(start, start.AddDate(0, 0, 364), ContractingType))
	require.NoError(t, tbl.Append(start, start.AddDate(0, 0, 1095), ContractingType))
	require.NoError(t, tbl.Append(start, nil, "Permanent"))

	out, err := newTestTransformer().WorkDurations(tbl, "start", "end", "type")
	require.NoError(t, err)

	assert.Equal(t, []string{"start", "end", "type", ExpDaysColumn, ExpYearsColumn, Contract2YColumn}, out.Columns())
	assert.Equal(t, []any{int64(364), int64(0), true}, out.Row(0)[3:])
	assert.Equal(t, []any{int64(1095), int64(2), true}, out.Row(1)[3:])
	assert.Equal(t, []any{nil, nil, false}, out.Row(2)[3:])
	assert.Equal(t, 3, len(tbl.Columns()), "input must not be modified")
}

func TestWorkAggregation_MissingColumn(t *testing.T) {
	_, err := newTestTransformer().WorkAggregation(workTable(t), "begin", DefaultEndColumn, DefaultEmploymentTypeColumn)
	var colErr *table.ColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, "begin", colErr.Column)
}

func categoryTable(t *testing.T, values ...any) *table.Table {
	t.Helper()
	tbl := table.New("skill")
	for _, v := range values {
		require.NoError(t, tbl.Append(v))
	}
	return tbl
}

func TestCategoryRatio(t *testing.T) {
	out, err := newTestTransformer().CategoryRatio(categoryTable(t, "A", "B", "A", "A"), "skill")
	require.NoError(t, err)

	assert.Equal(t, []string{"skill", "skill_ratio"}, out.Columns())
	require.Equal(t, 2, out.Len())
	assert.Equal(t, []any{"A", int64(75)}, out.Row(0))
	assert.Equal(t, []any{"B", int64(25)}, out.Row(1))
}

func TestCategoryRatio_SingleValue(t *testing.T) {
	out, err := newTestTransformer().CategoryRatio(categoryTable(t, "A", "A", "A"), "skill")
	require.NoError(t, err)

	require.Equal(t, 1, out.Len())
	assert.Equal(t, []any{"A", int64(100)}, out.Row(0))
}

func TestCategoryRatio_Truncates(t *testing.T) {
	out, err := newTestTransformer().CategoryRatio(categoryTable(t, "A", "B", "C", nil), "skill")
	require.NoError(t, err)

	require.Equal(t, 3, out.Len())
	var sum int64
	for i := 0; i < out.Len(); i++ {
		assert.Equal(t, int64(33), out.Row(i)[1])
		sum += out.Row(i)[1].(int64)
	}
	assert.Equal(t, int64(99), sum)
	assert.Equal(t, "A", out.Row(0)[0])
}

func TestCategoryRatio_TwoThirdsTruncatesNotRounds(t *testing.T) {
	out, err := newTestTransformer().CategoryRatio(categoryTable(t, "A", "A", "B"), "skill")
	require.NoError(t, err)

	assert.Equal(t, []any{"A", int64(66)}, out.Row(0))
	assert.Equal(t, []any{"B", int64(33)}, out.Row(1))
}

func TestCategoryRatio_MissingColumn(t *testing.T) {
	_, err := newTestTransformer().CategoryRatio(categoryTable(t, "A"), "domain")
	var colErr *table.ColumnError
	assert.ErrorAs(t, err, &colErr)
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, int64(1), floorDiv(36*time.Hour, day))
	assert.Equal(t, int64(-2), floorDiv(-36*time.Hour, day))
	assert.Equal(t, int64(-1), floorDiv(-24*time.Hour, day))
}
