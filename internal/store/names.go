package store

import (
	"fmt"
	"regexp"
	"time"
)

// DateKey is the table-name date format (zero-padded, so lexicographic
// order is chronological order).
const DateKey = "2006_01_02"

// RollupMarker appears in every rollup table name and never in a daily
// table name. Names containing it are excluded from further aggregation.
const RollupMarker = "_to_"

var datePattern = regexp.MustCompile(`_(\d{4}_\d{2}_\d{2})`)

// DailyTableName returns the persisted name for a daily entity snapshot,
// e.g. "events_2024_01_05".
func DailyTableName(entity string, date time.Time) string {
	return entity + "_" + date.Format(DateKey)
}

// CPITableName returns the per-dimension daily CPI table name,
// e.g. "cpi_channel_2024_01_05".
func CPITableName(dimension string, date time.Time) string {
	return "cpi_" + dimension + "_" + date.Format(DateKey)
}

// WeeklyTableName returns the rollup name for a date range, with an
// optional dimension tag.
func WeeklyTableName(prefix, firstDate, lastDate, dimension string) string {
	name := fmt.Sprintf("%s_%s%s%s", prefix, firstDate, RollupMarker, lastDate)
	if dimension != "" {
		name += "_" + dimension
	}
	return name
}

// EmbeddedDate extracts the YYYY_MM_DD date embedded in a table name.
func EmbeddedDate(name string) (string, bool) {
	m := datePattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}
