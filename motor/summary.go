package motor

import (
	"iter"
	"strconv"
)

const summaryDelimiter = "\t"

// Summarize yields one "<time>\t<method>\t<url>" line per record, in order.
func Summarize(records []*RequestRecord) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, rec := range records {
			if !yield(SummaryLine(rec)) {
				return
			}
		}
	}
}

// SummaryLine formats a single record. Whole millisecond values print without a fraction.
func SummaryLine(rec *RequestRecord) string {
	return strconv.FormatFloat(rec.Time, 'f', -1, 64) + summaryDelimiter +
		rec.Method + summaryDelimiter +
		rec.URL
}
