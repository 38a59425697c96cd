// Package align maps event timestamps onto a signal log and slices the
// channel windows that follow them.
package align

import "bcimerge/internal/device"

// NoOverlap is returned when the query lies after the searched range.
const NoOverlap = -1

// FindStartOfInterval returns the index of the first sample at or after
// timestamp within samples[searchStart:searchEnd+1].
//
// Bounds outside the log are normalized: searchStart falls back to 0 and
// searchEnd (including -1) to the last sample. A query at or before
// samples[searchStart] returns searchStart; a query after samples[searchEnd]
// returns NoOverlap. An exact match returns immediately, otherwise the search
// settles on the upper bound so the result is never earlier than the query.
//
// samples must be non-empty and sorted by timestamp; an empty log panics.
func FindStartOfInterval(samples []device.Sample, timestamp int64, searchStart, searchEnd int) int {
	if len(samples) == 0 {
		panic("align: FindStartOfInterval on an empty signal log")
	}
	start, end := searchStart, searchEnd
	if start < 0 || start >= len(samples) {
		start = 0
	}
	if end < 0 || end >= len(samples) {
		end = len(samples) - 1
	}

	if timestamp <= samples[start].Timestamp {
		return start
	}
	if timestamp > samples[end].Timestamp {
		return NoOverlap
	}
	for end-start > 1 {
		middle := (start + end) / 2
		switch ts := samples[middle].Timestamp; {
		case ts == timestamp:
			return middle
		case ts < timestamp:
			start = middle
		default:
			end = middle
		}
	}
	return end
}

// Window copies the channel values of up to length samples starting at
// index. A window running past the end of the log is truncated. The result
// is never nil.
func Window(samples []device.Sample, index, length int) [][]float64 {
	if index < 0 || index >= len(samples) || length <= 0 {
		return [][]float64{}
	}
	end := index + length
	if end > len(samples) {
		end = len(samples)
	}
	window := make([][]float64, 0, end-index)
	for _, s := range samples[index:end] {
		window = append(window, append([]float64(nil), s.Values...))
	}
	return window
}
