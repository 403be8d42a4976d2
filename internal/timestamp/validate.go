package timestamp

import "sort"

// Validate sorts the requested timestamps ascending and keeps the
// subset inside [0, duration]. Out-of-range entries are dropped, never
// clamped; the dropped count is returned so the caller can surface a
// warning. Page order is capture order, so ascending order is enforced
// here once, before any capture happens.
func Validate(requested []float64, duration float64) (valid []float64, dropped int) {
	sorted := make([]float64, len(requested))
	copy(sorted, requested)
	sort.Float64s(sorted)

	valid = make([]float64, 0, len(sorted))
	for _, t := range sorted {
		if t >= 0 && t <= duration {
			valid = append(valid, t)
		} else {
			dropped++
		}
	}
	return valid, dropped
}
