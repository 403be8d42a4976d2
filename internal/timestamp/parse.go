package timestamp

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts a timestamp string into seconds. Accepted forms are
// plain seconds ("95" or "95.5"), MM:SS and HH:MM:SS.
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		sec, err := strconv.ParseFloat(parts[0], 64)
		if err != nil || sec < 0 {
			return 0, fmt.Errorf("invalid time format: %s", s)
		}
		return sec, nil
	case 2:
		min, err1 := strconv.Atoi(parts[0])
		sec, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil || min < 0 || sec < 0 {
			return 0, fmt.Errorf("invalid time format: %s", s)
		}
		return float64(min)*60 + sec, nil
	case 3:
		hour, err1 := strconv.Atoi(parts[0])
		min, err2 := strconv.Atoi(parts[1])
		sec, err3 := strconv.ParseFloat(parts[2], 64)
		if err1 != nil || err2 != nil || err3 != nil || hour < 0 || min < 0 || sec < 0 {
			return 0, fmt.Errorf("invalid time format: %s", s)
		}
		return float64(hour)*3600 + float64(min)*60 + sec, nil
	default:
		return 0, fmt.Errorf("invalid time format: %s", s)
	}
}

// ParseList parses a comma separated timestamp list.
func ParseList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	ret := make([]float64, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := Parse(part)
		if err != nil {
			return nil, err
		}
		ret = append(ret, t)
	}
	return ret, nil
}

// Intervals generates {0, interval, 2*interval, ...} up to and
// including duration.
func Intervals(duration float64, interval int) []float64 {
	if interval <= 0 || duration < 0 {
		return nil
	}
	ret := make([]float64, 0, int(duration)/interval+1)
	for t := 0; float64(t) <= duration; t += interval {
		ret = append(ret, float64(t))
	}
	return ret
}
