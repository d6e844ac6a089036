package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/roastcurve/internal/domain/inspect"
)

// queryNames splits a comma separated profiles parameter. Repeated
// parameters are accepted as well.
func queryNames(q url.Values, key string) []string {
	var names []string
	for _, v := range q[key] {
		for _, n := range strings.Split(v, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
	}
	return names
}

// queryBool returns nil when key is absent.
func queryBool(q url.Values, key string) (*bool, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrBadRequest, key, v)
	}
	return &b, nil
}

// parseTime accepts seconds ("95", "95.5") or a clock ("1:35").
func parseTime(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, fmt.Errorf("%w: t is required", ErrBadRequest)
	}
	if m, s, ok := strings.Cut(v, ":"); ok {
		minutes, errM := strconv.Atoi(m)
		seconds, errS := strconv.ParseFloat(s, 64)
		if errM != nil || errS != nil || minutes < 0 || seconds < 0 || seconds >= 60 {
			return 0, fmt.Errorf("%w: t=%q", ErrBadRequest, v)
		}
		return float64(minutes*60) + seconds, nil
	}
	t, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: t=%q", ErrBadRequest, v)
	}
	return t, nil
}

// queryStrategy maps interpolate= or strategy= to an inspection strategy.
// Nil means the session default.
func queryStrategy(q url.Values) (*inspect.Strategy, error) {
	if name := q.Get("strategy"); name != "" {
		st, err := inspect.ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		return &st, nil
	}
	interp, err := queryBool(q, "interpolate")
	if err != nil || interp == nil {
		return nil, err
	}
	st := inspect.ExactSegment
	if *interp {
		st = inspect.Interpolated
	}
	return &st, nil
}
