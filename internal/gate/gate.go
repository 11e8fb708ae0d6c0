// Package gate decides when percentage-based progress thresholds have been
// crossed and deserve a notification.
package gate

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrBadThreshold reports a threshold entry that is not an integer
// percentage between 0 and 100.
var ErrBadThreshold = errors.New("threshold must be an integer between 0 and 100")

// ParseThresholds parses a comma-separated percentage list such as "20,100"
// into an ascending, de-duplicated slice. Entries may carry surrounding
// whitespace. Non-numeric or out-of-range entries fail the whole list.
func ParseThresholds(list string) ([]int, error) {
	parts := strings.Split(list, ",")
	out := make([]int, 0, len(parts))
	seen := make(map[int]bool, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadThreshold, part)
		}
		if n < 0 || n > 100 {
			return nil, fmt.Errorf("%w: %d", ErrBadThreshold, n)
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	slices.Sort(out)
	return out, nil
}

// Gate tracks which thresholds have already been reported for a run. It is
// not safe for unsynchronized concurrent use.
type Gate struct {
	thresholds []int
	lastFired  int
}

// New builds a Gate over an ascending threshold list, typically the output
// of ParseThresholds.
func New(thresholds []int) *Gate {
	return &Gate{thresholds: thresholds}
}

// Fire reports whether the current progress newly crosses a threshold. At
// most one threshold fires per call: the lowest one above the high-water
// mark that the current percentage has reached. When progress jumps past
// several thresholds in one step, the skipped ones only fire on later calls
// at a qualifying percentage. Never fires while total is zero.
func (g *Gate) Fire(processed, total int) (int, bool) {
	if total <= 0 {
		return 0, false
	}
	pct := float64(processed) / float64(total) * 100
	for _, t := range g.thresholds {
		if pct >= float64(t) && t > g.lastFired {
			g.lastFired = t
			return t, true
		}
	}
	return 0, false
}

// LastFired returns the highest threshold reported so far, zero before any.
func (g *Gate) LastFired() int {
	return g.lastFired
}

// Thresholds returns a copy of the configured threshold list.
func (g *Gate) Thresholds() []int {
	return slices.Clone(g.thresholds)
}
