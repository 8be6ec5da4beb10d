package analysis

import (
	"context"
	"time"
)

// StageInterval is how long each progress label is shown.
const StageInterval = 2 * time.Second

var stages = []string{
	"Analyzing your profile...",
	"Matching career paths...",
	"Calculating fit scores...",
	"Generating recommendations...",
}

// Stages returns the progress labels shown while an analysis runs.
// They are cosmetic and do not reflect real progress.
func Stages() []string {
	out := make([]string, len(stages))
	copy(out, stages)
	return out
}

// RunStages calls emit with the first stage immediately and with the next
// one every interval, holding on the last stage until ctx is done.
func RunStages(ctx context.Context, interval time.Duration, emit func(index int, label string)) {
	i := 0
	emit(i, stages[i])

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if i < len(stages)-1 {
				i++
				emit(i, stages[i])
			}
		}
	}
}
