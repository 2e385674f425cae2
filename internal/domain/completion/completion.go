// Package completion derives completion percentages and cohort statistics
// from a snapshot of students, tasks, and progress.
//
// Everything here is pure: no I/O, no mutation of the inputs. Percentages
// are integers in 0..100 rounded half away from zero (math.Round), which
// matches the browser's Math.round for the non-negative values produced here.
//
// A completed stage counts only if its id is still present in the task's
// current stage list; ids of removed stages are ignored, never counted.
package completion

import (
	"math"

	"github.com/dalemusser/stagetrack/internal/domain/models"
)

// Percent returns round(100*done/total), or 0 when total is 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// CompletedCount returns how many of completed are stage ids of task.
// Duplicates in completed are counted once.
func CompletedCount(completed []string, task models.Task) int {
	if len(completed) == 0 || len(task.Stages) == 0 {
		return 0
	}
	defined := task.StageIDs()
	seen := make(map[string]struct{}, len(completed))
	n := 0
	for _, id := range completed {
		if _, ok := defined[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		n++
	}
	return n
}

// NormalizeStages removes duplicate ids, keeping the first occurrence of
// each. The result is never nil so it stores as an empty array.
func NormalizeStages(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ToggleStage returns a copy of set with stageID added (completed) or
// removed (!completed). Adding a present id or removing an absent one
// returns an equal set.
func ToggleStage(set []string, stageID string, completed bool) []string {
	out := make([]string, 0, len(set)+1)
	present := false
	for _, id := range NormalizeStages(set) {
		if id == stageID {
			present = true
			if !completed {
				continue
			}
		}
		out = append(out, id)
	}
	if completed && !present {
		out = append(out, stageID)
	}
	return out
}
