package driven

import "time"

// Progress receives progress updates from long running work.
type Progress interface {
	// Start begins a task of total steps.
	Start(description string, total int)

	// Step advances the current task by one.
	Step()

	// Finish ends the current task.
	Finish()

	// Wait is called once per second while blocked on a rate limit reset.
	Wait(remaining time.Duration)
}
