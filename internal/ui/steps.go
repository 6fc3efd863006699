package ui

import "sync"

// StepTracker drives one progress bar from step reports of the form
// (name, done, total). The bar starts with the first report, so a run that
// fails before its first step never draws one, and completes with the last,
// before any external command writes to the terminal.
type StepTracker struct {
	mu       sync.Mutex
	progress Progress
	title    string
	bar      ProgressBar
	done     int
	finished bool
}

// NewStepTracker creates a StepTracker whose bar is titled title.
func NewStepTracker(p Progress, title string) *StepTracker {
	return &StepTracker{progress: p, title: title}
}

// Report records that step name completed as number done of total.
func (s *StepTracker) Report(name string, done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return
	}
	if s.bar == nil {
		s.bar = s.progress.Start(s.title, total)
	}
	s.bar.SetTitle(name)
	if n := done - s.done; n > 0 {
		s.bar.Increment(n)
		s.done = done
	}
	if done >= total {
		s.finish()
	}
}

// Finish completes the bar, if one was started.
func (s *StepTracker) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finish()
}

func (s *StepTracker) finish() {
	if s.bar != nil {
		s.bar.Done()
		s.bar = nil
		s.finished = true
	}
}
