package ui

// Progress creates progress indicators.
type Progress interface {
	// Start creates a bar for total steps, titled title until the first
	// step is named.
	Start(title string, total int) ProgressBar
}

// ProgressBar tracks a known number of steps.
type ProgressBar interface {
	Increment(n int)
	SetTitle(title string)
	Done()
}
