package model

// RunStatus represents the status of a generation run
type RunStatus string

const (
	// RunStatusPending means the run is created but not started
	RunStatusPending RunStatus = "Pending"

	// RunStatusExpanding means the prompt expansion call is in flight
	RunStatusExpanding RunStatus = "Expanding"

	// RunStatusGenerating means frames are being generated
	RunStatusGenerating RunStatus = "Generating"

	// RunStatusAssembling means frames are being encoded into an animation
	RunStatusAssembling RunStatus = "Assembling"

	// RunStatusCompleted means the run produced an artifact
	RunStatusCompleted RunStatus = "Completed"

	// RunStatusError means the run failed with an error
	RunStatusError RunStatus = "Error"
)

// String returns the string representation of RunStatus
func (rs RunStatus) String() string {
	return string(rs)
}

// IsActive returns true if the run is in an active state
func (rs RunStatus) IsActive() bool {
	return rs == RunStatusExpanding || rs == RunStatusGenerating || rs == RunStatusAssembling
}

// IsFinished returns true if the run is in a finished state (completed or error)
func (rs RunStatus) IsFinished() bool {
	return rs == RunStatusCompleted || rs == RunStatusError
}

// TaskStatus represents the status of an export task
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "Pending"
	TaskStatusStarting  TaskStatus = "Starting"
	TaskStatusRunning   TaskStatus = "Running"
	TaskStatusStopping  TaskStatus = "Stopping"
	TaskStatusStopped   TaskStatus = "Stopped"
	TaskStatusCompleted TaskStatus = "Completed"
	TaskStatusError     TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusStarting || ts == TaskStatusRunning || ts == TaskStatusStopping
}

// IsFinished returns true if the task is in a finished state (completed, stopped, or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusStopped || ts == TaskStatusError
}

// View identifies one of the tabs of the main window
type View string

const (
	ViewFrames View = "frames"
	ViewOutput View = "output"
)

// Views lists the tabs in display order
func Views() []View {
	return []View{ViewFrames, ViewOutput}
}
