package nav

// StopReason records why a run ended.
type StopReason int

const (
	// StopNone means the loop did not run.
	StopNone StopReason = iota
	// StopEndOfStream means the frame source had no more frames.
	StopEndOfStream
	// StopReadFailed means the frame source returned an error.
	StopReadFailed
	// StopKey means the stop key was pressed.
	StopKey
	// StopCancelled means the context was cancelled.
	StopCancelled
	// StopError means the pipeline hit a precondition violation.
	StopError
)

var reasonNames = map[StopReason]string{
	StopNone:        "none",
	StopEndOfStream: "end_of_stream",
	StopReadFailed:  "read_failed",
	StopKey:         "stop_key",
	StopCancelled:   "cancelled",
	StopError:       "error",
}

func (r StopReason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return "unknown"
}
