package statistics

// Counts is a snapshot of a resume's view and download counters. The same
// type doubles as the delta carried by an increment event.
type Counts struct {
	Views     int64 `json:"views"`
	Downloads int64 `json:"downloads"`
}
