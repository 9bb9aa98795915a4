package fixture

import "time"

// Stage is a step of running one fixture file.
type Stage string

const (
	StageLoad    Stage = "load"
	StageDeclare Stage = "declare"
	StageCompile Stage = "compile"
	StageSolve   Stage = "solve"
)

// Status tells where a file is within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports the progress of one fixture file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	// Cases and Failed are set on the final event of a file.
	Cases  int
	Failed int
}

// ProgressSink consumes progress events. Run calls it from several
// goroutines at once.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// finish reports the final status of a result.
func finish(sink ProgressSink, res *Result, elapsed time.Duration) {
	evt := Event{File: res.Path, Status: StatusDone, Elapsed: elapsed, Cases: len(res.Cases), Failed: res.Failed()}
	if res.Err != nil {
		evt.Status, evt.Err = StatusError, res.Err
	}
	emit(sink, evt)
}
