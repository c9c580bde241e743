package progress

// Stage identifies a step of a batch run or of one reference's task.
type Stage string

const (
	StageScanning    Stage = "scanning"
	StageQueued      Stage = "queued"
	StageRunning     Stage = "running"
	StageResolving   Stage = "resolving"
	StageDecoding    Stage = "decoding"
	StageEncoding    Stage = "encoding"
	StageWriting     Stage = "writing"
	StageRewriting   Stage = "rewriting"
	StageDeleting    Stage = "deleting"
	StageAggregating Stage = "aggregating"
	StageSkipped     Stage = "skipped"
	StageCompleted   Stage = "completed"
	StageError       Stage = "error"
)

// LogStream indicates how loud a log line is.
type LogStream int

const (
	StreamInfo LogStream = iota
	StreamWarn
)

// Update conveys a stage change. An empty JobID addresses the whole batch,
// in which case Percent is the batch progress in [0,100]. For per-job
// updates Percent is unused and set to -1.
type Update struct {
	JobID   string
	Target  string // embed path or stored file the job works on
	Stage   Stage
	Percent float64
	Message string
}

// Log is a diagnostic line associated with a job.
type Log struct {
	JobID  string
	Stream LogStream
	Line   string
}

// Result is emitted once per job when it finishes, whatever the outcome.
type Result struct {
	JobID      string
	Target     string
	OutputPath string
	Bytes      int64
	Skipped    bool  // destination kept after the user declined to overwrite
	Err        error // nil on success
}

// Reporter is implemented by the UI or any observer interested in progress events.
type Reporter interface {
	Update(u Update)
	Log(l Log)
	Result(r Result)
}
