package corral

// JobSummary is one scheduled job as returned by the Corral JSON API.
type JobSummary struct {
	ID            int64  `json:"id"`
	CustomerName  string `json:"customer_name"`
	StartDT       string `json:"start_dt"`
	EndDT         string `json:"end_dt"`
	Calendar      string `json:"calendar"`
	CalendarColor string `json:"calendar_color"`
	TrailerColor  string `json:"trailer_color"`
	Status        string `json:"status"`
}

// ScheduleResponse wraps the /api/jobs payload.
type ScheduleResponse struct {
	Jobs []JobSummary `json:"jobs"`
}

// SaveMode selects how save failures reach the user.
type SaveMode int

const (
	// SaveManual is an explicit user save; validation failures surface
	// as blocking UI.
	SaveManual SaveMode = iota
	// SaveAutosave is a background/defer save (close, minimize,
	// outside-click); it must never block, and validation failures stay
	// silent.
	SaveAutosave
)

// FailReason classifies an unsuccessful save.
type FailReason string

const (
	ReasonMissingRequired FailReason = "missing_required"
	ReasonTransport       FailReason = "transport_error"
	ReasonHTTP            FailReason = "http_error"
	// ReasonNoJobID marks a 2xx response with no extractable job
	// identifier. Promotion needs an ID, so this counts as a failure.
	ReasonNoJobID FailReason = "no_job_id"
)

// SaveResult is the gateway's normalized outcome. Expected failures are
// values, never errors: the controller's transition logic stays
// exception-free.
type SaveResult struct {
	Successful    bool
	JobID         string
	ResponseHTML  string
	Status        int
	Reason        FailReason
	MissingFields []string
}
