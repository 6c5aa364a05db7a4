package teamform

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

const (
	MessageUpdated = "Team updated successfully"
	MessageFailed  = "Something went wrong, please try again."
)

type Alert struct {
	Message  string
	Severity Severity
}

var (
	successAlert = Alert{Message: MessageUpdated, Severity: SeveritySuccess}
	failureAlert = Alert{Message: MessageFailed, Severity: SeverityError}
)

// AlertSink receives the user-facing outcome of each submission.
type AlertSink interface {
	SetAlert(alert Alert)
}

// AlertFunc adapts a function to AlertSink.
type AlertFunc func(alert Alert)

func (f AlertFunc) SetAlert(alert Alert) {
	f(alert)
}
