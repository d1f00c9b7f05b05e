package domain

// State is the terminal state of a provisioning run.
type State string

const (
	StateAlreadyRunning        State = "already_running"
	StateStarted               State = "started"
	StateProvisioned           State = "provisioned"
	StateProvisionFailed       State = "provision_failed"
	StateProvisionedUnverified State = "provisioned_unverified"
)

// Outcome is the result of a provisioning run.
type Outcome struct {
	State  State           `json:"state"`
	Status ContainerStatus `json:"last_status"`
	Err    error           `json:"-"`
}

// OK reports whether the managed container ended up running.
func (o Outcome) OK() bool {
	switch o.State {
	case StateAlreadyRunning, StateStarted, StateProvisioned:
		return true
	default:
		return false
	}
}

// Error returns the failure cause as text, or "" when there is none.
func (o Outcome) Error() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
