package domain

import "strings"

// ContainerStatus is the lifecycle label Docker reports for a container
// ("Up 2 minutes", "Exited (0) 3 hours ago"). Present is false when the
// container does not exist or the runtime could not be queried.
type ContainerStatus struct {
	Text    string `json:"status"`
	Present bool   `json:"present"`
}

// NoStatus is the absent status.
var NoStatus = ContainerStatus{}

// StatusOf wraps a raw status label. Blank text yields NoStatus.
func StatusOf(text string) ContainerStatus {
	text = strings.TrimSpace(text)
	if text == "" {
		return NoStatus
	}
	return ContainerStatus{Text: text, Present: true}
}

// IsRunning reports whether the status label starts with "up", ignoring case.
func (s ContainerStatus) IsRunning() bool {
	return s.Present && strings.HasPrefix(strings.ToLower(s.Text), "up")
}

func (s ContainerStatus) String() string {
	if !s.Present {
		return "absent"
	}
	return s.Text
}

// Target identifies the single container managed by a provisioning run.
type Target struct {
	ContainerName  string `json:"container_name"`
	ComposeFile    string `json:"compose_file"`
	ComposeProfile string `json:"compose_profile"`
}

// DefaultTarget is the Azure SQL Edge container used on developer workstations.
func DefaultTarget() Target {
	return Target{
		ContainerName:  "frank-mssql",
		ComposeFile:    "docker-compose.mssql.yml",
		ComposeProfile: "x64",
	}
}
