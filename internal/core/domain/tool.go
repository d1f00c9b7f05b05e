package domain

// Tool is an external program the workstation must provide.
type Tool struct {
	Name string `json:"name"`
	// Hint tells the user how to install the tool. Empty means no hint.
	Hint string `json:"hint,omitempty"`
}

var (
	Git = Tool{
		Name: "git",
		Hint: "You can install git on a Raspberry Pi using: sudo apt-get install git",
	}
	Docker = Tool{
		Name: "docker",
		Hint: "Install Docker Desktop (Windows/macOS) or 'sudo apt-get install docker.io' (Linux).",
	}
)

// CheckResult is the outcome of an installation check.
type CheckResult struct {
	Tool    string `json:"tool"`
	OK      bool   `json:"ok"`
	Version string `json:"version,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Err     error  `json:"-"`
}

// Workspace describes the git repository enclosing a directory.
type Workspace struct {
	Root   string `json:"root"`
	Branch string `json:"branch"`
	Head   string `json:"head,omitempty"`
}
