package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/terranastra/terran/internal/console"
	"github.com/terranastra/terran/internal/core/domain"
	"github.com/terranastra/terran/internal/core/ports"
)

// Provisioner makes sure the target container exists and is running.
//
// Nothing guards the window between probing and starting: another actor may
// change the container in between. Callers that need mutual exclusion between
// terran processes hold a lock.RunLock around Provision.
type Provisioner struct {
	runtime ports.ContainerRuntime
	target  domain.Target
	report  *console.Reporter
	log     logrus.FieldLogger

	// Exists reports whether a file is present. Defaults to os.Stat.
	Exists func(path string) bool
}

// NewProvisioner creates a Provisioner for target.
func NewProvisioner(runtime ports.ContainerRuntime, target domain.Target, report *console.Reporter, log logrus.FieldLogger) *Provisioner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Provisioner{
		runtime: runtime,
		target:  target,
		report:  report,
		log:     log,
		Exists:  fileExists,
	}
}

// Target returns the container this provisioner manages.
func (p *Provisioner) Target() domain.Target { return p.target }

// Status probes the target container without changing it.
func (p *Provisioner) Status(ctx context.Context) domain.ContainerStatus {
	return p.runtime.Status(ctx, p.target.ContainerName)
}

// Provision runs the decision tree:
//
//	running             -> AlreadyRunning
//	stopped, start ok   -> Started
//	stopped, start fails or absent:
//	  no compose file   -> ProvisionFailed
//	  compose fails     -> ProvisionFailed
//	  re-probe running  -> Provisioned
//	  otherwise         -> ProvisionedUnverified
func (p *Provisioner) Provision(ctx context.Context) domain.Outcome {
	name := p.target.ContainerName
	log := p.log.WithField("container", name)

	p.report.Step("%s configuration", name)
	status := p.runtime.Status(ctx, name)
	log.WithField("status", status.String()).Debug("probed container")

	if status.Present {
		p.report.Detail("existing container '%s' status: %s", name, status.Text)
		if status.IsRunning() {
			p.report.Detail("container already running; no action needed.")
			return domain.Outcome{State: domain.StateAlreadyRunning, Status: status}
		}

		p.report.Detail("attempting to start existing container...")
		if err := p.runtime.Start(ctx, name); err != nil {
			log.WithError(err).Debug("start failed, falling back to compose")
			p.report.Detail("failed to start existing container; will try compose.")
		} else {
			p.report.Detail("container started.")
			return domain.Outcome{State: domain.StateStarted, Status: status}
		}
	}

	return p.compose(ctx, status)
}

func (p *Provisioner) compose(ctx context.Context, last domain.ContainerStatus) domain.Outcome {
	file, profile := p.target.ComposeFile, p.target.ComposeProfile

	if !p.exists(file) {
		p.report.Detail("compose file missing: %s", file)
		return domain.Outcome{
			State:  domain.StateProvisionFailed,
			Status: last,
			Err:    fmt.Errorf("%w: compose file %s", domain.ErrPreconditionMissing, file),
		}
	}

	p.report.Detail("running docker compose to provision container...")
	if err := p.runtime.ComposeUp(ctx, file, profile); err != nil {
		p.log.WithError(err).WithField("profile", profile).Debug("compose up failed")
		if errors.Is(err, domain.ErrExecutableNotFound) {
			p.report.Detail("docker compose not found. Ensure Docker Desktop or docker-compose is installed.")
		} else {
			p.report.Detail("docker compose command failed.")
		}
		return domain.Outcome{State: domain.StateProvisionFailed, Status: last, Err: err}
	}

	status := p.runtime.Status(ctx, p.target.ContainerName)
	if status.IsRunning() {
		p.report.Detail("container provisioned and running (status: %s).", status.Text)
		return domain.Outcome{State: domain.StateProvisioned, Status: status}
	}

	p.report.Detail("container exists but is not running after compose; check logs manually.")
	return domain.Outcome{
		State:  domain.StateProvisionedUnverified,
		Status: status,
		Err:    fmt.Errorf("container %s not running after compose (status: %s)", p.target.ContainerName, status),
	}
}

func (p *Provisioner) exists(path string) bool {
	if p.Exists == nil {
		return fileExists(path)
	}
	return p.Exists(path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
