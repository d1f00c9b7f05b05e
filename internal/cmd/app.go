package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terranastra/terran/internal/adapters/docker"
	"github.com/terranastra/terran/internal/adapters/git"
	"github.com/terranastra/terran/internal/adapters/process"
	"github.com/terranastra/terran/internal/config"
	"github.com/terranastra/terran/internal/console"
	"github.com/terranastra/terran/internal/core/domain"
	"github.com/terranastra/terran/internal/core/ports"
	"github.com/terranastra/terran/internal/core/services"
	"github.com/terranastra/terran/internal/lock"
)

// app holds everything one command invocation needs.
type app struct {
	cfg         *config.Config
	log         *logrus.Entry
	report      *console.Reporter
	runtime     ports.ContainerRuntime
	checker     *services.InstallChecker
	provisioner *services.Provisioner
	inspector   ports.WorkspaceInspector
	closers     []io.Closer
}

func newApp(cmd *cobra.Command, d deps, opts *rootOptions) (*app, error) {
	// 1. Configuration: file first, then flags
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if cmd.Flags().Changed("driver") {
		cfg.Driver = opts.driver
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 2. Logging and console output
	logger := logrus.New()
	logger.SetOutput(d.stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("invalid log level %s, defaulting to info", cfg.LogLevel)
	}
	log := logger.WithField("run_id", uuid.NewString())

	report := console.New(d.stdout)

	// 3. Adapters
	var runner ports.CommandRunner = process.NewRunner(report.Writer(), cfg.CommandTimeout, log)
	if d.runner != nil {
		runner = d.runner
	}

	a := &app{
		cfg:       cfg,
		log:       log,
		report:    report,
		checker:   services.NewInstallChecker(runner, report, log),
		inspector: git.NewInspector(),
	}

	cli := docker.NewCLIRuntime(runner)
	cli.ProbeTimeout = cfg.ProbeTimeout
	a.runtime = cli
	if cfg.Driver == config.DriverAPI {
		api, err := docker.NewAPIRuntime(cli, log)
		if err != nil {
			return nil, err
		}
		api.ProbeTimeout = cfg.ProbeTimeout
		a.runtime = api
		a.closers = append(a.closers, api)
	}
	// 4. Services, with the runtime injected
	a.provisioner = services.NewProvisioner(a.runtime, cfg.Target(), report, log)

	log.WithFields(logrus.Fields{
		"driver":    cfg.Driver,
		"container": cfg.Container.Name,
		"config":    opts.configPath,
	}).Debug("configuration loaded")
	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.WithError(err).Debug("close failed")
		}
	}
}

// provisionLocked runs the provisioner while holding the per-container run lock.
func (a *app) provisionLocked(ctx context.Context) (domain.Outcome, error) {
	l := lock.ForContainer(a.cfg.Container.Name)
	lctx, cancel := context.WithTimeout(ctx, a.cfg.LockTimeout)
	defer cancel()

	a.log.WithField("lock", l.Path()).Debug("acquiring run lock")
	if err := l.Acquire(lctx); err != nil {
		return domain.Outcome{}, err
	}
	defer func() {
		if err := l.Release(); err != nil {
			a.log.WithError(err).Warn("failed to release run lock")
		}
	}()

	return a.provisioner.Provision(ctx), nil
}

func (a *app) reportOutcome(o domain.Outcome) {
	log := a.log.WithFields(logrus.Fields{"state": o.State, "status": o.Status.String()})
	if o.OK() {
		log.Info("container ready")
		return
	}
	log.WithError(o.Err).Error("container not ready")
}
