// Package services holds the bootstrap logic: installation checks and the
// provisioning decision tree for the managed container.
package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/terranastra/terran/internal/console"
	"github.com/terranastra/terran/internal/core/domain"
	"github.com/terranastra/terran/internal/core/ports"
)

// InstallChecker verifies that external tools are on PATH.
type InstallChecker struct {
	runner ports.CommandRunner
	report *console.Reporter
	log    logrus.FieldLogger
}

// NewInstallChecker creates an InstallChecker.
func NewInstallChecker(runner ports.CommandRunner, report *console.Reporter, log logrus.FieldLogger) *InstallChecker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &InstallChecker{runner: runner, report: report, log: log}
}

// Check runs `<tool> --version`. It never returns an error: every failure
// becomes CheckResult.OK == false with the cause in Err.
func (c *InstallChecker) Check(ctx context.Context, tool domain.Tool) domain.CheckResult {
	result := domain.CheckResult{Tool: tool.Name}

	res, err := c.runner.Run(ctx, []string{tool.Name, "--version"}, ports.Silent())
	if err != nil {
		c.log.WithError(err).WithField("tool", tool.Name).Debug("installation check failed")
		result.Err = err
		result.Hint = tool.Hint
		c.report.Fail(tool.Name + " check")
		c.report.Detail("%s is NOT installed or not on PATH.", tool.Name)
		if tool.Hint != "" {
			c.report.Detail("%s", tool.Hint)
		}
		return result
	}

	result.OK = true
	result.Version = strings.TrimSpace(res.Stdout)
	c.report.Pass(tool.Name + " check")
	if result.Version != "" {
		c.report.Detail("%s", result.Version)
	}
	return result
}

// CheckAll checks each tool in order.
func (c *InstallChecker) CheckAll(ctx context.Context, tools ...domain.Tool) []domain.CheckResult {
	results := make([]domain.CheckResult, 0, len(tools))
	for _, tool := range tools {
		results = append(results, c.Check(ctx, tool))
	}
	return results
}
