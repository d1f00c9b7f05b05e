package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terranastra/terran/internal/console"
	"github.com/terranastra/terran/internal/core/domain"
)

// fakeRuntime returns scripted statuses in order and records every call.
type fakeRuntime struct {
	statuses   []domain.ContainerStatus
	startErr   error
	composeErr error
	calls      []string
}

func (f *fakeRuntime) Status(_ context.Context, name string) domain.ContainerStatus {
	f.calls = append(f.calls, "status "+name)
	if len(f.statuses) == 0 {
		return domain.NoStatus
	}
	s := f.statuses[0]
	f.statuses = f.statuses[1:]
	return s
}

func (f *fakeRuntime) Start(_ context.Context, name string) error {
	f.calls = append(f.calls, "start "+name)
	return f.startErr
}

func (f *fakeRuntime) ComposeUp(_ context.Context, file, profile string) error {
	f.calls = append(f.calls, fmt.Sprintf("compose %s %s", file, profile))
	return f.composeErr
}

func newTestProvisioner(rt *fakeRuntime, composePresent bool) (*Provisioner, *bytes.Buffer) {
	var out bytes.Buffer
	p := NewProvisioner(rt, domain.DefaultTarget(), console.NewWithColor(&out, false), nil)
	p.Exists = func(string) bool { return composePresent }
	return p, &out
}

func TestProvision_AlreadyRunningIsNoOp(t *testing.T) {
	rt := &fakeRuntime{statuses: []domain.ContainerStatus{domain.StatusOf("Up 2 minutes")}}
	p, out := newTestProvisioner(rt, true)

	o := p.Provision(context.Background())

	assert.Equal(t, domain.StateAlreadyRunning, o.State)
	assert.True(t, o.OK())
	assert.Equal(t, []string{"status frank-mssql"}, rt.calls)
	assert.Contains(t, out.String(), "already running")
}

func TestProvision_StoppedContainerStarts(t *testing.T) {
	rt := &fakeRuntime{statuses: []domain.ContainerStatus{domain.StatusOf("Exited (0) 3 hours ago")}}
	p, _ := newTestProvisioner(rt, true)

	o := p.Provision(context.Background())

	assert.Equal(t, domain.StateStarted, o.State)
	assert.True(t, o.OK())
	assert.Equal(t, []string{"status frank-mssql", "start frank-mssql"}, rt.calls)
}

func TestProvision_StartFailureFallsBackToCompose(t *testing.T) {
	rt := &fakeRuntime{
		statuses: []domain.ContainerStatus{domain.StatusOf("Exited (1) 1 minute ago"), domain.StatusOf("Up 1 second")},
		startErr: &domain.CommandFailedError{Args: []string{"docker", "start"}, ExitCode: 1},
	}
	p, out := newTestProvisioner(rt, true)

	o := p.Provision(context.Background())

	assert.Equal(t, domain.StateProvisioned, o.State)
	assert.Equal(t, []string{
		"status frank-mssql",
		"start frank-mssql",
		"compose docker-compose.mssql.yml x64",
		"status frank-mssql",
	}, rt.calls)
	assert.Contains(t, out.String(), "will try compose")
}

func TestProvision_StartExecutableMissingFallsBack(t *testing.T) {
	rt := &fakeRuntime{
		statuses: []domain.ContainerStatus{domain.StatusOf("Created")},
		startErr: domain.ErrExecutableNotFound,
	}
	p, _ := newTestProvisioner(rt, false)

	o := p.Provision(context.Background())

	assert.Equal(t, domain.StateProvisionFailed, o.State)
	assert.ErrorIs(t, o.Err, domain.ErrPreconditionMissing)
}

func TestProvision_AbsentProvisionsViaCompose(t *testing.T) {
	rt := &fakeRuntime{statuses: []domain.ContainerStatus{domain.NoStatus, domain.StatusOf("Up 1 second")}}
	p, out := newTestProvisioner(rt, true)

	o := p.Provision(context.Background())

	assert.True(t, o.OK())
	assert.Equal(t, domain.StateProvisioned, o.State)
	assert.Equal(t, "Up 1 second", o.Status.Text)
	assert.Equal(t, []string{"status frank-mssql", "compose docker-compose.mssql.yml x64", "status frank-mssql"}, rt.calls)
	assert.Contains(t, out.String(), "provisioned and running (status: Up 1 second)")
}

func TestProvision_MissingComposeFileNeverTouchesRuntime(t *testing.T) {
	rt := &fakeRuntime{}
	p, out := newTestProvisioner(rt, false)

	o := p.Provision(context.Background())

	assert.False(t, o.OK())
	assert.Equal(t, domain.StateProvisionFailed, o.State)
	assert.ErrorIs(t, o.Err, domain.ErrPreconditionMissing)
	assert.Equal(t, []string{"status frank-mssql"}, rt.calls)
	assert.Contains(t, out.String(), "compose file missing: docker-compose.mssql.yml")
}

func TestProvision_ExitedStartFailsAndComposeFileMissing(t *testing.T) {
	rt := &fakeRuntime{
		statuses: []domain.ContainerStatus{domain.StatusOf("Exited (137) 2 days ago")},
		startErr: errors.New("start failed"),
	}
	p, _ := newTestProvisioner(rt, false)

	o := p.Provision(context.Background())

	assert.False(t, o.OK())
	assert.Equal(t, []string{"status frank-mssql", "start frank-mssql"}, rt.calls)
}

func TestProvision_ComposeFailures(t *testing.T) {
	cases := map[string]struct {
		err  error
		hint string
	}{
		"executable missing": {fmt.Errorf("%w: docker", domain.ErrExecutableNotFound), "docker compose not found"},
		"non-zero exit":      {&domain.CommandFailedError{Args: []string{"docker", "compose"}, ExitCode: 1}, "docker compose command failed."},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rt := &fakeRuntime{composeErr: tc.err}
			p, out := newTestProvisioner(rt, true)

			o := p.Provision(context.Background())

			assert.Equal(t, domain.StateProvisionFailed, o.State)
			assert.ErrorIs(t, o.Err, tc.err)
			assert.Contains(t, out.String(), tc.hint)
			// No verification probe after a failed compose.
			assert.Equal(t, []string{"status frank-mssql", "compose docker-compose.mssql.yml x64"}, rt.calls)
		})
	}
}

func TestProvision_UnverifiedAfterCompose(t *testing.T) {
	for name, reprobe := range map[string]domain.ContainerStatus{
		"absent":  domain.NoStatus,
		"stopped": domain.StatusOf("Exited (1) 1 second ago"),
	} {
		t.Run(name, func(t *testing.T) {
			rt := &fakeRuntime{statuses: []domain.ContainerStatus{domain.NoStatus, reprobe}}
			p, out := newTestProvisioner(rt, true)

			o := p.Provision(context.Background())

			assert.False(t, o.OK())
			assert.Equal(t, domain.StateProvisionedUnverified, o.State)
			assert.Contains(t, out.String(), "check logs manually")
		})
	}
}

func TestProvision_CustomTarget(t *testing.T) {
	rt := &fakeRuntime{statuses: []domain.ContainerStatus{domain.NoStatus, domain.StatusOf("up")}}
	target := domain.Target{ContainerName: "pi-sql", ComposeFile: "compose.arm.yml", ComposeProfile: "arm64"}
	p := NewProvisioner(rt, target, nil, nil)
	p.Exists = func(path string) bool { return path == "compose.arm.yml" }

	o := p.Provision(context.Background())

	assert.True(t, o.OK())
	assert.Equal(t, []string{"status pi-sql", "compose compose.arm.yml arm64", "status pi-sql"}, rt.calls)
}

func TestProvision_DefaultExistsUsesFilesystem(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "docker-compose.mssql.yml")
	require.NoError(t, os.WriteFile(file, []byte("services: {}\n"), 0o644))

	rt := &fakeRuntime{statuses: []domain.ContainerStatus{domain.NoStatus, domain.StatusOf("Up 5 seconds")}}
	target := domain.DefaultTarget()
	target.ComposeFile = file
	p := NewProvisioner(rt, target, nil, nil)

	assert.True(t, p.Provision(context.Background()).OK())

	target.ComposeFile = filepath.Join(dir, "missing.yml")
	rt = &fakeRuntime{}
	p = NewProvisioner(rt, target, nil, nil)
	assert.Equal(t, domain.StateProvisionFailed, p.Provision(context.Background()).State)
}
