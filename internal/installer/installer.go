// Package installer provisions a Linux host with the tokenscope usage agent:
// it installs prerequisite packages, downloads the latest released agent
// binary, writes its configuration, and registers it as a systemd service.
// Steps run strictly in order and the first failure aborts the run.
package installer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"time"
)

const (
	defaultRepo        = "usagelab/tokenscope-agent"
	defaultAPIBaseURL  = "https://api.github.com"
	defaultBinDir      = "/usr/local/bin"
	defaultConfigDir   = "/etc/tokenscope"
	defaultSystemdDir  = "/etc/systemd/system"
	defaultServiceName = "tokenscope-agent"

	defaultHealthTimeout = 15 * time.Second
	healthPollInterval   = 500 * time.Millisecond
)

// Options configure an install run. Zero values fall back to the
// production defaults above.
type Options struct {
	// Repo is the GitHub "owner/name" whose releases carry the agent binary.
	Repo string

	// APIBaseURL and DownloadBaseURL override the GitHub endpoints.
	APIBaseURL      string
	DownloadBaseURL string

	BinDir      string
	ConfigDir   string
	SystemdDir  string
	ServiceName string

	// Proxy settings written into the agent configuration file.
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string

	// UsageLog is the JSONL path the agent appends usage events to.
	UsageLog string

	HealthTimeout time.Duration

	HTTPClient *http.Client
	Out        io.Writer
}

func (o Options) withDefaults() Options {
	if o.Repo == "" {
		o.Repo = defaultRepo
	}
	if o.APIBaseURL == "" {
		o.APIBaseURL = defaultAPIBaseURL
	}
	if o.BinDir == "" {
		o.BinDir = defaultBinDir
	}
	if o.ConfigDir == "" {
		o.ConfigDir = defaultConfigDir
	}
	if o.SystemdDir == "" {
		o.SystemdDir = defaultSystemdDir
	}
	if o.ServiceName == "" {
		o.ServiceName = defaultServiceName
	}
	if o.HealthTimeout == 0 {
		o.HealthTimeout = defaultHealthTimeout
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	return o
}

// step is one named phase of the install procedure.
type step struct {
	name string
	run  func(ctx context.Context) error
}

// Installer executes the install procedure.
type Installer struct {
	opts Options

	// Seams swapped out by tests.
	runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)
	lookPath   func(file string) (string, error)
	geteuid    func() int

	// version is the release tag resolved by the lookup step and consumed
	// by the download step.
	version string
}

// New creates an installer with the given options.
func New(opts Options) *Installer {
	return &Installer{
		opts:       opts.withDefaults(),
		runCommand: runCommand,
		lookPath:   exec.LookPath,
		geteuid:    os.Geteuid,
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

func (inst *Installer) steps() []step {
	return []step{
		{"check root privilege", inst.checkRoot},
		{"install prerequisite packages", inst.installPackages},
		{"resolve latest release", inst.resolveVersion},
		{"download agent binary", inst.downloadBinary},
		{"write agent configuration", inst.writeConfig},
		{"install systemd unit", inst.installUnit},
		{"enable and start service", inst.startService},
		{"verify service health", inst.healthCheck},
	}
}

// Run executes every step in order and stops at the first failure.
// A nil return means the service was verified running.
func (inst *Installer) Run(ctx context.Context) error {
	for _, s := range inst.steps() {
		fmt.Fprintf(inst.opts.Out, "==> %s\n", s.name)
		if err := s.run(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	fmt.Fprintf(inst.opts.Out, "==> %s installed and running\n", inst.opts.ServiceName)
	return nil
}

func (inst *Installer) checkRoot(ctx context.Context) error {
	if uid := inst.geteuid(); uid != 0 {
		return fmt.Errorf("must run as root (euid %d)", uid)
	}
	return nil
}

// packageManagers lists the supported package managers in probe order,
// each with the arguments that install the agent's prerequisites.
var packageManagers = []struct {
	bin  string
	args []string
}{
	{"apt-get", []string{"install", "-y", "ca-certificates"}},
	{"dnf", []string{"install", "-y", "ca-certificates"}},
	{"yum", []string{"install", "-y", "ca-certificates"}},
	{"pacman", []string{"-S", "--noconfirm", "ca-certificates"}},
}

func (inst *Installer) installPackages(ctx context.Context) error {
	for _, pm := range packageManagers {
		if _, err := inst.lookPath(pm.bin); err != nil {
			continue
		}
		if out, err := inst.runCommand(ctx, pm.bin, pm.args...); err != nil {
			return fmt.Errorf("%s failed: %w: %s", pm.bin, err, out)
		}
		return nil
	}
	return fmt.Errorf("no supported package manager found")
}

func (inst *Installer) startService(ctx context.Context) error {
	for _, args := range [][]string{
		{"enable", inst.opts.ServiceName},
		{"start", inst.opts.ServiceName},
	} {
		if out, err := inst.runCommand(ctx, "systemctl", args...); err != nil {
			return fmt.Errorf("systemctl %s failed: %w: %s", args[0], err, out)
		}
	}
	return nil
}

// healthCheck polls systemd until the service reports active or the
// health timeout elapses.
func (inst *Installer) healthCheck(ctx context.Context) error {
	deadline := time.Now().Add(inst.opts.HealthTimeout)

	var lastErr error
	for {
		_, lastErr = inst.runCommand(ctx, "systemctl", "is-active", "--quiet", inst.opts.ServiceName)
		if lastErr == nil {
			return nil
		}
		if time.Now().After(deadline) {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(healthPollInterval):
		}
	}
	return fmt.Errorf("service %s is not active: %w", inst.opts.ServiceName, lastErr)
}
