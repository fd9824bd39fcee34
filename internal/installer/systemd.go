package installer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// agentConfig is the JSON configuration written for the agent service.
type agentConfig struct {
	UsageLog string           `json:"usage_log"`
	Proxy    agentProxyConfig `json:"proxy"`
}

type agentProxyConfig struct {
	HTTP    string `json:"http"`
	HTTPS   string `json:"https"`
	NoProxy string `json:"no_proxy"`
}

// ConfigPath returns the path of the agent configuration file.
func (inst *Installer) ConfigPath() string {
	return filepath.Join(inst.opts.ConfigDir, "config.json")
}

func (inst *Installer) writeConfig(ctx context.Context) error {
	if err := os.MkdirAll(inst.opts.ConfigDir, 0o755); err != nil {
		return err
	}

	usageLog := inst.opts.UsageLog
	if usageLog == "" {
		usageLog = filepath.Join("/var/log/tokenscope", "usage.jsonl")
	}
	if err := os.MkdirAll(filepath.Dir(usageLog), 0o755); err != nil {
		return err
	}

	cfg := agentConfig{
		UsageLog: usageLog,
		Proxy: agentProxyConfig{
			HTTP:    inst.opts.HTTPProxy,
			HTTPS:   inst.opts.HTTPSProxy,
			NoProxy: inst.opts.NoProxy,
		},
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(inst.ConfigPath(), append(data, '\n'), 0o644)
}

// UnitPath returns the path of the installed systemd unit file.
func (inst *Installer) UnitPath() string {
	return filepath.Join(inst.opts.SystemdDir, inst.opts.ServiceName+".service")
}

func (inst *Installer) unitFile() string {
	return fmt.Sprintf(`[Unit]
Description=Tokenscope usage agent
After=network-online.target
Wants=network-online.target

[Service]
Type=simple
ExecStart=%s --config %s
Restart=on-failure
RestartSec=5

[Install]
WantedBy=multi-user.target
`, inst.BinaryPath(), inst.ConfigPath())
}

// installUnit writes the service unit and reloads the systemd daemon.
func (inst *Installer) installUnit(ctx context.Context) error {
	if err := os.MkdirAll(inst.opts.SystemdDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(inst.UnitPath(), []byte(inst.unitFile()), 0o644); err != nil {
		return err
	}

	if out, err := inst.runCommand(ctx, "systemctl", "daemon-reload"); err != nil {
		return fmt.Errorf("systemctl daemon-reload failed: %w: %s", err, out)
	}
	return nil
}
