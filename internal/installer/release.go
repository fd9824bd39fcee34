package installer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// githubRelease is the subset of the GitHub releases API response the
// installer needs.
type githubRelease struct {
	TagName string `json:"tag_name"`
}

// resolveVersion asks the GitHub releases API for the latest release tag.
func (inst *Installer) resolveVersion(ctx context.Context) error {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", inst.opts.APIBaseURL, inst.opts.Repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := inst.opts.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("release lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("release lookup returned %s", resp.Status)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return fmt.Errorf("decoding release response: %w", err)
	}
	if release.TagName == "" {
		return fmt.Errorf("release response has no tag name")
	}

	inst.version = release.TagName
	fmt.Fprintf(inst.opts.Out, "    latest release: %s\n", inst.version)
	return nil
}

// BinaryPath returns the install destination of the agent binary.
func (inst *Installer) BinaryPath() string {
	return filepath.Join(inst.opts.BinDir, inst.opts.ServiceName)
}

func (inst *Installer) downloadURL() string {
	asset := fmt.Sprintf("%s_%s_%s", inst.opts.ServiceName, runtime.GOOS, runtime.GOARCH)
	if base := inst.opts.DownloadBaseURL; base != "" {
		return fmt.Sprintf("%s/%s/%s", base, inst.version, asset)
	}
	return fmt.Sprintf("https://github.com/%s/releases/download/%s/%s",
		inst.opts.Repo, inst.version, asset)
}

// downloadBinary fetches the platform asset for the resolved release and
// installs it executable under BinDir.
func (inst *Installer) downloadBinary(ctx context.Context) error {
	if inst.version == "" {
		return fmt.Errorf("no release version resolved")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, inst.downloadURL(), nil)
	if err != nil {
		return err
	}

	resp, err := inst.opts.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned %s", resp.Status)
	}

	if err := os.MkdirAll(inst.opts.BinDir, 0o755); err != nil {
		return err
	}

	// Write to a temp file first so a failed download never leaves a
	// truncated binary at the final path.
	tmp, err := os.CreateTemp(inst.opts.BinDir, inst.opts.ServiceName+".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("writing binary: %w", err)
	}
	if err := tmp.Chmod(0o755); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), inst.BinaryPath())
}
