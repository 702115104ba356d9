package forge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
	"github.com/trebuchet-org/treb-proxy/internal/domain/config"
)

// ForgeAdapter runs forge build so that build info is fresh before analysis
type ForgeAdapter struct {
	log         *slog.Logger
	projectRoot string
	profile     string
	debug       bool
	stdout      io.Writer
}

// NewForgeAdapter creates a new forge executor
func NewForgeAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *ForgeAdapter {
	return &ForgeAdapter{
		log:         log.With("component", "ForgeAdapter"),
		projectRoot: cfg.ProjectRoot,
		profile:     cfg.Profile,
		debug:       cfg.Debug,
		stdout:      os.Stdout,
	}
}

// Build runs forge build --build-info, restricted to paths when given
func (f *ForgeAdapter) Build(ctx context.Context, paths ...string) error {
	start := time.Now()
	args := f.buildArgs(paths)
	f.log.Debug("running forge build", "dir", f.projectRoot, "args", args)

	cmd := exec.CommandContext(ctx, "forge", args...)
	cmd.Dir = f.projectRoot
	cmd.Env = append(os.Environ(), f.buildEnv()...)

	if f.debug {
		return f.buildStreaming(cmd, start)
	}

	output, err := cmd.CombinedOutput()
	duration := time.Since(start)
	if err != nil {
		f.log.Error("forge build failed", "error", err, "output", string(output), "duration", duration)
		return fmt.Errorf("forge build failed: %w\nOutput: %s", err, string(output))
	}

	f.log.Debug("forge build completed successfully", "duration", duration)
	return nil
}

// buildStreaming runs the build behind a PTY so forge keeps its colours
func (f *ForgeAdapter) buildStreaming(cmd *exec.Cmd, start time.Time) error {
	ptyFile, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to start pty: %w", err)
	}
	defer func() {
		_ = ptyFile.Close()
	}()

	_, _ = io.Copy(f.stdout, ptyFile)

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("forge build failed: %w", err)
	}
	f.log.Debug("forge build completed successfully", "duration", time.Since(start))
	return nil
}

func (f *ForgeAdapter) buildArgs(paths []string) []string {
	args := []string{"build", "--build-info"}
	return append(args, paths...)
}

func (f *ForgeAdapter) buildEnv() []string {
	if f.profile == "" {
		return nil
	}
	return []string{"FOUNDRY_PROFILE=" + f.profile}
}
