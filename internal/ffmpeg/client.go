package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"chaptermux/internal/logging"
	"chaptermux/internal/services"
)

// CommandRunner executes an external command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Client runs ffmpeg invocations.
type Client struct {
	binary string
	logger *slog.Logger
	run    CommandRunner
}

// NewClient constructs a client for the given ffmpeg binary.
func NewClient(binary string, logger *slog.Logger) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Client{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "ffmpeg"),
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (c *Client) WithCommandRunner(r CommandRunner) {
	if c != nil && r != nil {
		c.run = r
	}
}

// Binary returns the configured ffmpeg executable.
func (c *Client) Binary() string {
	return c.binary
}

// ExtractMetadata writes the global metadata of video to doc.
func (c *Client) ExtractMetadata(ctx context.Context, video, doc string) error {
	args := ExtractMetadataArgs(video, doc)
	if err := c.exec(ctx, "extract_metadata", args); err != nil {
		return err
	}
	if _, err := os.Stat(doc); err != nil {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "extract metadata", "ffmpeg did not produce the metadata document", err)
	}
	return nil
}

// Apply runs the stream-copy invocation. A partially written output is
// removed on failure.
func (c *Client) Apply(ctx context.Context, req ApplyRequest) error {
	args, err := BuildApplyArgs(req)
	if err != nil {
		return services.Wrap(services.ErrValidation, "ffmpeg", "build apply args", err.Error(), nil)
	}
	if err := c.exec(ctx, "apply", args); err != nil {
		_ = os.Remove(req.Output)
		return err
	}
	if _, err := os.Stat(req.Output); err != nil {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "apply", "ffmpeg did not produce output file", err)
	}
	return nil
}

func (c *Client) exec(ctx context.Context, operation string, args Args) error {
	c.logger.Debug("executing ffmpeg",
		logging.String("operation", operation),
		logging.String("command", CommandLine(c.binary, args)),
	)
	if err := c.run(ctx, c.binary, args.Slice()...); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return services.Wrap(services.ErrExternalTool, "ffmpeg", strings.ReplaceAll(operation, "_", " "), "ffmpeg exited with an error", err)
	}
	return nil
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s", err, lastLines(string(output), 5))
	}
	return nil
}

// lastLines keeps the tail of ffmpeg's banner-heavy output.
func lastLines(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
