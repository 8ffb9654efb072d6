package sdcard

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"
	"sync"
)

var (
	// ErrInvalidSize indicates a size string outside the accepted pattern.
	ErrInvalidSize = errors.New("sdcard: invalid size")
	// ErrToolFailed indicates the image tool exited non-zero.
	ErrToolFailed = errors.New("sdcard: tool failed")
)

// sizePattern accepts a decimal byte count with an optional K or M suffix.
var sizePattern = regexp.MustCompile(`^\d+[KM]?$`)

// ValidSize reports whether size is an acceptable storage card size
// string, e.g. "64M", "512K" or "1048576".
func ValidSize(size string) bool {
	return sizePattern.MatchString(size)
}

// Logger defines the logging interface for the runner.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Result captures one tool invocation.
type Result struct {
	ExitCode int
	Stdout   []string
	Stderr   []string
}

// Runner invokes the storage card image tool.
type Runner struct {
	logger Logger
}

// NewRunner creates a runner with a no-op logger.
func NewRunner() *Runner {
	return &Runner{logger: noopLogger{}}
}

// SetLogger sets the logger for the runner.
func (r *Runner) SetLogger(logger Logger) {
	r.logger = logger
}

// Create generates a storage card image of the given size at outPath by
// invoking tool. The size must satisfy ValidSize. A non-zero exit
// surfaces every line the tool wrote to stderr.
func (r *Runner) Create(ctx context.Context, tool, size, outPath string) error {
	if !ValidSize(size) {
		return fmt.Errorf("%w: %q", ErrInvalidSize, size)
	}

	r.logger.Info("creating storage card image",
		"tool", tool,
		"size", size,
		"path", outPath,
	)

	result, err := r.run(ctx, tool, size, outPath)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		for _, line := range result.Stderr {
			r.logger.Error("tool stderr", "tool", tool, "line", line)
		}
		return fmt.Errorf("%w: exit code %d: %s",
			ErrToolFailed, result.ExitCode, strings.Join(result.Stderr, "; "))
	}

	r.logger.Debug("storage card image created", "path", outPath)
	return nil
}

// run executes tool with args, draining stdout and stderr on separate
// goroutines and joining both before the exit code is inspected.
func (r *Runner) run(ctx context.Context, tool string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, tool, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("creating stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("starting %s: %w", tool, err)
	}

	var result Result
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		result.Stdout = drainLines(stdout)
	}()
	go func() {
		defer wg.Done()
		result.Stderr = drainLines(stderr)
	}()

	// Both streams must be fully drained before Wait closes the pipes.
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("waiting for %s: %w", tool, err)
	}

	return result, nil
}

// drainLines reads the stream to EOF, one captured line per entry.
func drainLines(r io.Reader) []string {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}
