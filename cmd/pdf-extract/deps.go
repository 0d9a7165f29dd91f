package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/viper"

	"pdf-extract-demo/internal/domain"
	"pdf-extract-demo/internal/extractapi"
	"pdf-extract-demo/internal/repository"
	"pdf-extract-demo/internal/service"
	apperrors "pdf-extract-demo/pkg/errors"
	"pdf-extract-demo/pkg/logger"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	failColor    = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

func newLogger() domain.Logger {
	return logger.New(viper.GetString("log_level"), "console", os.Stderr)
}

const cliUserAgent = "pdf-extract-cli/1.0"

func newClient(log domain.Logger) (*extractapi.Client, error) {
	if viper.GetString("api_password") == "" {
		log.Warn("No API password configured; set PDF_EXTRACT_API_PASSWORD or --api-password")
	}
	return extractapi.NewClient(viper.GetString("api_url"),
		extractapi.WithCredentials(viper.GetString("api_user"), viper.GetString("api_password")),
		extractapi.WithTimeout(viper.GetDuration("timeout")),
		extractapi.WithUserAgent(cliUserAgent),
		extractapi.WithLogger(log),
	)
}

func newStore() (*repository.FileTaskStore, error) {
	path := viper.GetString("state_file")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return repository.NewFileTaskStore(path), nil
}

// waitForResult polls taskID with a spinner until it finishes, then writes the
// document to out. The stored id is cleared on any terminal state and kept
// when polling is interrupted.
func waitForResult(ctx context.Context, api domain.ExtractAPI, store domain.TaskStore, taskID string, out io.Writer, log domain.Logger) error {
	poller := service.NewPoller(api, viper.GetDuration("poll_interval"), log)

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = " " + domain.StatusProcessingFiles
	sp.Start()

	outcome, err := poller.PollUntilTerminal(ctx, taskID, func(status string) {
		sp.Lock()
		sp.Suffix = " " + status
		sp.Unlock()
	})
	sp.Stop()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			infoColor.Fprintln(os.Stderr, "Interrupted. Continue later with: pdf-extract resume")
			return err
		}
		failColor.Fprintf(os.Stderr, "Polling failed: %s\n", apperrors.UserMessage(err))
		infoColor.Fprintln(os.Stderr, "The task id was kept. Retry with: pdf-extract resume")
		return err
	}

	clearCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Clear(clearCtx, cliSession); err != nil {
		log.Warn("Failed to clear stored task", "task_id", taskID, "error", err)
	}

	if !outcome.Succeeded() {
		failColor.Fprintf(os.Stderr, "Task %s finished with %s: %s\n", taskID, outcome.State, outcome.Status)
		return fmt.Errorf("task %s: %s", taskID, outcome.Status)
	}

	successColor.Fprintf(os.Stderr, "Task %s finished\n", taskID)
	_, err = io.WriteString(out, outcome.Document)
	if err == nil && len(outcome.Document) > 0 && outcome.Document[len(outcome.Document)-1] != '\n' {
		_, err = io.WriteString(out, "\n")
	}
	return err
}

// openOutput returns stdout, or a created file when path is set.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
