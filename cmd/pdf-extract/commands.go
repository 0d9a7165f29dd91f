package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pdf-extract-demo/internal/domain"
	"pdf-extract-demo/internal/preview"
	apperrors "pdf-extract-demo/pkg/errors"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file.pdf>",
	Short: "Render every page of a PDF to PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("out")
		dpi, _ := cmd.Flags().GetFloat64("dpi")

		file, err := readSelectedFile(args[0])
		if err != nil {
			return err
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}

		renderer := preview.NewRenderer(dpi, newLogger())
		pages, err := renderer.Render(cmd.Context(), file.Name, file.Data)
		if err != nil {
			return err
		}
		for _, page := range pages {
			data, err := preview.PNG(page)
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, page.DisplayName+".png")
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		successColor.Fprintf(os.Stderr, "Rendered %d page(s)\n", len(pages))
		return nil
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit <file.pdf>",
	Short: "Upload a PDF and wait for the extracted document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := newLogger()

		opts := domain.DefaultSubmitOptions()
		opts.Prompt, _ = cmd.Flags().GetString("prompt")
		opts.UsePrompt = opts.Prompt != ""
		opts.Strategy, _ = cmd.Flags().GetString("strategy")
		opts.Model, _ = cmd.Flags().GetString("model")
		output, _ := cmd.Flags().GetString("output")

		file, err := readSelectedFile(args[0])
		if err != nil {
			return err
		}
		req, err := domain.NewExtractRequest(file, opts)
		if err != nil {
			if errors.Is(err, domain.ErrUnsupportedFileType) {
				return errors.New(domain.StatusUnsupportedFile)
			}
			return err
		}

		client, err := newClient(log)
		if err != nil {
			return err
		}
		store, err := newStore()
		if err != nil {
			return err
		}
		// A new submission abandons whatever was tracked before.
		if err := store.Clear(ctx, cliSession); err != nil {
			return err
		}

		resp, err := client.UploadFile(ctx, req)
		if err != nil {
			failColor.Fprintf(os.Stderr, "Upload failed: %s\n", apperrors.UserMessage(err))
			return err
		}
		if err := store.Save(ctx, cliSession, resp.TaskID); err != nil {
			log.Warn("Failed to store task id", "task_id", resp.TaskID, "error", err)
		}

		infoColor.Fprintf(os.Stderr, "Task Id: %s\n", resp.TaskID)
		infoColor.Fprintf(os.Stderr, "curl -X GET %s\n", client.ResultURL(resp.TaskID))

		out, err := openOutput(output)
		if err != nil {
			return err
		}
		defer out.Close()
		return waitForResult(ctx, client, store, resp.TaskID, out, log)
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Wait for the stored task without uploading again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := newLogger()
		output, _ := cmd.Flags().GetString("output")

		store, err := newStore()
		if err != nil {
			return err
		}
		taskID, err := store.Load(ctx, cliSession)
		if errors.Is(err, domain.ErrTaskNotFound) {
			return errors.New("no task to resume")
		}
		if err != nil {
			return err
		}

		client, err := newClient(log)
		if err != nil {
			return err
		}
		infoColor.Fprintf(os.Stderr, "Resuming task %s\n", taskID)

		out, err := openOutput(output)
		if err != nil {
			return err
		}
		defer out.Close()
		return waitForResult(ctx, client, store, taskID, out, log)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored task id and its result URL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}
		taskID, err := store.Load(cmd.Context(), cliSession)
		if errors.Is(err, domain.ErrTaskNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "No task stored")
			return nil
		}
		if err != nil {
			return err
		}
		client, err := newClient(newLogger())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task Id: %s\n", taskID)
		fmt.Fprintf(cmd.OutOrStdout(), "curl -X GET %s\n", client.ResultURL(taskID))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored task",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}
		if err := store.Clear(cmd.Context(), cliSession); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", store.Path())
		return nil
	},
}

func init() {
	previewCmd.Flags().String("out", ".", "directory for page images")
	previewCmd.Flags().Float64("dpi", preview.DefaultDPI, "render resolution")

	submitCmd.Flags().String("prompt", "", "transform the extracted text with this LLM prompt")
	submitCmd.Flags().String("strategy", domain.DefaultStrategy, "OCR strategy")
	submitCmd.Flags().String("model", domain.DefaultModel, "LLM used for the prompt")
	submitCmd.Flags().StringP("output", "o", "", "write the document to a file instead of stdout")

	resumeCmd.Flags().StringP("output", "o", "", "write the document to a file instead of stdout")
}

// readSelectedFile loads path and sniffs its content type the way a browser
// upload is handled.
func readSelectedFile(path string) (*domain.SelectedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &domain.SelectedFile{
		Name:        filepath.Base(path),
		ContentType: preview.DetectContentType("", data),
		Data:        data,
	}, nil
}
