package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	sa "application-relay/internal/relay/candidates/submit-application"
)

type submitOptions struct {
	file       string
	attach     string
	attachType string
	mode       string
}

func newSubmitCmd(root *rootOptions) *cobra.Command {
	opts := &submitOptions{}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Relay a submission JSON file to Greenhouse",
		Long:  "Reads a submission file, optionally attaches a local file as base64, and relays it exactly as POST /submit-application would.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSubmit(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Path to submission JSON (required)")
	cmd.Flags().StringVarP(&opts.attach, "attach", "a", "", "Path to a file to attach (e.g. a resume PDF)")
	cmd.Flags().StringVar(&opts.attachType, "attach-type", "resume", "Attachment kind (resume, cover_letter, ...)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "Override mode: two_step, single or application_only")

	if err := cmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	return cmd
}

func runSubmit(cmd *cobra.Command, root *rootOptions, opts *submitOptions) error {
	raw, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("failed to read submission file: %w", err)
	}

	input, err := sa.ParseInput(raw)
	if err != nil {
		return printFailure(cmd.OutOrStdout(), err)
	}

	if opts.mode != "" {
		input.Mode = sa.Mode(opts.mode)
	}
	if opts.attach != "" {
		attachment, err := encodeAttachment(opts.attach, opts.attachType)
		if err != nil {
			return err
		}
		input.Attachment = attachment
	}

	cfg, err := root.loadConfig()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	handler, err := sa.NewHandler(sa.HandlerOptions{
		AppConfig: cfg,
		Client:    newHarvestClient(cfg),
		Logger:    root.newLogger(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), handler.GetConfig().Timeout)
	defer cancel()

	output, err := handler.Execute(ctx, input)
	if err != nil {
		return printFailure(cmd.OutOrStdout(), err)
	}
	return printJSON(cmd.OutOrStdout(), output)
}

// encodeAttachment does what the browser form does before posting.
func encodeAttachment(path, kind string) (*sa.Attachment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}

	return &sa.Attachment{
		Filename:    filepath.Base(path),
		Type:        kind,
		Content:     base64.StdEncoding.EncodeToString(content),
		ContentType: contentType,
	}, nil
}
