package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-qa/internal/pipeline"
)

// reportedError has already been written to stdout as an error object.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func writeError(w io.Writer, err error) error {
	b, _ := json.Marshal(pipeline.ErrorResult{Error: err.Error()})
	fmt.Fprintln(w, string(b))
	return reportedError{err: err}
}

func processCmd() *cobra.Command {
	var runTimeout time.Duration
	var pretty bool

	cmd := &cobra.Command{
		Use:   "process <pdf>",
		Short: "Process a PDF and print the summary, questions and answers as JSON",
		// argument errors must come out as an error object, not cobra usage
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) != 1 {
				return writeError(out, errors.New("usage: pdfqa process <pdf_path>"))
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return writeError(out, err)
			}
			log := newLogger(cfg)

			ctx := cmd.Context()
			if runTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, runTimeout)
				defer cancel()
			}

			p, err := buildPipeline(ctx, cfg, log)
			if err != nil {
				return writeError(out, err)
			}
			res, err := p.RunFile(ctx, args[0])
			if err != nil {
				log.Error("unhandled exception", "err", err)
				return writeError(out, err)
			}

			var b []byte
			if pretty {
				b, err = json.MarshalIndent(res, "", "  ")
			} else {
				b, err = json.Marshal(res)
			}
			if err != nil {
				return writeError(out, err)
			}
			fmt.Fprintln(out, string(b))
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return writeError(c.OutOrStdout(), err)
	})
	addPipelineFlags(cmd)
	cmd.Flags().DurationVar(&runTimeout, "run-timeout", 0, "abort the whole run after this long (0 = no limit)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	return cmd
}
