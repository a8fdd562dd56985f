package main

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"gist/internal/fetch"

	"github.com/spf13/cobra"
)

func newSummarizeCmd(a *app) *cobra.Command {
	var (
		files   []string
		words   int
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "summarize [links...]",
		Short: "Summarize links and files and print the report",
		Long: `Fetch every link, read every --file and print a summary per source,
a consolidated summary and the key takeaways.

Links may also be separated by commas.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var links []string
			for _, arg := range args {
				links = append(links, fetch.ParseLinks(arg)...)
			}

			uploads, err := readUploads(files)
			if err != nil {
				return err
			}

			if len(links) == 0 && len(uploads) == 0 {
				return errors.New("nothing to summarize: pass links or --file")
			}

			svc, err := newServices(ctx, a.cfg, a.log)
			if err != nil {
				return err
			}
			defer func() {
				if err := svc.Close(); err != nil {
					a.log.ErrorContext(ctx, "Failed to close services",
						"error", err)
				}
			}()

			sources := svc.fetcher.Collect(ctx, links, uploads)
			result := svc.pipeline.Run(ctx, sources, words)

			newReportPrinter(cmd.OutOrStdout(), !noColor).Print(result)

			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "PDF or TXT file to summarize (repeatable)")
	cmd.Flags().IntVarP(&words, "words", "w", 0, "word budget per summary (default from SUMMARY_WORD_BUDGET)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}

func readUploads(paths []string) ([]fetch.Upload, error) {
	uploads := make([]fetch.Upload, 0, len(paths))

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}

		uploads = append(uploads, fetch.Upload{
			Name:     filepath.Base(path),
			MimeType: mime.TypeByExtension(filepath.Ext(path)),
			Data:     data,
		})
	}

	return uploads, nil
}
