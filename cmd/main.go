package main

import (
	"context"
	"fmt"
	"os"

	"scholar_spider/internal/app"
	"scholar_spider/internal/config"
	"scholar_spider/internal/logger"

	"github.com/spf13/cobra"
)

const exampleURL = "https://scholar.google.com/citations?hl=en&view_op=search_authors&mauthors=label%3Aphysics&btnG="

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		run     config.RunConfig
	)

	cmd := &cobra.Command{
		Use:           "scholar-spider",
		Short:         "Downloads authors data from Google Scholar",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if cfgFile != "" {
				loaded, err := config.LoadConfig(cfgFile)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			cfg.Run.LabelURL = run.LabelURL
			cfg.Run.Pages = run.Pages
			cfg.Run.OutputDir = run.OutputDir
			if cmd.Flags().Changed("skip") {
				cfg.Run.Skip = run.Skip
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Run.Verbose = run.Verbose
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logger.New(cfg.Run.Verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			spider, err := app.NewSpiderApp(cfg, log)
			if err != nil {
				return err
			}
			_, err = spider.Run(cmd.Context())
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&run.LabelURL, "label_url", "",
		"URL to the first page of a certain label. For example, for the label \"Physics\": "+exampleURL)
	flags.IntVar(&run.Pages, "pages", 0, "Number of pages of authors to download from specified label")
	flags.StringVar(&run.OutputDir, "output_dir", "", "Output directory for the authors")
	flags.IntVar(&run.Skip, "skip", 0, "Number of pages of authors to skip before starting to download authors")
	flags.BoolVarP(&run.Verbose, "verbose", "v", false, "Add this to get all prints, otherwise complete silence")
	flags.StringVar(&cfgFile, "config", "", "Optional yaml file with scholar, logic and db settings")

	for _, name := range []string{"label_url", "pages", "output_dir"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
