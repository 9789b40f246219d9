package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gubarz/parkdown/internal/config"
	"github.com/gubarz/parkdown/internal/fetch"
	"github.com/gubarz/parkdown/internal/include"
	"github.com/gubarz/parkdown/internal/markdown"
	"github.com/gubarz/parkdown/internal/remap"
	"github.com/gubarz/parkdown/internal/ui"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "parkdown [files...]",
	Short: "Markdown transclusion",
	Long: `Populates empty links like [](./file.md) with the content they point to.

Populated content is written between marker comments right after the link,
so running parkdown again replaces it instead of adding another copy.`,
	RunE: runParkdown,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringArrayP("file", "f", nil, "File or directory to process (repeatable, defaults to README.md)")
	flags.Bool("no-write", false, "Print results instead of writing them back")
	flags.Bool("no-inclusions", false, "Do not populate inclusions")
	flags.BoolP("depopulate", "d", false, "Remove populated inclusions")
	flags.StringArrayP("remap-imports", "r", nil, "Remap import specifiers in code blocks (from=to, $local matches local paths)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")

	viper.BindPFlag("depopulate", flags.Lookup("depopulate"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

func runParkdown(cmd *cobra.Command, args []string) error {
	logger, err := ui.NewLogger(os.Stderr, config.GetLogLevel())
	if err != nil {
		return err
	}

	extra, _ := cmd.Flags().GetStringArray("file")
	paths := append(args, extra...)
	if len(paths) == 0 {
		paths = config.GetFiles()
	}
	files, err := markdown.CollectFiles(paths)
	if err != nil {
		return fmt.Errorf("error collecting files: %w", err)
	}

	pairs, _ := cmd.Flags().GetStringArray("remap-imports")
	mapping, err := remap.ParseMapping(pairs)
	if err != nil {
		return err
	}
	for from, to := range config.GetRemapImports() {
		if _, ok := mapping[from]; !ok {
			mapping[from] = to
		}
	}

	noWrite, _ := cmd.Flags().GetBool("no-write")
	noInclusions, _ := cmd.Flags().GetBool("no-inclusions")

	cache, err := fetch.NewCached(fetch.OS{}, config.GetCacheSize(), logger)
	if err != nil {
		return err
	}

	a := &app{
		logger: logger,
		resolver: include.NewResolver(
			include.WithLogger(logger),
			include.WithCodeExtensions(config.GetCodeExtensions()...),
		),
		fetcher: cache,
		recipes: config.GetRecipes(),
		stdout:  os.Stdout,
	}
	opts := options{
		write:      config.GetWrite() && !noWrite,
		inclusions: config.GetInclusions() && !noInclusions,
		depopulate: config.GetDepopulate(),
		mapping:    mapping,
	}

	results, err := a.run(files, opts)

	// Results go to stdout with --no-write, keep the summary out of them
	summary := os.Stdout
	if !opts.write {
		summary = os.Stderr
	}
	fmt.Fprint(summary, ui.RenderSummary(results))
	return err
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
