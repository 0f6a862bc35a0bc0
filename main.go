package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ImpactLab/internal/auth"
	"ImpactLab/internal/calc/impact"
	"ImpactLab/internal/calc/report"
	"ImpactLab/internal/config"
	"ImpactLab/internal/layout"
	"ImpactLab/internal/server"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	envFile   string
	inputPath string
	outDir    string
	dryRun    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "impactlab",
		Short: "Impact load calculator with PDF reports",
		RunE:  runServer,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Path to the .env file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE:  runServer,
	}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Render an impact report from a JSON file",
		RunE:  runReport,
	}
	reportCmd.Flags().StringVarP(&inputPath, "input", "i", "", "JSON file with {inputs, results, screenshot}")
	reportCmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory to write the PDF into")
	reportCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Lay the report out without writing a PDF")
	reportCmd.MarkFlagRequired("input")

	hashCmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for OPERATOR_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	rootCmd.AddCommand(serveCmd, reportCmd, hashCmd)
	return rootCmd
}

func loadConfig(logger zerolog.Logger) (config.Config, error) {
	cfg, loaded, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, err
	}
	if !loaded {
		logger.Info().Str("file", envFile).Msg("no .env file, using environment only")
	}
	return cfg, nil
}

func newGenerator(cfg config.Config) *report.Generator {
	return report.NewGenerator(report.Options{
		Fonts:   layout.Fonts{Regular: cfg.FontRegular, Bold: cfg.FontBold},
		SiteURL: cfg.SiteURL,
	})
}

func runServer(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	if cfg.OperatorLogin == "" {
		logger.Warn().Msg("OPERATOR_LOGIN is not set, batch tools are disabled")
	}
	for _, f := range []string{cfg.FontRegular, cfg.FontBold} {
		if _, err := os.Stat(f); err != nil {
			logger.Warn().Str("font", f).Msg("font file not found, report generation will fail")
		}
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = logger.WithContext(ctx)

	handler := server.NewRouter(cfg, logger, newGenerator(cfg))
	return server.Run(ctx, cfg, handler)
}

func runReport(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var input report.Input
	if err := json.Unmarshal(raw, &input); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}

	res, err := resultFor(input)
	if err != nil {
		return err
	}
	shot, err := report.DecodeImage(input.Screenshot)
	if err != nil {
		return err
	}

	gen := newGenerator(cfg)
	out := cmd.OutOrStdout()
	if dryRun {
		rec, err := gen.DryRun(input.Inputs, res, shot)
		if err != nil {
			return err
		}
		counts := map[layout.Op]int{}
		for _, c := range rec.Commands {
			counts[c.Op]++
		}
		fmt.Fprintf(out, "pages: %d\n", rec.PageCount())
		for _, op := range []layout.Op{layout.OpText, layout.OpLine, layout.OpRect, layout.OpImage} {
			fmt.Fprintf(out, "%s: %d\n", op, counts[op])
		}
		return nil
	}

	doc, err := gen.Generate(logger.WithContext(context.Background()), input.Inputs, res, shot)
	if err != nil {
		return err
	}
	path, err := doc.Save(outDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (%d pages)\n", path, doc.Pages)
	return nil
}

func resultFor(input report.Input) (impact.Result, error) {
	if input.Results != nil {
		return *input.Results, nil
	}
	res, err := impact.Calculate(input.Inputs)
	if err != nil {
		return impact.Result{}, fmt.Errorf("calculate: %w", err)
	}
	return res, nil
}
