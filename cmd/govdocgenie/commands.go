package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/advisory"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/classify"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/common"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/decision"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/extract"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/history"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/match"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/metrics"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/pipeline"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/report"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/server"
)

// app bundles the wired components shared by the subcommands.
type app struct {
	cfg        *common.Config
	metrics    *metrics.Client
	extractor  *extract.Extractor
	matcher    *match.Matcher
	classifier *classify.Classifier
	advisory   *advisory.Client
	pipeline   *pipeline.Pipeline
	reports    *report.Service
	history    *history.Store
	logger     *slog.Logger
}

func buildApp(logger *slog.Logger) (*app, error) {
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	sink := metrics.New(cfg.Metrics, logger)
	extractor := extract.NewExtractor(cfg.OCR, sink, logger)
	matcher := match.NewMatcher(logger)
	classifier := classify.NewClassifier(cfg.Classifier, logger)
	adv := advisory.NewClient(cfg.Advisory, logger)
	arbiter := decision.NewArbiter(classifier, adv, sink, logger)

	hist, err := history.Open(cfg.History, logger)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	return &app{
		cfg:        cfg,
		metrics:    sink,
		extractor:  extractor,
		matcher:    matcher,
		classifier: classifier,
		advisory:   adv,
		pipeline:   pipeline.New(extractor, matcher, arbiter, sink, logger),
		reports:    report.NewService(logger),
		history:    hist,
		logger:     logger,
	}, nil
}

func (a *app) close() {
	if err := a.history.Close(); err != nil {
		a.logger.Warn("history.close_failed", "error", err)
	}
	a.metrics.Close()
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "govdocgenie",
		Short:         "Government document compliance analysis",
		Long:          "Extracts identifiers from compliance documents, validates them, and arbitrates an approve/reject decision with supporting evidence.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(logger))
	root.AddCommand(newAnalyzeCmd(logger))
	root.AddCommand(newStatusCmd(logger))
	return root
}

func newServeCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(logger)
			if err != nil {
				return err
			}
			defer a.close()

			srv := server.New(a.cfg, a.pipeline, a.extractor, a.matcher,
				a.classifier, a.reports, a.history, a.advisory != nil, logger)
			return srv.Serve()
		},
	}
}

func newAnalyzeCmd(logger *slog.Logger) *cobra.Command {
	var gst, pan, udyam, quotation string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a document set from local files and print the response JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(logger)
			if err != nil {
				return err
			}
			defer a.close()

			var docs []pipeline.Document
			for docType, path := range map[constants.DocumentType]string{
				constants.DocGST:       gst,
				constants.DocPAN:       pan,
				constants.DocUdyam:     udyam,
				constants.DocQuotation: quotation,
			} {
				if path == "" {
					continue
				}
				if _, err := os.Stat(path); err != nil {
					return fmt.Errorf("%s file: %w", docType, err)
				}
				docs = append(docs, pipeline.Document{Type: docType, Path: path})
			}
			if len(docs) == 0 {
				return fmt.Errorf("no documents given; pass at least one of --gst, --pan, --udyam, --quotation")
			}

			resp := a.pipeline.Analyze(cmd.Context(), docs)
			a.history.Append(cmd.Context(), resp)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}

	cmd.Flags().StringVar(&gst, "gst", "", "path to the GST certificate")
	cmd.Flags().StringVar(&pan, "pan", "", "path to the PAN card")
	cmd.Flags().StringVar(&udyam, "udyam", "", "path to the Udyam certificate")
	cmd.Flags().StringVar(&quotation, "quotation", "", "path to the quotation")
	return cmd
}

func newStatusCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print tool availability and capability state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(logger)
			if err != nil {
				return err
			}
			defer a.close()

			var lines []string
			for name, bin := range map[string]string{
				"pdftotext": a.cfg.OCR.Pdftotext,
				"pdftoppm":  a.cfg.OCR.Pdftoppm,
				"tesseract": a.cfg.OCR.Tesseract,
			} {
				state := "ok"
				if _, err := exec.LookPath(bin); err != nil {
					state = "missing"
				}
				lines = append(lines, fmt.Sprintf("%-10s %s (%s)", name, state, bin))
			}
			lines = append(lines,
				fmt.Sprintf("%-10s %v", "classifier", a.classifier.Loaded()),
				fmt.Sprintf("%-10s %v", "advisory", a.advisory != nil),
				fmt.Sprintf("%-10s %v", "metrics", a.metrics.Enabled()),
				fmt.Sprintf("%-10s %v", "history", a.history != nil),
			)
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
			return nil
		},
	}
}
