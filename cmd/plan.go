package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikogura/campaign-planner/pkg/campaign"
	"github.com/nikogura/campaign-planner/pkg/config"
	"github.com/nikogura/campaign-planner/pkg/llm"
	"github.com/nikogura/campaign-planner/pkg/metrics"
	"github.com/nikogura/campaign-planner/pkg/pipeline"
	"github.com/nikogura/campaign-planner/pkg/report"
	"github.com/nikogura/campaign-planner/pkg/search"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var outputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var outputFormat string

//nolint:gochecknoglobals // Cobra boilerplate
var seed uint64

//nolint:gochecknoglobals // Cobra boilerplate
var renderPDF bool

//nolint:gochecknoglobals // Cobra boilerplate
var keepMarkdown bool

//nolint:gochecknoglobals // Cobra boilerplate
var planCmd = &cobra.Command{
	Use:   "plan <brief-file-or-url>",
	Short: "Generate a campaign plan from a brief",
	Long: `Generate a campaign plan from a brief.

The brief can be provided as:
- A JSON or YAML file path (e.g., brief.yaml)
- A URL (e.g., https://example.com/briefs/q3.json)

Example:
  campaign-planner plan brief.yaml
  campaign-planner plan brief.json --format json --output-dir ./out
  campaign-planner plan brief.yaml --seed 42 --pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default from config)")
	planCmd.Flags().StringVar(&outputFormat, "format", "", "Output format: markdown, json or yaml (default from config)")
	planCmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for simulated metrics (0 draws a random seed)")
	planCmd.Flags().BoolVar(&renderPDF, "pdf", false, "Also render the markdown plan to PDF with pandoc")
	planCmd.Flags().BoolVar(&keepMarkdown, "keep-markdown", true, "Keep the markdown file after PDF generation")
}

func runPlan(cmd *cobra.Command, args []string) (err error) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	briefInput := args[0]

	// Setup: load config, load brief, build collaborators
	var cfg config.Config
	var brief campaign.Brief
	var orch *pipeline.Orchestrator
	cfg, brief, orch, err = setupPlan(ctx, briefInput)
	if err != nil {
		return err
	}

	format := outputFormat
	if format == "" {
		format = cfg.Defaults.Format
	}
	format, err = report.NormalizeFormat(format)
	if err != nil {
		return err
	}

	// Run the pipeline
	var result campaign.Result
	result, err = runPipeline(ctx, orch, brief)
	if err != nil {
		return err
	}

	// Write output
	baseName := planBaseName(brief.Topic, time.Now())
	outDir := getBaseOutputDir(cfg)
	outputPath := filepath.Join(outDir, baseName+report.Extension(format))

	err = report.Write(result, format, outputPath)
	if err != nil {
		return err
	}

	if !getVerbose() {
		fmt.Printf("✓ Plan written to %s\n", outputPath)
	}

	if renderPDF {
		err = writePDF(ctx, cfg, result, outDir, baseName, format, outputPath)
		if err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Println(renderSummary(result))

	return err
}

func setupPlan(ctx context.Context, briefInput string) (cfg config.Config, brief campaign.Brief, orch *pipeline.Orchestrator, err error) {
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		return cfg, brief, orch, err
	}

	if getVerbose() {
		fmt.Printf("Loading brief from: %s\n", briefInput)
	}

	brief, err = campaign.LoadBriefWithContext(ctx, briefInput)
	if err != nil {
		return cfg, brief, orch, err
	}

	if getVerbose() {
		fmt.Printf("Brief loaded: %s (%d weeks)\n", brief.Topic, brief.Weeks())
	}

	orch, err = newOrchestrator(ctx, cfg, seed)
	if err != nil {
		return cfg, brief, orch, err
	}

	return cfg, brief, orch, err
}

// newOrchestrator wires the configured model caller, Tavily search and the
// metrics simulator into a pipeline.
func newOrchestrator(ctx context.Context, cfg config.Config, metricsSeed uint64) (orch *pipeline.Orchestrator, err error) {
	var caller llm.Caller
	caller, err = llm.NewCaller(ctx, cfg.CallerOptions())
	if err != nil {
		err = errors.Wrap(err, "failed to create model caller")
		return orch, err
	}

	var sim metrics.Simulator = metrics.NewUnseeded()
	if metricsSeed != 0 {
		sim = metrics.NewSeeded(metricsSeed)
	}

	orch = pipeline.New(caller, search.NewTavilyClient(cfg.TavilyAPIKey),
		pipeline.WithLogger(getLogger()),
		pipeline.WithSimulator(sim),
	)

	return orch, err
}

func runPipeline(ctx context.Context, orch *pipeline.Orchestrator, brief campaign.Brief) (result campaign.Result, err error) {
	// Show spinner during the run unless in verbose mode
	var runSpinner *spinner
	if !getVerbose() {
		runSpinner = newSpinner(fmt.Sprintf("Planning campaign for %q...", brief.Topic))
		runSpinner.start()
	}

	result, err = orch.Run(ctx, brief)

	if runSpinner != nil {
		runSpinner.stopSpinner()
	}

	if err != nil {
		err = errors.Wrap(err, "campaign planning failed")
		return result, err
	}

	if !getVerbose() {
		fmt.Println("✓ Campaign plan complete")
	}

	return result, err
}

func writePDF(ctx context.Context, cfg config.Config, result campaign.Result, outDir, baseName, format, outputPath string) (err error) {
	markdownPath := outputPath
	if format != report.FormatMarkdown {
		markdownPath = filepath.Join(outDir, baseName+report.Extension(report.FormatMarkdown))
		err = report.WriteMarkdown(report.RenderMarkdown(result), markdownPath)
		if err != nil {
			return err
		}
	}

	pdfPath := filepath.Join(outDir, baseName+".pdf")

	var pdfSpinner *spinner
	if !getVerbose() {
		pdfSpinner = newSpinner("Rendering PDF...")
		pdfSpinner.start()
	}

	err = report.RenderPDF(ctx, markdownPath, pdfPath, cfg.Pandoc.TemplatePath)

	if pdfSpinner != nil {
		pdfSpinner.stopSpinner()
	}

	if err != nil {
		return err
	}

	fmt.Printf("✓ PDF written to %s\n", pdfPath)

	if !keepMarkdown {
		err = report.CleanupMarkdown(markdownPath)
		if err != nil {
			return err
		}
	}

	return err
}

func getBaseOutputDir(cfg config.Config) (baseOutDir string) {
	baseOutDir = outputDir
	if baseOutDir == "" {
		baseOutDir = cfg.Defaults.OutputDir
	}
	return baseOutDir
}

// planBaseName names output files after the topic and run date.
func planBaseName(topic string, now time.Time) (name string) {
	slug := sanitizeFilename(topic)
	if slug == "" {
		slug = "campaign"
	}
	name = fmt.Sprintf("%s-%s", slug, now.Format("2006-01-02-150405"))
	return name
}

func sanitizeFilename(name string) (sanitized string) {
	// Convert to lowercase
	sanitized = strings.ToLower(name)

	// Replace spaces and special chars with hyphens
	sanitized = strings.Map(func(r rune) (result rune) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			result = r
			return result
		}
		result = '-'
		return result
	}, sanitized)

	// Remove consecutive hyphens
	for strings.Contains(sanitized, "--") {
		sanitized = strings.ReplaceAll(sanitized, "--", "-")
	}

	// Trim hyphens from ends
	sanitized = strings.Trim(sanitized, "-")

	// Keep file names manageable
	if len(sanitized) > 60 {
		sanitized = strings.Trim(sanitized[:60], "-")
	}

	return sanitized
}
