package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bkyoung/prompt-eval/internal/determinism"
	"github.com/bkyoung/prompt-eval/internal/domain"
	"github.com/bkyoung/prompt-eval/internal/usecase/defense"
	"github.com/bkyoung/prompt-eval/internal/usecase/rubric"
	"github.com/bkyoung/prompt-eval/internal/usecase/schema"
	"github.com/bkyoung/prompt-eval/internal/usecase/template"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// ErrSchemaMismatch indicates the checked output does not conform to the schema.
var ErrSchemaMismatch = errors.New("output does not conform to schema")

// SuiteRunner defines the dependency required to run the suite command.
type SuiteRunner interface {
	RunSuiteFile(ctx context.Context, req rubric.SuiteRequest) (rubric.SuiteResult, error)
}

// DefinitionLoader loads strategy, catalog, and schema definitions from disk.
type DefinitionLoader interface {
	LoadStrategy(path, id string) (domain.DefenseStrategy, error)
	LoadCatalog(path string) ([]domain.AttackVector, error)
	LoadSchema(path string) (schema.Schema, error)
}

// ProbeWriter persists a probe report artifact.
type ProbeWriter interface {
	WriteProbe(ctx context.Context, artifact domain.ProbeArtifact) (string, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	SuiteRunner       SuiteRunner
	Loader            DefinitionLoader
	ProbeMarkdown     ProbeWriter
	ProbeJSON         ProbeWriter
	Args              Arguments
	DefaultOutput     string
	DefaultStrategies string
	DefaultCatalog    string
	DefaultSampleSize int
	Version           string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "pe",
		Short: "Prompt evaluation and injection-defense CLI",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	suiteCmd := &cobra.Command{
		Use:   "suite",
		Short: "Evaluate candidate outputs against rubric suites",
	}
	suiteCmd.AddCommand(suiteRunCommand(deps.SuiteRunner, deps.DefaultOutput))
	root.AddCommand(suiteCmd)

	defenseCmd := &cobra.Command{
		Use:   "defense",
		Short: "Simulate prompt-injection attacks against defense templates",
	}
	defenseCmd.AddCommand(simulateCommand(deps.Loader, deps.DefaultStrategies))
	defenseCmd.AddCommand(probeCommand(deps))
	root.AddCommand(defenseCmd)

	templateCmd := &cobra.Command{
		Use:   "template",
		Short: "Score defense templates for structural quality",
	}
	templateCmd.AddCommand(templateScoreCommand(deps.Loader, deps.DefaultStrategies))
	root.AddCommand(templateCmd)

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Validate candidate outputs against field schemas",
	}
	schemaCmd.AddCommand(schemaCheckCommand(deps.Loader))
	root.AddCommand(schemaCmd)

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func suiteRunCommand(runner SuiteRunner, defaultOutput string) *cobra.Command {
	var suiteName string
	var outputDir string
	var noArtifacts bool

	cmd := &cobra.Command{
		Use:   "run <suite-file>",
		Short: "Run a rubric suite and report pass rate and accuracy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if runner == nil {
				return fmt.Errorf("suite runner not configured")
			}

			resolvedOutput := outputDir
			if noArtifacts {
				resolvedOutput = ""
			}

			result, err := runner.RunSuiteFile(cmd.Context(), rubric.SuiteRequest{
				SuitePath: args[0],
				SuiteName: suiteName,
				OutputDir: resolvedOutput,
			})
			if err != nil {
				return err
			}

			renderSuiteResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&suiteName, "name", "", "Override the suite name from the file")
	if defaultOutput == "" {
		defaultOutput = "out"
	}
	cmd.Flags().StringVar(&outputDir, "output", defaultOutput, "Directory to write report artifacts")
	cmd.Flags().BoolVar(&noArtifacts, "no-artifacts", false, "Skip writing report files")

	return cmd
}

func simulateCommand(loader DefinitionLoader, defaultStrategies string) *cobra.Command {
	var strategyID string
	var templateFile string
	var strategiesPath string
	var input string
	var showPrompt bool

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one attack input against a defense template",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return fmt.Errorf("--input is required")
			}

			strategy, err := resolveStrategy(loader, strategyID, templateFile, strategiesPath)
			if err != nil {
				return err
			}

			if showPrompt {
				fmt.Fprintf(cmd.OutOrStdout(), "Rendered prompt:\n%s\n\n", strategy.Render(input))
			}

			result := defense.SimulateStrategy(strategy, input)
			renderSimulation(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyID, "strategy", "", "Strategy ID from the strategies file")
	cmd.Flags().StringVar(&templateFile, "template-file", "", "File holding a raw defense template (overrides --strategy)")
	cmd.Flags().StringVar(&strategiesPath, "strategies", defaultStrategies, "Strategies definition file")
	cmd.Flags().StringVar(&input, "input", "", "Attack input to embed in the template")
	cmd.Flags().BoolVar(&showPrompt, "show-prompt", false, "Print the template with the input spliced in")

	return cmd
}

func probeCommand(deps Dependencies) *cobra.Command {
	var strategyID string
	var templateFile string
	var strategiesPath string
	var catalogPath string
	var sampleSize int
	var outputDir string
	var noArtifacts bool

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Run the full attack catalog against a defense template",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			strategy, err := resolveStrategy(deps.Loader, strategyID, templateFile, strategiesPath)
			if err != nil {
				return err
			}

			vectors := defense.DefaultCatalog()
			catalogName := "default"
			if catalogPath != "" {
				if deps.Loader == nil {
					return fmt.Errorf("no definition loader configured")
				}
				vectors, err = deps.Loader.LoadCatalog(catalogPath)
				if err != nil {
					return err
				}
				catalogName = catalogPath
			}

			if sampleSize > 0 && sampleSize < len(vectors) {
				seed := determinism.GenerateSeed(strategy.ID, catalogName)
				vectors = defense.SampleCatalog(vectors, sampleSize, seed)
			}

			report := defense.Probe(strategy, vectors)
			renderProbe(cmd.OutOrStdout(), report)

			if noArtifacts || outputDir == "" {
				return nil
			}
			artifact := domain.ProbeArtifact{
				OutputDir: outputDir,
				Strategy:  strategy.ID,
				Report:    report,
			}
			if deps.ProbeMarkdown != nil {
				path, err := deps.ProbeMarkdown.WriteProbe(ctx, artifact)
				if err != nil {
					return fmt.Errorf("write markdown report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Markdown report: %s\n", path)
			}
			if deps.ProbeJSON != nil {
				path, err := deps.ProbeJSON.WriteProbe(ctx, artifact)
				if err != nil {
					return fmt.Errorf("write json report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "JSON report: %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyID, "strategy", "", "Strategy ID from the strategies file")
	cmd.Flags().StringVar(&templateFile, "template-file", "", "File holding a raw defense template (overrides --strategy)")
	cmd.Flags().StringVar(&strategiesPath, "strategies", deps.DefaultStrategies, "Strategies definition file")
	cmd.Flags().StringVar(&catalogPath, "catalog", deps.DefaultCatalog, "Attack catalog file (empty uses the built-in catalog)")
	cmd.Flags().IntVar(&sampleSize, "sample", deps.DefaultSampleSize, "Probe with a deterministic sample of this many vectors (0 uses all)")
	cmd.Flags().StringVar(&outputDir, "output", deps.DefaultOutput, "Directory to write report artifacts")
	cmd.Flags().BoolVar(&noArtifacts, "no-artifacts", false, "Skip writing report files")

	return cmd
}

func templateScoreCommand(loader DefinitionLoader, defaultStrategies string) *cobra.Command {
	var strategyID string
	var templateFile string
	var strategiesPath string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Check a defense template for recommended structural signals",
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := resolveStrategy(loader, strategyID, templateFile, strategiesPath)
			if err != nil {
				return err
			}

			card := template.ScoreStrategy(strategy)
			renderScorecard(cmd.OutOrStdout(), card)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyID, "strategy", "", "Strategy ID from the strategies file")
	cmd.Flags().StringVar(&templateFile, "template-file", "", "File holding a raw defense template (overrides --strategy)")
	cmd.Flags().StringVar(&strategiesPath, "strategies", defaultStrategies, "Strategies definition file")

	return cmd
}

func schemaCheckCommand(loader DefinitionLoader) *cobra.Command {
	var schemaPath string
	var outputFile string

	cmd := &cobra.Command{
		Use:   "check [output]",
		Short: "Validate a JSON output against a field schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if loader == nil {
				return fmt.Errorf("no definition loader configured")
			}
			if schemaPath == "" {
				return fmt.Errorf("--schema is required")
			}

			output, err := resolveOutput(args, outputFile)
			if err != nil {
				return err
			}

			spec, err := loader.LoadSchema(schemaPath)
			if err != nil {
				return err
			}

			result := schema.Validate(output, spec)
			renderSchemaResult(cmd.OutOrStdout(), result)
			if !result.Valid {
				return ErrSchemaMismatch
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "Schema definition file")
	cmd.Flags().StringVar(&outputFile, "file", "", "Read the output to check from a file instead of the argument")

	return cmd
}

// resolveStrategy picks the template source: an explicit file wins over a
// named strategy from the strategies file.
func resolveStrategy(loader DefinitionLoader, strategyID, templateFile, strategiesPath string) (domain.DefenseStrategy, error) {
	if templateFile != "" {
		data, err := os.ReadFile(templateFile)
		if err != nil {
			return domain.DefenseStrategy{}, fmt.Errorf("read template file: %w", err)
		}
		strategy := domain.DefenseStrategy{
			ID:       "inline",
			Name:     templateFile,
			Template: string(data),
		}
		if !strategy.HasPlaceholder() {
			return domain.DefenseStrategy{}, fmt.Errorf("template file %s has no %s placeholder", templateFile, domain.UserInputPlaceholder)
		}
		return strategy, nil
	}

	if strategyID == "" {
		return domain.DefenseStrategy{}, fmt.Errorf("specify --strategy or --template-file")
	}
	if loader == nil {
		return domain.DefenseStrategy{}, fmt.Errorf("no definition loader configured")
	}
	return loader.LoadStrategy(strategiesPath, strategyID)
}

func resolveOutput(args []string, outputFile string) (string, error) {
	if outputFile != "" {
		data, err := os.ReadFile(outputFile)
		if err != nil {
			return "", fmt.Errorf("read output file: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 1 {
		return args[0], nil
	}
	return "", fmt.Errorf("pass the output as an argument or use --file")
}
