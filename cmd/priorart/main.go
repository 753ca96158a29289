package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/deepnoodle-ai/priorart"
	"github.com/deepnoodle-ai/priorart/ops"
	"github.com/deepnoodle-ai/priorart/postgres"
)

// CLI configuration
type cliConfig struct {
	ConfigFile  string
	Description string
	InputFile   string
	MaxResults  int
	DataDir     string
	Verbose     bool
	JSON        bool
}

func main() {
	cli := parseFlags()

	description, err := readDescription(cli)
	if err != nil {
		color.Red("Error: %v", err)
		flag.Usage()
		os.Exit(1)
	}

	config := priorart.DefaultConfig()
	if cli.ConfigFile != "" {
		config, err = priorart.LoadConfig(cli.ConfigFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if cli.MaxResults > 0 {
		config.MaxResults = cli.MaxResults
	}
	if cli.DataDir != "" {
		config.DataDir = cli.DataDir
	}

	ctx := context.Background()

	store, cleanup, err := buildStore(ctx, config)
	if err != nil {
		log.Fatalf("Failed to set up session store: %v", err)
	}
	defer cleanup()

	operations := buildOperations(config)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	if cli.Verbose {
		logger = priorart.NewLogger()
	}

	timings := priorart.NewTimingCallbacks()

	engine, err := priorart.NewEngine(priorart.EngineOptions{
		Operations: operations,
		Store:      store,
		Logger:     logger,
		Callbacks:  timings,
		MaxResults: config.MaxResults,
	})
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	start, err := engine.Start(ctx, description, config.MaxResults)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	color.Green("Session started (ID: %s)", start.SessionID)

	review := start.Review
	for start.Status == priorart.SessionStatusSuspended {
		showReview(review)
		instruction, done := readInstruction()
		if done {
			if err := engine.Cancel(ctx, start.SessionID); err != nil {
				color.Red("Failed to cancel session: %v", err)
			}
			color.Yellow("Session cancelled")
			return
		}
		result, err := engine.Resume(ctx, start.SessionID, instruction)
		if err != nil {
			color.Red("Resume rejected: %v", err)
			continue
		}
		start.Status = result.Status
		review = result.Review
	}

	checkpoint, err := engine.Session(ctx, start.SessionID)
	if err != nil {
		log.Fatalf("Failed to load session: %v", err)
	}
	showResults(checkpoint, cli.JSON)

	if cli.Verbose {
		if summary := timings.Summary(start.SessionID); summary != nil {
			color.Magenta("\nStage timings:")
			for _, timing := range summary.Stages {
				fmt.Printf("  %-20s %s\n", timing.Stage, timing.Duration.Round(time.Millisecond))
			}
			fmt.Printf("  %-20s %s\n", "total", summary.Duration.Round(time.Millisecond))
		}
	}
}

func parseFlags() *cliConfig {
	cli := &cliConfig{}

	flag.StringVar(&cli.ConfigFile, "config", "", "Path to a YAML configuration file (optional)")
	flag.StringVar(&cli.Description, "description", "", "Invention description text")
	flag.StringVar(&cli.Description, "d", "", "Invention description text (shorthand)")
	flag.StringVar(&cli.InputFile, "file", "", "Read the invention description from a file")
	flag.StringVar(&cli.InputFile, "f", "", "Read the invention description from a file (shorthand)")
	flag.IntVar(&cli.MaxResults, "max", 0, "Maximum number of patent results")
	flag.StringVar(&cli.DataDir, "data", "", "Directory for persisted sessions (optional)")
	flag.BoolVar(&cli.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&cli.Verbose, "v", false, "Enable verbose logging (shorthand)")
	flag.BoolVar(&cli.JSON, "json", false, "Output results in JSON format")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Prior-Art Search - generate patent search queries from an invention description

Usage: %s [options] -description "..."

Examples:
  # Search from an inline description
  %s -description "A wearable device for continuous health monitoring"

  # Read the description from a file, persist sessions to disk
  %s -file invention.txt -data ./sessions

The pipeline pauses once for keyword review: respond with accept, edit,
reject, or quit at the prompt.

Options:
`, os.Args[0], os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()
	return cli
}

func readDescription(cli *cliConfig) (string, error) {
	if cli.Description != "" {
		return cli.Description, nil
	}
	if cli.InputFile != "" {
		data, err := os.ReadFile(cli.InputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read description file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return "", fmt.Errorf("an invention description is required")
}

func buildStore(ctx context.Context, config *priorart.Config) (priorart.SessionStore, func(), error) {
	switch {
	case config.PostgresDSN != "":
		store, err := postgres.Open(ctx, config.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case config.DataDir != "":
		store, err := priorart.NewFileSessionStore(config.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		return priorart.NewMemorySessionStore(), func() {}, nil
	}
}

func buildOperations(config *priorart.Config) priorart.Operations {
	offline := ops.NewOffline()
	operations := offline.Operations()
	if config.ClassifierURL != "" {
		classifier, err := ops.NewIPCCATClient(ops.IPCCATOptions{
			BaseURL:     config.ClassifierURL,
			Predictions: config.Predictions,
		})
		if err != nil {
			color.Yellow("Ignoring classifier URL: %v", err)
		} else {
			operations.Classifier = classifier
		}
	}
	return operations
}

func showReview(review *priorart.ReviewPayload) {
	fmt.Println()
	color.Cyan(review.Task)
	fmt.Println(review.Formatted)
	fmt.Println()
	color.White(review.Instructions)
}

// readInstruction prompts until it gets a usable action. The second return
// value is true when the user asked to quit.
func readInstruction() (priorart.ResumeInstruction, bool) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("\naction [accept/edit/reject/quit]: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return priorart.ResumeInstruction{}, true
		}
		switch action := strings.ToLower(strings.TrimSpace(line)); action {
		case "quit", "q":
			return priorart.ResumeInstruction{}, true
		case "accept", "reject":
			return priorart.ResumeInstruction{Action: priorart.ResumeAction(action)}, false
		case "edit":
			keywords, ok := readEditedKeywords(reader)
			if !ok {
				continue
			}
			return priorart.ResumeInstruction{
				Action:   priorart.ResumeActionEdit,
				Keywords: keywords,
			}, false
		default:
			color.Yellow("Unknown action %q", action)
		}
	}
}

// readEditedKeywords collects replacement keywords, one comma-separated line
// per category. An empty line keeps the current keywords for that category.
func readEditedKeywords(reader *bufio.Reader) (*priorart.KeywordSet, bool) {
	keywords := &priorart.KeywordSet{}
	for _, category := range priorart.Categories() {
		fmt.Printf("%s (comma-separated, empty keeps current): ", category)
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, false
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var terms []string
		for _, term := range strings.Split(line, ",") {
			if term = strings.TrimSpace(term); term != "" {
				terms = append(terms, term)
			}
		}
		keywords.SetCategory(category, terms)
	}
	return keywords, true
}

func showResults(checkpoint *priorart.Checkpoint, asJSON bool) {
	state := checkpoint.State
	fmt.Println()
	if checkpoint.Status == priorart.SessionStatusFailed {
		color.Red("Session ended without queries")
	} else {
		color.Green("Session completed")
	}

	if asJSON {
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			log.Fatalf("Failed to format results: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	if len(state.ClassificationCodes) > 0 {
		color.Magenta("\nClassification codes:")
		fmt.Println("  " + strings.Join(state.ClassificationCodes, ", "))
	}
	if len(state.SearchQueries) > 0 {
		color.Magenta("\nSearch queries:")
		for i, query := range state.SearchQueries {
			fmt.Printf("  %d. %s\n", i+1, query)
		}
	}
	if len(state.FinalResults) > 0 {
		color.Magenta("\nRanked results:")
		for _, result := range state.FinalResults {
			fmt.Printf("  %.2f  %s (%s)\n", result.Similarity, result.Title, result.Number)
		}
	}
	if len(state.Errors) > 0 {
		color.Yellow("\nRecorded errors:")
		for _, msg := range state.Errors {
			fmt.Println("  - " + msg)
		}
	}
}
