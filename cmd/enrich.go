package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/naka-gawa/repo-enricher/internal/config"
	"github.com/naka-gawa/repo-enricher/internal/gateway"
	"github.com/naka-gawa/repo-enricher/internal/usecase"
	"github.com/spf13/cobra"
)

const (
	inputPrompt     = "Enter the path to the input CSV file: "
	outputDirPrompt = "Enter the path to the output folder: "
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fetches stars, forks and URL for every repository in a CSV file",
	Long: `Reads a CSV file whose rows are "repo,owner" (the first row is a header),
fetches each repository from the GitHub API and writes output.csv and log.txt
to the output directory. Paths not given as flags are asked for interactively.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, fmt.Sprintf("[%s] ", uuid.NewString()), log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		inputPath, _ := cmd.Flags().GetString("input")
		outputDir, _ := cmd.Flags().GetString("output-dir")

		return runEnrich(context.Background(), cmd.InOrStdin(), cmd.OutOrStdout(), inputPath, outputDir, logger)
	},
}

// runEnrich gathers any missing paths from in, runs one batch and reports the
// artifact paths on out.
func runEnrich(ctx context.Context, in io.Reader, out io.Writer, inputPath, outputDir string, logger *log.Logger) error {
	reader := bufio.NewReader(in)
	inputPath, err := promptIfEmpty(reader, out, inputPath, inputPrompt)
	if err != nil {
		return err
	}
	outputDir, err = promptIfEmpty(reader, out, outputDir, outputDirPrompt)
	if err != nil {
		return err
	}

	cfg, err := config.Load(inputPath, outputDir)
	if err != nil {
		return err
	}

	// Inject dependencies and run the main business logic.
	githubGateway, err := gateway.NewGitHubGateway(cfg.APIBaseURL, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	processor := usecase.NewProcessor(githubGateway, logger)

	result, err := processor.Process(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to process %s: %w", cfg.InputPath, err)
	}

	s := result.Summary
	logger.Printf("Summary: %d rows read, %d dropped, %d succeeded, %d failed, stars total=%.0f mean=%.1f median=%.1f",
		s.RowsRead, s.DroppedRows, s.Succeeded, s.Failed, s.TotalStars, s.MeanStars, s.MedianStars)

	fmt.Fprintf(out, "Output CSV file saved to: %s\n", result.OutputPath)
	fmt.Fprintf(out, "Log file saved to: %s\n", result.LogPath)
	return nil
}

// promptIfEmpty returns value unchanged when set, otherwise asks for it on out
// and reads one line from reader. Only the line terminator is removed; a blank
// answer is returned as "".
func promptIfEmpty(reader *bufio.Reader, out io.Writer, value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(out, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read answer to %q: %w", strings.TrimSpace(prompt), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	rootCmd.AddCommand(enrichCmd)
	enrichCmd.Flags().StringP("input", "i", "", "Path to the input CSV file (prompted for if omitted)")
	enrichCmd.Flags().StringP("output-dir", "o", "", "Directory for output.csv and log.txt (prompted for if omitted; blank means the working directory)")
}
