// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/repo-enricher/internal/config"
	"github.com/naka-gawa/repo-enricher/internal/domain"
	"github.com/naka-gawa/repo-enricher/internal/gateway"
)

// ErrEmptyInput is returned when the input file lacks even a header row.
var ErrEmptyInput = errors.New("input file has no header row")

// Result holds the artifacts and counters of a finished run.
type Result struct {
	OutputPath string
	LogPath    string
	Summary    domain.Summary
}

// Processor is the use case for enriching a table of repositories.
// It reads the input, fetches metadata row by row and writes the results.
type Processor struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
	now     func() time.Time
}

// NewProcessor creates a new Processor instance.
func NewProcessor(fetcher gateway.Fetcher, logger *log.Logger) *Processor {
	return &Processor{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// Process runs one batch. Fetches happen strictly in input order, one at a time.
// Any error returned is fatal; files already written are left as they are.
func (p *Processor) Process(ctx context.Context, cfg *config.Config) (*Result, error) {
	p.logger.Println("Usecase: Reading input table...")
	requests, summary, err := readRequests(cfg.InputPath)
	if err != nil {
		return nil, err
	}
	if summary.DroppedRows > 0 {
		p.logger.Printf("Usecase: Ignored %d row(s) without exactly two columns.", summary.DroppedRows)
	}

	outFile, err := os.Create(cfg.OutputPath())
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	logFile, err := os.Create(cfg.LogPath())
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	table := csv.NewWriter(outFile)
	table.UseCRLF = true
	if err := writeRecord(table, domain.OutputHeader); err != nil {
		return nil, err
	}

	var stars []float64
	for i, req := range requests {
		p.logger.Printf("Usecase: [%d/%d] %s", i+1, len(requests), req.FullName())
		if err := p.appendLog(logFile, "Fetching info for "+req.FullName()); err != nil {
			return nil, err
		}

		info, err := p.fetcher.FetchRepoMetadata(ctx, req.UserName, req.RepoName)
		switch {
		case errors.Is(err, gateway.ErrRepoUnavailable), err == nil && info == nil:
			summary.Failed++
			if err := p.appendLog(logFile, "Failed to process "+req.FullName()); err != nil {
				return nil, err
			}
			continue
		case err != nil:
			return nil, fmt.Errorf("failed to fetch %s: %w", req.FullName(), err)
		}

		if err := writeRecord(table, domain.NewOutputRow(req, *info).Record()); err != nil {
			return nil, err
		}
		summary.Succeeded++
		stars = append(stars, float64(info.StargazersCount))
		if err := p.appendLog(logFile, "Successfully processed "+req.FullName()); err != nil {
			return nil, err
		}
	}

	summarizeStars(&summary, stars)
	p.logger.Printf("Usecase: Processing complete. %d succeeded, %d failed.", summary.Succeeded, summary.Failed)

	return &Result{
		OutputPath: cfg.OutputPath(),
		LogPath:    cfg.LogPath(),
		Summary:    summary,
	}, nil
}

// readRequests loads the whole input table. The first record is a header and
// is skipped; records without exactly two fields are dropped.
func readRequests(path string) ([]domain.RepoRequest, domain.Summary, error) {
	var summary domain.Summary

	f, err := os.Open(path)
	if err != nil {
		return nil, summary, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, summary, ErrEmptyInput
		}
		return nil, summary, fmt.Errorf("failed to read input header: %w", err)
	}

	var requests []domain.RepoRequest
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, summary, fmt.Errorf("failed to read input file: %w", err)
		}
		summary.RowsRead++
		if len(record) != 2 {
			summary.DroppedRows++
			continue
		}
		requests = append(requests, domain.RepoRequest{RepoName: record[0], UserName: record[1]})
	}
	summary.ValidRows = len(requests)
	return requests, summary, nil
}

func (p *Processor) appendLog(w io.Writer, message string) error {
	entry := domain.LogEntry{Timestamp: p.now(), Message: message}
	if _, err := fmt.Fprintln(w, entry.String()); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}
	return nil
}

func writeRecord(w *csv.Writer, record []string) error {
	if err := w.Write(record); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func summarizeStars(summary *domain.Summary, stars []float64) {
	if len(stars) == 0 {
		return
	}
	// stats only fails on empty input, which is excluded above.
	summary.TotalStars, _ = stats.Sum(stars)
	summary.MeanStars, _ = stats.Mean(stars)
	summary.MedianStars, _ = stats.Median(stars)
}
