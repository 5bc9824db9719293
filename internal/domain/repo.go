// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"fmt"
	"strconv"
	"time"
)

// LogTimestampLayout is the timestamp format used for each line of the activity log.
const LogTimestampLayout = "2006-01-02 15:04:05.000000"

// OutputHeader is the header row of the results table. It is always written,
// even when no repository could be fetched.
var OutputHeader = []string{"Repo Name", "User Name", "Stars", "Forks", "URL"}

// RepoRequest is a single (repository, owner) pair parsed from the input table.
type RepoRequest struct {
	RepoName string
	UserName string
}

// FullName returns the "owner/repo" form used in log messages.
func (r RepoRequest) FullName() string {
	return r.UserName + "/" + r.RepoName
}

// RepoInfo holds the repository metadata returned by a successful fetch.
type RepoInfo struct {
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	HTMLURL         string `json:"html_url"`
}

// OutputRow is one enriched row of the results table.
type OutputRow struct {
	RepoName string
	UserName string
	Stars    int
	Forks    int
	URL      string
}

// NewOutputRow combines a request with the metadata fetched for it.
func NewOutputRow(req RepoRequest, info RepoInfo) OutputRow {
	return OutputRow{
		RepoName: req.RepoName,
		UserName: req.UserName,
		Stars:    info.StargazersCount,
		Forks:    info.ForksCount,
		URL:      info.HTMLURL,
	}
}

// Record renders the row as CSV fields in header order.
func (r OutputRow) Record() []string {
	return []string{r.RepoName, r.UserName, strconv.Itoa(r.Stars), strconv.Itoa(r.Forks), r.URL}
}

// LogEntry is a single line of the activity log.
type LogEntry struct {
	Timestamp time.Time
	Message   string
}

func (e LogEntry) String() string {
	return fmt.Sprintf("%s: %s", e.Timestamp.Format(LogTimestampLayout), e.Message)
}

// Summary describes the outcome of a single batch run.
type Summary struct {
	RowsRead    int `json:"rows_read"`
	ValidRows   int `json:"valid_rows"`
	DroppedRows int `json:"dropped_rows"`
	Succeeded   int `json:"succeeded"`
	Failed      int `json:"failed"`

	TotalStars  float64 `json:"total_stars"`
	MeanStars   float64 `json:"mean_stars"`
	MedianStars float64 `json:"median_stars"`
}
