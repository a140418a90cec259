package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// MatchRecord is one finished match keyed for the CSV output.
type MatchRecord struct {
	ID string // uuid
	MatchMetric
}

// MoveRecord ties a per-move search metric to its match.
type MoveRecord struct {
	Match string // MatchRecord.ID
	MoveMetric
}

// NewMatchID tags a match for cross-referencing the two CSV files.
func NewMatchID() string {
	return uuid.NewString()
}

// Writer dumps match and move records under a timestamped run directory.
type Writer struct {
	baseDir string
}

func NewWriter(root string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(root, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create metrics directory: %w", err)
	}
	return &Writer{baseDir: baseDir}, nil
}

func (w *Writer) BaseDir() string {
	return w.baseDir
}

func (w *Writer) WriteMatchRecords(records []MatchRecord) error {
	f, err := os.Create(filepath.Join(w.baseDir, "match_records.csv"))
	if err != nil {
		return fmt.Errorf("failed to create match records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"id", "starting_player", "winner", "plies", "start_time", "end_time", "duration"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write match records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.ID,
			record.StartingPlayer,
			record.Winner,
			strconv.Itoa(record.Plies),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write match record row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	f, err := os.Create(filepath.Join(w.baseDir, "move_records.csv"))
	if err != nil {
		return fmt.Errorf("failed to create move records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"match", "ply", "player", "iterations", "playouts", "expansions", "transpositions", "graph_reused", "duration"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write move records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.Match,
			strconv.Itoa(record.Ply),
			record.Player,
			strconv.Itoa(record.Iterations),
			strconv.Itoa(record.Playouts),
			strconv.Itoa(record.Expansions),
			strconv.Itoa(record.Transpositions),
			strconv.FormatBool(record.GraphReused),
			record.Duration.String(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write move record row: %w", err)
		}
	}

	return nil
}
