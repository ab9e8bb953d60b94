package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/netechos/internal/dynamo"
	"github.com/san-kum/netechos/internal/metrics"
)

type ExportData struct {
	Run       RunMetadata       `json:"run"`
	Summaries []metrics.Summary `json:"summaries"`
	Attitudes []dynamo.Vector   `json:"attitudes"`
	// Adjacency is the final matrix; absent for summary-mode runs.
	Adjacency [][]float64 `json:"adjacency,omitempty"`
}

// ExportJSON writes a saved run as a single JSON document.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	data := ExportData{Run: *meta}

	if data.Summaries, err = s.LoadSummary(runID); err != nil {
		return err
	}
	if data.Attitudes, err = s.LoadAttitudes(runID); err != nil {
		return err
	}
	if meta.Record != "summary" {
		a, err := s.LoadAdjacency(runID)
		if err != nil {
			return err
		}
		data.Adjacency = a.Rows()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes the attitude trajectory in wide format: one row per step
// with a column per node.
func (s *Store) ExportCSV(runID string, w io.Writer) error {
	track, err := s.LoadAttitudes(runID)
	if err != nil {
		return err
	}
	if len(track) == 0 {
		return fmt.Errorf("%s: no data to export", runID)
	}

	cw := csv.NewWriter(w)
	header := []string{"step"}
	for i := range track[0] {
		header = append(header, fmt.Sprintf("theta%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for step, theta := range track {
		row := []string{strconv.Itoa(step)}
		for _, v := range theta {
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
