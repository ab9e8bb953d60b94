package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/netechos/internal/dynamo"
	"github.com/san-kum/netechos/internal/metrics"
	"github.com/san-kum/netechos/internal/sim"
	"github.com/san-kum/netechos/internal/topology"
)

const (
	metadataFile  = "metadata.json"
	summaryFile   = "summary.csv"
	attitudesFile = "attitudes.csv"
	adjacencyFile = "adjacency_final.csv"
)

// ErrRunNotFound is returned when a run directory has no metadata.
var ErrRunNotFound = errors.New("run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	UUID         string             `json:"uuid"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         int64              `json:"seed"`
	Nodes        int                `json:"nodes"`
	Steps        int                `json:"steps"`
	StepsTaken   int                `json:"steps_taken"`
	Alpha        float64            `json:"alpha"`
	Beta         float64            `json:"beta"`
	WeightRule   string             `json:"weight_rule"`
	Interaction  string             `json:"interaction"`
	Distribution string             `json:"distribution"`
	Loc          float64            `json:"loc"`
	Sigma        float64            `json:"sigma"`
	Topology     topology.Spec      `json:"topology"`
	Record       string             `json:"record"`
	Termination  string             `json:"termination"`
	Condition    string             `json:"condition,omitempty"`
	Metrics      map[string]float64 `json:"metrics"`
}

func newMetadata(cfg sim.Config, res *sim.Result) RunMetadata {
	id := uuid.New()
	name := cfg.Topology.Name
	if name == "" {
		name = "run"
	}
	return RunMetadata{
		ID:           fmt.Sprintf("%s_%s", name, strings.SplitN(id.String(), "-", 2)[0]),
		UUID:         id.String(),
		Timestamp:    time.Now(),
		Seed:         res.Seed,
		Nodes:        cfg.Nodes,
		Steps:        cfg.Steps,
		StepsTaken:   res.StepsTaken,
		Alpha:        cfg.Params.Alpha,
		Beta:         cfg.Params.Beta,
		WeightRule:   string(cfg.Params.Weights),
		Interaction:  string(res.Interaction),
		Distribution: cfg.Attitudes.Distribution,
		Loc:          cfg.Attitudes.Loc,
		Sigma:        cfg.Attitudes.Sigma,
		Topology:     cfg.Topology,
		Record:       string(cfg.Record),
		Termination:  string(res.Termination.Reason),
		Condition:    res.Termination.Condition,
		Metrics:      res.Metrics,
	}
}

// Save writes a run directory and returns its ID. The final adjacency is
// only written for runs recorded in full.
func (s *Store) Save(cfg sim.Config, res *sim.Result) (string, error) {
	meta := newMetadata(cfg, res)
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, summaryFile), summaryRows(res.Summaries)); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, attitudesFile), attitudeRows(res.Attitudes)); err != nil {
		return "", err
	}
	if cfg.Record != sim.RecordSummary && res.Final.Nodes() > 0 {
		if err := writeCSV(filepath.Join(runDir, adjacencyFile), matrixRows(res.Final.Adjacency)); err != nil {
			return "", err
		}
	}

	return meta.ID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSummary(runID string) ([]metrics.Summary, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, summaryFile))
	if err != nil {
		return nil, err
	}

	out := make([]metrics.Summary, 0, len(records))
	for i, rec := range records {
		if len(rec) != len(summaryHeader) {
			return nil, fmt.Errorf("%s line %d: %d fields, want %d", summaryFile, i+2, len(rec), len(summaryHeader))
		}
		vals, err := parseFloats(rec[1 : len(rec)-1])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", summaryFile, i+2, err)
		}
		step, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", summaryFile, i+2, err)
		}
		count, err := strconv.Atoi(rec[len(rec)-1])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", summaryFile, i+2, err)
		}
		out = append(out, metrics.Summary{
			Step:             step,
			AttitudeMean:     vals[0],
			AttitudeSD:       vals[1],
			AttitudeMedian:   vals[2],
			ConnectionMean:   vals[3],
			ConnectionSD:     vals[4],
			ConnectionMedian: vals[5],
			Polarization:     vals[6],
			Spread:           vals[7],
			Interactions:     count,
		})
	}
	return out, nil
}

// LoadAttitudes rebuilds the per-step attitude vectors from the long-format
// tracker file.
func (s *Store) LoadAttitudes(runID string) ([]dynamo.Vector, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, attitudesFile))
	if err != nil {
		return nil, err
	}

	var out []dynamo.Vector
	for i, rec := range records {
		if len(rec) != 3 {
			return nil, fmt.Errorf("%s line %d: %d fields, want 3", attitudesFile, i+2, len(rec))
		}
		step, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", attitudesFile, i+2, err)
		}
		node, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", attitudesFile, i+2, err)
		}
		theta, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", attitudesFile, i+2, err)
		}
		for len(out) <= step {
			out = append(out, nil)
		}
		for len(out[step]) <= node {
			out[step] = append(out[step], 0)
		}
		out[step][node] = theta
	}
	return out, nil
}

// LoadAdjacency reads the final adjacency of a full-mode run.
func (s *Store) LoadAdjacency(runID string) (dynamo.Matrix, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, adjacencyFile))
	if err != nil {
		return dynamo.Matrix{}, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return dynamo.Matrix{}, err
	}
	rows := make([][]float64, len(records))
	for i, rec := range records {
		if rows[i], err = parseFloats(rec); err != nil {
			return dynamo.Matrix{}, fmt.Errorf("%s row %d: %w", adjacencyFile, i, err)
		}
	}
	return dynamo.MatrixFromRows(rows)
}

var summaryHeader = []string{
	"step",
	"attitude_mean", "attitude_sd", "attitude_median",
	"connection_mean", "connection_sd", "connection_median",
	"polarization", "spread", "interactions",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func summaryRows(summaries []metrics.Summary) [][]string {
	rows := make([][]string, 0, len(summaries)+1)
	rows = append(rows, summaryHeader)
	for _, s := range summaries {
		rows = append(rows, []string{
			strconv.Itoa(s.Step),
			formatFloat(s.AttitudeMean), formatFloat(s.AttitudeSD), formatFloat(s.AttitudeMedian),
			formatFloat(s.ConnectionMean), formatFloat(s.ConnectionSD), formatFloat(s.ConnectionMedian),
			formatFloat(s.Polarization), formatFloat(s.Spread),
			strconv.Itoa(s.Interactions),
		})
	}
	return rows
}

func attitudeRows(track []dynamo.Vector) [][]string {
	rows := [][]string{{"step", "node", "attitude"}}
	for step, theta := range track {
		for node, v := range theta {
			rows = append(rows, []string{strconv.Itoa(step), strconv.Itoa(node), formatFloat(v)})
		}
	}
	return rows
}

func matrixRows(m dynamo.Matrix) [][]string {
	rows := make([][]string, m.Size())
	for i := range rows {
		row := m.Row(i)
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = formatFloat(v)
		}
	}
	return rows
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

// readCSV returns the records after the header line.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
