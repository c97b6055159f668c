package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/mnv/internal/linalg"
)

const (
	metadataFile = "metadata.json"
	drawsFile    = "draws.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one sampling run. Covariance and Mean are the
// distribution the generator was built for, not estimates from the draws.
type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       uint64             `json:"seed"`
	Samples    int                `json:"samples"`
	Precision  string             `json:"precision"`
	Covariance [][]float64        `json:"covariance"`
	Mean       []float64          `json:"mean"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Dim is the dimension of the run's vectors.
func (m RunMetadata) Dim() int { return len(m.Mean) }

// Save writes meta and draws under a new run directory and returns its ID.
// meta.ID, Timestamp and Samples are filled in.
func (s *Store) Save(meta RunMetadata, draws [][]float64) (string, error) {
	if meta.Name == "" {
		meta.Name = "run"
	}
	now := time.Now()
	runID, runDir, err := s.reserve(fmt.Sprintf("%s_%d_%d", meta.Name, meta.Seed, now.Unix()))
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Samples = len(draws)
	if meta.Metrics == nil {
		meta.Metrics = map[string]float64{}
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, drawsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	dim := meta.Dim()
	if dim == 0 && len(draws) > 0 {
		dim = len(draws[0])
	}
	if err := WriteCSV(csvFile, dim, draws); err != nil {
		return "", fmt.Errorf("write draws: %w", err)
	}
	return runID, nil
}

// reserve creates a fresh directory for base, suffixing -1, -2, ... when a
// run with the same name already exists.
func (s *Store) reserve(base string) (string, string, error) {
	id := base
	for i := 1; ; i++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		id = fmt.Sprintf("%s-%d", base, i)
	}
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
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadDraws(runID string) ([][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, drawsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

type exportData struct {
	RunMetadata
	Draws [][]float64 `json:"draws"`
}

// Export writes a run's metadata and draws to w as one JSON document.
func (s *Store) Export(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	draws, err := s.LoadDraws(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData{RunMetadata: *meta, Draws: draws})
}

// Rows widens typed vectors to the float64 rows the store persists.
func Rows[T linalg.Float](draws []linalg.Vector[T]) [][]float64 {
	rows := make([][]float64, len(draws))
	for i, d := range draws {
		row := make([]float64, len(d))
		for j, v := range d {
			row[j] = float64(v)
		}
		rows[i] = row
	}
	return rows
}

// WriteCSV writes a header x0..x{dim-1} followed by one row per vector.
func WriteCSV(w io.Writer, dim int, rows [][]float64) error {
	cw := csv.NewWriter(w)

	header := make([]string, dim)
	for i := range header {
		header[i] = fmt.Sprintf("x%d", i)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, dim)
	for _, row := range rows {
		if len(row) != dim {
			return fmt.Errorf("row has %d values, expected %d", len(row), dim)
		}
		for j, v := range row {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses numeric rows. A first row that does not parse as numbers is
// taken to be a header and skipped.
func ReadCSV(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, 0, len(records))
	for i, record := range records {
		row, err := parseRecord(record)
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(record []string) ([]float64, error) {
	row := make([]float64, len(record))
	for j, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		row[j] = v
	}
	return row, nil
}
