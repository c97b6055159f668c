package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/mnv/internal/linalg"
)

func testMeta() RunMetadata {
	return RunMetadata{
		Name:       "posdef",
		Seed:       42,
		Precision:  "float64",
		Covariance: [][]float64{{2, -1}, {-1, 1}},
		Mean:       []float64{1, 1},
		Metrics:    map[string]float64{"mean_error": 0.25},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	draws := [][]float64{
		{1.0, 0.5},
		{0.9, -0.1},
		{1.0 / 3, 2e-17},
	}

	runID, err := st.Save(testMeta(), draws)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "posdef_42_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != runID {
		t.Errorf("expected id %s, got %s", runID, meta.ID)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Samples != 3 {
		t.Errorf("expected 3 samples, got %d", meta.Samples)
	}
	if meta.Dim() != 2 {
		t.Errorf("expected dim 2, got %d", meta.Dim())
	}
	if meta.Metrics["mean_error"] != 0.25 {
		t.Errorf("expected mean_error 0.25, got %f", meta.Metrics["mean_error"])
	}

	got, err := st.LoadDraws(runID)
	if err != nil {
		t.Fatalf("load draws failed: %v", err)
	}
	if len(got) != len(draws) {
		t.Fatalf("expected %d draws, got %d", len(draws), len(got))
	}
	for i := range draws {
		for j := range draws[i] {
			if got[i][j] != draws[i][j] {
				t.Errorf("draw (%d,%d): expected %v, got %v", i, j, draws[i][j], got[i][j])
			}
		}
	}
}

func TestStoreSameSecondRuns(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	first, err := st.Save(testMeta(), [][]float64{{1, 2}})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(testMeta(), [][]float64{{3, 4}})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct run ids, both %s", first)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(testMeta(), [][]float64{{1, 2}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "stray"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testMeta(), [][]float64{{1, 2}})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, drawsFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, runID, drawsFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "x0,x1\n") {
		t.Errorf("unexpected csv header in %q", data)
	}
}

func TestStoreExport(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	runID, err := st.Save(testMeta(), [][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.Export(runID, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var doc struct {
		ID    string      `json:"id"`
		Seed  uint64      `json:"seed"`
		Draws [][]float64 `json:"draws"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}
	if doc.ID != runID || doc.Seed != 42 || len(doc.Draws) != 2 {
		t.Errorf("unexpected export %+v", doc)
	}
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		rows    int
		wantErr bool
	}{
		{"with header", "a,b,c\n1,2,3\n4,5,6\n", 2, false},
		{"without header", "1,2,3\n4,5,6\n", 2, false},
		{"spaces", "1, 2, 3\n", 1, false},
		{"empty", "", 0, false},
		{"bad row", "x,y\n1,2\nfoo,3\n", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ReadCSV(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(rows) != tt.rows {
				t.Errorf("expected %d rows, got %d", tt.rows, len(rows))
			}
		})
	}
}

func TestWriteCSVRaggedRow(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, 2, [][]float64{{1, 2}, {3}}); err == nil {
		t.Error("expected error for ragged row")
	}
}

func TestRows(t *testing.T) {
	rows := Rows([]linalg.Vector[float32]{{1.5, 2}, {-3, 0.25}})
	if len(rows) != 2 || rows[1][0] != -3 || rows[0][0] != 1.5 {
		t.Errorf("unexpected rows %v", rows)
	}
}
