package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/terrarium/config"
)

// OutputManager handles structured experiment output with CSV logging.
// A nil manager is valid and writes nothing, so callers can pass the
// result of NewOutputManager("") through unconditionally.
type OutputManager struct {
	dir           string
	telemetryFile *os.File
	diversityFile *os.File

	// Track if headers have been written
	telemetryHeaderWritten bool
	diversityHeaderWritten bool
}

// diversityRow flattens one region's diversity snapshot for CSV output.
type diversityRow struct {
	Tick     int64   `csv:"tick"`
	Col      int     `csv:"col"`
	Row      int     `csv:"row"`
	Count    int     `csv:"count"`
	Richness int     `csv:"richness"`
	Shannon  float64 `csv:"shannon"`
}

// NewOutputManager creates an output manager rooted at dir.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	om.telemetryFile = f

	f, err = os.Create(filepath.Join(dir, "diversity.csv"))
	if err != nil {
		om.telemetryFile.Close()
		return nil, fmt.Errorf("creating diversity.csv: %w", err)
	}
	om.diversityFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML alongside the CSVs
// so a run's output is reproducible.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}

	records := []WindowStats{stats}

	if !om.telemetryHeaderWritten {
		if err := gocsv.Marshal(records, om.telemetryFile); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		om.telemetryHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.telemetryFile); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
	}

	return nil
}

// WriteDiversity writes the regional diversity snapshot to diversity.csv.
func (om *OutputManager) WriteDiversity(tick int64, regions []RegionDiversity) error {
	if om == nil || len(regions) == 0 {
		return nil
	}

	rows := make([]diversityRow, len(regions))
	for i, r := range regions {
		rows[i] = diversityRow{
			Tick:     tick,
			Col:      r.Col,
			Row:      r.Row,
			Count:    r.Count,
			Richness: r.Richness,
			Shannon:  r.Shannon,
		}
	}

	if !om.diversityHeaderWritten {
		if err := gocsv.Marshal(rows, om.diversityFile); err != nil {
			return fmt.Errorf("writing diversity: %w", err)
		}
		om.diversityHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(rows, om.diversityFile); err != nil {
			return fmt.Errorf("writing diversity: %w", err)
		}
	}

	return nil
}

// Close flushes and closes the output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	if err := om.telemetryFile.Close(); err != nil {
		firstErr = err
	}
	if err := om.diversityFile.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
