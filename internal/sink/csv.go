package sink

import (
	"context"
	"encoding/csv"
	"os"

	"github.com/jonathan/faculty-digest/internal/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVSink writes profiles to a UTF-8 CSV file with a byte-order mark and the
// fixed columns of types.CSVHeader. The file is created only when Save runs.
type CSVSink struct {
	Path string
}

// NewCSVSink returns a sink writing to path.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{Path: path}
}

// Location returns the output path.
func (s *CSVSink) Location() string {
	return s.Path
}

// Save creates or truncates the file and writes one row per profile.
func (s *CSVSink) Save(ctx context.Context, profiles []types.FacultyProfile) error {
	if err := ctx.Err(); err != nil {
		return &WriteError{Location: s.Path, Message: "cancelled before write", Cause: err}
	}

	f, err := os.Create(s.Path)
	if err != nil {
		return &WriteError{Location: s.Path, Message: "failed to create file", Cause: err}
	}

	if err := writeCSV(f, profiles); err != nil {
		_ = f.Close()
		return &WriteError{Location: s.Path, Message: "failed to write records", Cause: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Location: s.Path, Message: "failed to close file", Cause: err}
	}
	return nil
}

func writeCSV(f *os.File, profiles []types.FacultyProfile) error {
	if _, err := f.Write(utf8BOM); err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(types.CSVHeader); err != nil {
		return err
	}
	for i := range profiles {
		if err := w.Write(profiles[i].CSVRecord()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
