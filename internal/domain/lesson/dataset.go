package lesson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/lessonqa/internal/domain"
)

// Dataset is the ordered, read-only set of lesson records loaded at startup.
type Dataset struct {
	records []Record
}

// NewDataset creates a Dataset from records, copying the slice.
func NewDataset(records ...Record) Dataset {
	out := make([]Record, len(records))
	copy(out, records)
	return Dataset{records: out}
}

// Load decodes a JSON array of flat objects.
// Any decoding failure is wrapped with domain.ErrInvalidDataset.
func Load(r io.Reader) (Dataset, error) {
	var records []Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return Dataset{}, fmt.Errorf("%w: %w", domain.ErrInvalidDataset, err)
	}
	if records == nil {
		return Dataset{}, fmt.Errorf("%w: expected a JSON array", domain.ErrInvalidDataset)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return Dataset{}, fmt.Errorf("%w: unexpected data after the array", domain.ErrInvalidDataset)
	}
	return Dataset{records: records}, nil
}

// LoadFile reads and decodes the dataset file at path.
func LoadFile(path string) (Dataset, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: open %s: %w", domain.ErrInvalidDataset, path, err)
	}
	defer func() { _ = f.Close() }()

	ds, err := Load(f)
	if err != nil {
		return Dataset{}, fmt.Errorf("load %s: %w", path, err)
	}
	return ds, nil
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.records) }

// Records returns the records in insertion order.
func (d Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Head returns at most n records from the start of the dataset.
func (d Dataset) Head(n int) []Record {
	if n <= 0 {
		return nil
	}
	if n > len(d.records) {
		n = len(d.records)
	}
	out := make([]Record, n)
	copy(out, d.records[:n])
	return out
}

// Fields returns the keys of the first record, or nil for an empty dataset.
// Records are assumed to share one schema.
func (d Dataset) Fields() []string {
	if len(d.records) == 0 {
		return nil
	}
	return d.records[0].Keys()
}
