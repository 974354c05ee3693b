// Package seriesio stores statistic series as flat arrays of little-endian
// float64 values, with no header and no delimiter. The files can be read
// directly by array tools such as numpy.fromfile.
package seriesio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

const valueSize = 8

// File names of the three statistic series, in result order.
const (
	UtilisationFile    = "utilisations.dat"
	MeanCustomersFile  = "mean_customers.dat"
	MeanSystemTimeFile = "mean_system_times.dat"
)

// Series holds one value per trial for each of the three statistics.
type Series struct {
	Utilisation    []float64
	MeanCustomers  []float64
	MeanSystemTime []float64
}

// Len returns the number of trials in the series.
func (s *Series) Len() int {
	return len(s.Utilisation)
}

// Write writes values to w. NaN values are written unchanged.
func Write(w io.Writer, values []float64) error {
	buf := make([]byte, valueSize)
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	return nil
}

// Read reads values from r until EOF. A trailing partial value is an error.
func Read(r io.Reader) ([]float64, error) {
	values := make([]float64, 0)
	buf := make([]byte, valueSize)

	for {
		_, err := io.ReadFull(r, buf)
		if err == io.EOF {
			return values, nil
		}

		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("truncated value after %d values", len(values))
		}

		if err != nil {
			return nil, err
		}

		values = append(values, math.Float64frombits(binary.LittleEndian.Uint64(buf)))
	}
}

// WriteFile creates or truncates the file at path and writes values into it.
func WriteFile(path string, values []float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	if err = Write(w, values); err != nil {
		return err
	}

	return w.Flush()
}

// ReadFile reads all values in the file at path.
func ReadFile(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(bufio.NewReader(f))
}

// WriteSeries writes one file per statistic into dir.
func WriteSeries(dir string, s *Series) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	files := []struct {
		name   string
		values []float64
	}{
		{UtilisationFile, s.Utilisation},
		{MeanCustomersFile, s.MeanCustomers},
		{MeanSystemTimeFile, s.MeanSystemTime},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := WriteFile(path, f.values); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	return nil
}

// ReadSeries reads the three statistic files from dir.
func ReadSeries(dir string) (*Series, error) {
	s := &Series{}

	targets := []struct {
		name string
		dst  *[]float64
	}{
		{UtilisationFile, &s.Utilisation},
		{MeanCustomersFile, &s.MeanCustomers},
		{MeanSystemTimeFile, &s.MeanSystemTime},
	}

	for _, t := range targets {
		path := filepath.Join(dir, t.name)

		values, err := ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		*t.dst = values
	}

	if len(s.MeanCustomers) != len(s.Utilisation) ||
		len(s.MeanSystemTime) != len(s.Utilisation) {
		return nil, fmt.Errorf("series lengths differ: %d, %d, %d",
			len(s.Utilisation), len(s.MeanCustomers), len(s.MeanSystemTime))
	}

	return s, nil
}
