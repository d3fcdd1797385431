package road

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Named is a road profile with its source column name.
type Named struct {
	Name    string
	Profile Profile
}

// LoadCSV reads a wide profile file: one column per road profile, a header
// row of profile names, one displacement sample per row at dt spacing.
// Index-like columns (t, time, index, id) are skipped. Column order is
// preserved.
func LoadCSV(path string, dt float64) ([]Named, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("road: time step %g must be positive", dt)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("road: read %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("road: %s has no samples", path)
	}

	header := records[0]
	keep := make([]int, 0, len(header))
	for i, name := range header {
		switch name {
		case "t", "time", "index", "id", "":
			continue
		default:
			keep = append(keep, i)
		}
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("road: %s has no profile columns", path)
	}

	series := make([][]float64, len(keep))
	for i := range series {
		series[i] = make([]float64, 0, len(records)-1)
	}

	for row := 1; row < len(records); row++ {
		rec := records[row]
		for i, col := range keep {
			if col >= len(rec) {
				return nil, fmt.Errorf("road: %s row %d: missing column %q", path, row, header[col])
			}
			v, err := strconv.ParseFloat(rec[col], 64)
			if err != nil {
				return nil, fmt.Errorf("road: %s row %d column %q: %w", path, row, header[col], err)
			}
			series[i] = append(series[i], v)
		}
	}

	out := make([]Named, len(keep))
	for i, col := range keep {
		out[i] = Named{Name: header[col], Profile: FromSeries(series[i], dt)}
	}
	return out, nil
}
