package store

import (
	"encoding/csv"
	"os"
	"strconv"

	"suspensim/internal/batch"
)

// WriteSubmission serializes batch outcomes into the submission format:
// one row per profile with its displacement/jerk statistics and total
// comfort score.
func WriteSubmission(path string, outcomes []batch.Outcome) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"profile", "rms_zs", "max_zs", "rms_jerk", "comfort_score"}); err != nil {
		return err
	}

	for _, o := range outcomes {
		row := []string{
			o.Name,
			strconv.FormatFloat(o.Score.Components["rms_zs"], 'f', 6, 64),
			strconv.FormatFloat(o.Score.Components["max_zs"], 'f', 6, 64),
			strconv.FormatFloat(o.Score.Components["rms_jerk"], 'f', 6, 64),
			strconv.FormatFloat(o.Score.Total, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
