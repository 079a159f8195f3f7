package gear

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AcqParams is a parsed acquisition-parameters file: one row per
// phase-encode configuration, each row three phase-encode vector
// components plus the total readout time.
type AcqParams struct {
	Rows [][4]float64
	Raw  string
}

// LoadAcqParams reads and validates an acquisition-parameters file. topup
// needs at least two rows (the opposed phase-encode pair) and every row
// must carry exactly four numbers.
func LoadAcqParams(path string) (*AcqParams, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read acquisition parameters: %w", err)
	}

	params := &AcqParams{Raw: string(raw)}
	for i, line := range strings.Split(string(raw), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 4 {
			return nil, fmt.Errorf("acquisition parameters line %d: expected 4 values, got %d", i+1, len(fields))
		}
		var row [4]float64
		for j, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("acquisition parameters line %d: %q is not a number", i+1, field)
			}
			row[j] = v
		}
		params.Rows = append(params.Rows, row)
	}

	if len(params.Rows) < 2 {
		return nil, fmt.Errorf("acquisition parameters: need at least 2 rows, got %d", len(params.Rows))
	}
	return params, nil
}

// CheckIndex validates a 1-based applytopup in-index against the row count.
func (p *AcqParams) CheckIndex(index string) error {
	ix, err := strconv.Atoi(index)
	if err != nil {
		return fmt.Errorf("in-index %q is not an integer", index)
	}
	if ix < 1 || ix > len(p.Rows) {
		return fmt.Errorf("in-index %d outside acquisition parameters rows 1..%d", ix, len(p.Rows))
	}
	return nil
}
