package folio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodePlans writes plans as JSONL, one plan per line.
func EncodePlans(w io.Writer, plans []Plan) error {
	enc := json.NewEncoder(w)
	for _, p := range plans {
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("cannot encode plan %q: %w", p.Name, err)
		}
	}
	return nil
}

// DecodePlans reads plans written by EncodePlans and validates them.
func DecodePlans(r io.Reader) ([]Plan, error) {
	var plans []Plan
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}
		var p Plan
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("could not decode plan %q: %w", string(line), err)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, scanner.Err()
}
