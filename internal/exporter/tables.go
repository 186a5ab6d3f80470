package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"mpidash/pkg/contracts/domain"
)

// WriteCrossTab writes ct with one column per dimension and a final column
// named after the aggregation mode.
func WriteCrossTab(w io.Writer, ct domain.CrossTab) error {
	writer := csv.NewWriter(w)

	headers := append(append([]string{}, ct.Dimensions...), string(ct.Mode))
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range ct.Rows {
		record := append(append([]string{}, row.Keys...), formatValue(row.Value))
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
