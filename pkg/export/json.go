package export

import (
	"encoding/json"
	"io"

	"github.com/vrogeon/repartkey/core/stats"
)

// WriteSummaryJSON writes the run summary to w in JSON format.
func WriteSummaryJSON(w io.Writer, sum stats.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}
