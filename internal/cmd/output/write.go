package output

import (
	"io"

	"github.com/agentstation/atlas/internal/cmd/table"
)

// Write renders value in format. Table formats call toTable with wide set
// for FormatWide; structured formats encode value directly.
func Write(w io.Writer, format Format, value any, toTable func(wide bool) table.Data) error {
	if format.IsTable() && toTable != nil {
		return NewFormatter(format).Format(w, toTable(format == FormatWide))
	}
	return NewFormatter(format).Format(w, value)
}
