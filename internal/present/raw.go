package present

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// WriteIndentedJSON pretty-prints a provider response body with two-space indentation.
func WriteIndentedJSON(w io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return fmt.Errorf("indent response: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
