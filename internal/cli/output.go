package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"assassin/internal/app/api"
	"assassin/internal/pkg/errs"
)

// printDocument writes a server response as indented JSON.
func printDocument(w io.Writer, doc api.Document) error {
	if doc.IsEmpty() {
		_, err := fmt.Fprintln(w, "{}")
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')

	_, err := w.Write(buf.Bytes())
	return err
}

// printJSON writes any value as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ReportError writes err for a terminal user. Server rejections print the payload the
// server sent so its fields stay visible.
func ReportError(w io.Writer, err error) {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(w, "Error: server rejected the request (HTTP %d)\n", apiErr.Status)
		printDocument(w, apiErr.Body)
		return
	}

	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		fmt.Fprintf(w, "Error: %s\n", customErr.Message)
		return
	}

	fmt.Fprintf(w, "Error: %v\n", err)
}
