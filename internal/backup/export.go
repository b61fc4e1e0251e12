package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"ghostledger/internal/core"
	"ghostledger/internal/locale"
)

// ExportVersion tags exported files. Version 1.0 files came from the
// Portuguese build and carried no schemaVersion.
const ExportVersion = "2.0"

type exportEnvelope struct {
	SchemaVersion int       `json:"schemaVersion"`
	ExportedAt    time.Time `json:"exportedAt"`
	Version       string    `json:"version"`
	core.FinanceData
}

// ExportJSON writes an indented full backup of data stamped with now.
func ExportJSON(w io.Writer, data core.FinanceData, now time.Time) error {
	data.Normalize()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(exportEnvelope{
		SchemaVersion: SchemaVersion,
		ExportedAt:    now.UTC(),
		Version:       ExportVersion,
		FinanceData:   data,
	})
	if err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// ExportFilename is <prefix>-<YYYY-MM-DD>.json using the UTC date of now.
func ExportFilename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s.json", prefix, now.UTC().Format(core.DateLayout))
}

// CSVFilename is the statement export name, extrato-gengar-yyyy-MM.csv.
func CSVFilename(now time.Time, policy core.TimePolicy) string {
	return "extrato-gengar-" + policy.Local(now).Format("2006-01") + ".csv"
}

var csvHeader = []string{"Date", "Type", "Description", "Category", "Amount", "Note"}

// ExportCSV writes entries as a statement. Every field is double-quoted with
// inner quotes doubled; the category column carries the canonical tag.
func ExportCSV(w io.Writer, entries []core.Entry, loc locale.Locale) error {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	b.WriteString("\n")
	for _, e := range entries {
		note := ""
		if e.Note != nil {
			note = *e.Note
		}
		writeQuotedRow(&b,
			loc.FormatDate(e.OccurredOn),
			loc.KindLabel(e.Kind),
			e.Description,
			e.Category,
			e.Amount.String(),
			note,
		)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write statement: %w", err)
	}
	return nil
}

func writeQuotedRow(b *strings.Builder, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
