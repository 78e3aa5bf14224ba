package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/evcraddock/emprende-tacna/internal/app"
	"github.com/evcraddock/emprende-tacna/internal/auth"
	"github.com/evcraddock/emprende-tacna/internal/business"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printNotification prints a notification with a prefix for its level.
func printNotification(w io.Writer, n app.Notification) {
	if n.Message == "" {
		return
	}
	prefix := map[app.Level]string{
		app.LevelSuccess: "✔",
		app.LevelError:   "✘",
		app.LevelWarning: "!",
		app.LevelInfo:    "i",
	}[n.Level]
	fmt.Fprintf(w, "%s %s\n", prefix, n.Message)
}

// printBusinessSummary prints a business in text format.
func printBusinessSummary(w io.Writer, b *business.Business) {
	fmt.Fprintf(w, "Negocio #%d\n", b.ID)
	fmt.Fprintf(w, "  Nombre:     %s\n", b.Name)
	fmt.Fprintf(w, "  Categoría:  %s\n", b.Type.Label())
	fmt.Fprintf(w, "  Dirección:  %s\n", b.Address)
	fmt.Fprintf(w, "  Ubicación:  %.6f, %.6f\n", b.Lat, b.Lng)
	if b.Owner != "" {
		fmt.Fprintf(w, "  Dueño:      %s\n", b.Owner)
	}
}

// printDetails prints the full detail view of a business.
func printDetails(w io.Writer, d *app.Details) {
	fmt.Fprintf(w, "%s\n", d.Name)
	fmt.Fprintf(w, "  %s\n\n", d.Label)
	fmt.Fprintf(w, "  %s\n\n", d.Description)
	fmt.Fprintf(w, "  Dirección:  %s\n", d.Address)
	fmt.Fprintf(w, "  Teléfono:   %s\n", d.PhoneText)
	fmt.Fprintf(w, "  Horario:    %s\n", d.HoursText)
	fmt.Fprintf(w, "  Cómo llegar: %s\n", d.DirectionsURL)
	if d.Visited {
		fmt.Fprintln(w, "  ✔ Visitado")
	}
}

// printBusinessTable prints businesses as a formatted table. empty is
// printed instead when there are none.
func printBusinessTable(w io.Writer, bs []*business.Business, empty string) error {
	if len(bs) == 0 {
		fmt.Fprintln(w, empty)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tNOMBRE\tCATEGORÍA\tDIRECCIÓN\tVISITAS"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, "--\t------\t---------\t---------\t-------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, b := range bs {
		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n",
			b.ID, truncate(b.Name, 30), b.Type.Label(), truncate(b.Address, 40), b.Visits); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Fprintf(w, "\nTotal: %d negocios\n", len(bs))
	return nil
}

// printKeyTable prints API keys as a formatted table.
func printKeyTable(w io.Writer, keys []auth.APIKey) error {
	if len(keys) == 0 {
		fmt.Fprintln(w, "No API keys.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPREFIX\tCREATED\tLAST USED")
	for _, k := range keys {
		used := "never"
		if k.LastUsedAt != nil {
			used = k.LastUsedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			k.ID, k.Name, k.Email, k.KeyPrefix, k.CreatedAt.Format("2006-01-02 15:04"), used)
	}
	return tw.Flush()
}

// truncate shortens s to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen-3]) + "..."
}
