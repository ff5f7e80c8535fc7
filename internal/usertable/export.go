package usertable

import (
	"fmt"
	"io"

	"socialautomator/internal/models"

	"github.com/gocarina/gocsv"
)

// ExportFilename is the suggested download name of an export.
const ExportFilename = "user-data.csv"

// LastActiveLayout renders the Last Active column as a US short date.
const LastActiveLayout = "1/2/2006"

type exportRow struct {
	Name       string `csv:"Name"`
	Email      string `csv:"Email"`
	Role       string `csv:"Role"`
	Status     string `csv:"Status"`
	LastActive string `csv:"Last Active"`
	PostsCount int    `csv:"Posts Count"`
}

// Export writes rows as CSV with a header line. No rows yields only the header.
func Export(w io.Writer, rows []*models.ManagedUser) error {
	out := make([]*exportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, &exportRow{
			Name:       r.Name,
			Email:      r.Email,
			Role:       string(r.Role),
			Status:     string(r.Status),
			LastActive: r.LastActive.Format(LastActiveLayout),
			PostsCount: r.PostsCount,
		})
	}
	if err := gocsv.Marshal(out, w); err != nil {
		return fmt.Errorf("failed to write csv export: %w", err)
	}
	return nil
}

// Export writes the current view.
func (t *Table) Export(w io.Writer) error {
	return Export(w, t.View())
}
