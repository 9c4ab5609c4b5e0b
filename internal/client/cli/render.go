package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/placemark/internal/client/flow"
	"github.com/dmitrijs2005/placemark/internal/client/models"
)

func renderLocations(items []models.Location) string {
	if len(items) == 0 {
		return mutedStyle.Render("No locations yet")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d locations", len(items))))
	for _, l := range items {
		b.WriteString("\n  ")
		b.WriteString(l.String())
	}
	return b.String()
}

func renderDraft(f *flow.Flow) string {
	d, ok := f.Draft()
	if !ok {
		return mutedStyle.Render("No draft")
	}

	rows := [][2]string{
		{"position", fmt.Sprintf("%.5f, %.5f", d.Latitude, d.Longitude)},
		{models.FieldName, d.Name},
		{models.FieldAddress, d.Address},
		{models.FieldWorkingHoursStart, d.WorkingHoursStart},
		{models.FieldWorkingHoursEnd, d.WorkingHoursEnd},
		{models.FieldAverageCheck, d.AverageCheck},
	}
	if d.OwnerVisible {
		rows = append(rows,
			[2]string{models.FieldWebsite, d.Website},
			[2]string{models.FieldOwnerInfo, d.OwnerInfo})
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("New location (" + f.State().String() + ")"))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-20s", r[0])))
		b.WriteString(r[1])
	}
	for _, m := range f.Errors() {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("! " + m))
	}
	return draftStyle.Render(b.String())
}
