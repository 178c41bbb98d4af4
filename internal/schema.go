package internal

import (
	"github.com/deckarep/golang-set"
	"github.com/rs/zerolog"
)

var baseColumns = []string{"ID", "Created", "Last Edited"}

// Schema is the column layout of one export. It comes from the first page
// only: properties that appear on later pages are not exported and missing
// ones are written as empty cells.
type Schema struct {
	Properties []string
}

func NewSchema(first Page) Schema {
	return Schema{Properties: append([]string{}, first.Properties.Names()...)}
}

func (s Schema) Header() []string {
	header := make([]string, 0, len(baseColumns)+len(s.Properties))
	header = append(header, baseColumns...)
	return append(header, s.Properties...)
}

func (s Schema) Row(log zerolog.Logger, page Page) []string {
	row := make([]string, 0, len(baseColumns)+len(s.Properties))
	row = append(row, page.ID, page.CreatedTime, page.LastEditedTime)
	for _, name := range s.Properties {
		prop, ok := page.Properties.Get(name)
		if !ok {
			row = append(row, "")
			continue
		}
		row = append(row, CellValue(log, prop))
	}
	return row
}

// DroppedColumns lists property names found on any page that the schema
// does not export, sorted.
func (s Schema) DroppedColumns(pages []Page) []string {
	known := mapset.NewSet()
	for _, name := range s.Properties {
		known.Add(name)
	}

	dropped := mapset.NewSet()
	for _, page := range pages {
		for _, name := range page.Properties.Names() {
			if !known.Contains(name) {
				dropped.Add(name)
			}
		}
	}
	return sortedStrings(dropped.ToSlice())
}
