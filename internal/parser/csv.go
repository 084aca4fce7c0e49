package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// CSVParser handles CSV files. The first record becomes the table header.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*html.Node, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", filename, err)
	}

	doc, body := newDocument()
	if len(records) == 0 {
		return doc, nil
	}

	table := element("table",
		element("thead", row("th", records[0])),
	)
	if len(records) > 1 {
		tbody := element("tbody")
		for _, record := range records[1:] {
			tbody.AppendChild(row("td", record))
		}
		table.AppendChild(tbody)
	}
	body.AppendChild(table)
	return doc, nil
}

func row(cellTag string, cells []string) *html.Node {
	tr := element("tr")
	for _, cell := range cells {
		tr.AppendChild(element(cellTag, textNode(cell)))
	}
	return tr
}
