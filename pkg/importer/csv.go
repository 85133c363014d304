package importer

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/d-krupke/thesis-manager/pkg/extraction"
)

// CSVRow is one data row with its 1-based position in the file
type CSVRow struct {
	Index int
	Row   extraction.Row
}

// ReadCSVFile reads the file at path into header-mapped rows
func ReadCSVFile(path string) ([]CSVRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open csv file")
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses header-mapped rows from r. The first record is the header;
// rows shorter than the header leave the missing columns empty, longer rows
// drop the excess. Fully empty rows are skipped but still counted.
func ReadCSV(r io.Reader) ([]CSVRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("csv file is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	var rows []CSVRow
	index := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read csv row %d", index+1)
		}

		index++
		row := make(extraction.Row, len(header))
		empty := true
		for i, name := range header {
			if name == "" {
				continue
			}
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			row[name] = value
			if value != "" {
				empty = false
			}
		}
		if empty {
			continue
		}

		rows = append(rows, CSVRow{Index: index, Row: row})
	}

	return rows, nil
}
