package internal

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
)

// Formatter writes the rows of one backup file.
type Formatter interface {
	WriteHeader(columns []string) error
	WriteRow(row []string) error

	// Flush is called once after the last row.
	Flush() error
}

// FormatterFactory
type FormatterFactory func(io.Writer) Formatter

// Formatters holds available formatters. The key is also the file extension.
var Formatters = map[string]FormatterFactory{
	"csv":    NewCSVFormatter,
	"ndjson": NewNDJSONFormatter,
}

// CSVFormatter writes RFC 4180 CSV with a header row.
type CSVFormatter struct {
	writer *csv.Writer
}

func NewCSVFormatter(out io.Writer) Formatter {
	return &CSVFormatter{writer: csv.NewWriter(out)}
}

func (f *CSVFormatter) WriteHeader(columns []string) error {
	return f.writer.Write(columns)
}

func (f *CSVFormatter) WriteRow(row []string) error {
	return f.writer.Write(row)
}

func (f *CSVFormatter) Flush() error {
	f.writer.Flush()
	return f.writer.Error()
}

// NDJSONFormatter writes one JSON object per page, keys in column order.
type NDJSONFormatter struct {
	writer  *bufio.Writer
	columns []string
}

func NewNDJSONFormatter(out io.Writer) Formatter {
	return &NDJSONFormatter{writer: bufio.NewWriter(out)}
}

func (f *NDJSONFormatter) WriteHeader(columns []string) error {
	f.columns = columns
	return nil
}

func (f *NDJSONFormatter) WriteRow(row []string) error {
	if len(row) != len(f.columns) {
		return errors.New("ndjson: row does not match header")
	}

	f.writer.WriteByte('{')
	for i, column := range f.columns {
		if i > 0 {
			f.writer.WriteByte(',')
		}
		key, err := json.Marshal(column)
		if err != nil {
			return err
		}
		value, err := json.Marshal(row[i])
		if err != nil {
			return err
		}
		f.writer.Write(key)
		f.writer.WriteByte(':')
		f.writer.Write(value)
	}
	f.writer.WriteByte('}')
	_, err := f.writer.WriteString("\n")
	return err
}

func (f *NDJSONFormatter) Flush() error {
	return f.writer.Flush()
}
