// Package xlsx provides a loader that flattens Excel workbooks to text.
package xlsx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader handles XLSX workbooks. Each worksheet is flattened row by
// row, cells joined with "; ", so tabular content becomes searchable
// prose. Formulas are represented by their cached values.
type Loader struct{}

// New creates a new XLSX loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".xlsx"}
}

// Load flattens every worksheet to text.
func (l *Loader) Load(_ context.Context, _ string, content []byte) (*driven.LoadResult, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	shared, err := readSharedStrings(reader)
	if err != nil {
		return nil, err
	}

	// Worksheet part names are stable enough to sort lexically.
	var sheets []string
	for _, f := range reader.File {
		if strings.HasPrefix(f.Name, "xl/worksheets/sheet") && strings.HasSuffix(f.Name, ".xml") {
			sheets = append(sheets, f.Name)
		}
	}
	sort.Strings(sheets)

	var b strings.Builder
	for _, name := range sheets {
		text, err := readSheetText(reader, name, shared)
		if err != nil {
			return nil, err
		}
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}

	return &driven.LoadResult{Text: strings.TrimSpace(b.String())}, nil
}

// sharedStringsXML represents xl/sharedStrings.xml.
// Rich-text entries split one string across multiple <t> runs.
type sharedStringsXML struct {
	Items []struct {
		Text  string   `xml:"t"`
		Runs  []string `xml:"r>t"`
	} `xml:"si"`
}

func readSharedStrings(reader *zip.Reader) ([]string, error) {
	data, ok, err := readPart(reader, "xl/sharedStrings.xml")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil // Workbook without shared strings
	}

	var sst sharedStringsXML
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil, domain.ErrInvalidInput
	}

	strs := make([]string, len(sst.Items))
	for i, item := range sst.Items {
		if item.Text != "" {
			strs[i] = item.Text
			continue
		}
		strs[i] = strings.Join(item.Runs, "")
	}
	return strs, nil
}

// worksheetXML represents the cell data of one worksheet.
type worksheetXML struct {
	Rows []struct {
		Cells []struct {
			Type  string `xml:"t,attr"`
			Value string `xml:"v"`
			// Inline strings bypass the shared table.
			Inline string `xml:"is>t"`
		} `xml:"c"`
	} `xml:"sheetData>row"`
}

func readSheetText(reader *zip.Reader, name string, shared []string) (string, error) {
	data, ok, err := readPart(reader, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}

	var sheet worksheetXML
	if err := xml.Unmarshal(data, &sheet); err != nil {
		return "", domain.ErrInvalidInput
	}

	var b strings.Builder
	for _, row := range sheet.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			value := cell.Value
			switch cell.Type {
			case "s": // shared string index
				idx, convErr := strconv.Atoi(cell.Value)
				if convErr != nil || idx < 0 || idx >= len(shared) {
					continue
				}
				value = shared[idx]
			case "inlineStr":
				value = cell.Inline
			}
			value = strings.TrimSpace(value)
			if value != "" {
				cells = append(cells, value)
			}
		}
		if len(cells) > 0 {
			b.WriteString(strings.Join(cells, "; "))
			b.WriteString("\n")
		}
	}

	return strings.TrimSpace(b.String()), nil
}

func readPart(reader *zip.Reader, name string) ([]byte, bool, error) {
	for _, f := range reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false, domain.ErrInvalidInput
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, false, domain.ErrInvalidInput
		}
		return data, true, nil
	}
	return nil, false, nil
}
