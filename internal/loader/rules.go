package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/bailgen/internal/rules"
)

// RulesSheet is the workbook sheet holding the rule table.
const RulesSheet = "Rédaction BAIL"

type column int

const (
	colSection column = iota
	colDesignation
	colLookupNames
	colLookupValue
	colCondition1
	colText1
	colCondition2
	colText2
	numColumns
)

// columnNames lists accepted header names per column. The first name is
// the authoring workbook's.
var columnNames = [numColumns][]string{
	colSection:     {"Article", "section"},
	colDesignation: {"Désignation", "designation"},
	colLookupNames: {"Nom Source", "lookup_names"},
	colLookupValue: {"Donnée source", "lookup_value"},
	colCondition1:  {"Condition", "Condition Option 1", "condition1"},
	colText1:       {"Entrée correspondante - Option 1", "text1"},
	colCondition2:  {"Condition Option 2", "condition2"},
	colText2:       {"Entrée correspondante - Option 2", "text2"},
}

// LoadRules reads a rule table in the format given by filename.
func LoadRules(r io.Reader, filename string) (*rules.Table, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return nil, err
	}
	var rows []rules.Row
	switch format {
	case FormatCSV:
		rows, err = rulesFromCSV(r)
	case FormatYAML, FormatJSON:
		rows, err = rulesFromYAML(r)
	case FormatXLSX:
		rows, err = rulesFromXLSX(r)
	}
	if err != nil {
		return nil, err
	}
	return rules.NewTable(rows), nil
}

// LoadRulesFile reads the rule table at path.
func LoadRulesFile(path string) (*rules.Table, error) {
	return openFile(path, LoadRules)
}

func rulesFromCSV(r io.Reader) ([]rules.Row, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rowsFromRecords(records)
}

func rulesFromYAML(r io.Reader) ([]rules.Row, error) {
	var rows []rules.Row
	if err := yaml.NewDecoder(r).Decode(&rows); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse yaml rules: %w", err)
	}
	return rows, nil
}

func rulesFromXLSX(r io.Reader) ([]rules.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := pickSheet(f.GetSheetList(), RulesSheet)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rowsFromRecords(records)
}

// rowsFromRecords maps a header row plus data rows to rule rows. The header
// is the first row naming the section column; rows above it are ignored.
func rowsFromRecords(records [][]string) ([]rules.Row, error) {
	headerAt := -1
	var idx [numColumns]int
	for i, rec := range records {
		if m, ok := headerIndex(rec); ok {
			headerAt, idx = i, m
			break
		}
	}
	if headerAt < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, columnNames[colSection][0])
	}
	if idx[colText1] < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, columnNames[colText1][0])
	}

	var rows []rules.Row
	for _, rec := range records[headerAt+1:] {
		if blankRow(rec) {
			continue
		}
		cell := func(c column) string {
			i := idx[c]
			if i < 0 || i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		rows = append(rows, rules.Row{
			Section:     strings.TrimSpace(cell(colSection)),
			Designation: strings.TrimSpace(cell(colDesignation)),
			LookupNames: strings.TrimSpace(cell(colLookupNames)),
			LookupValue: strings.TrimSpace(cell(colLookupValue)),
			Condition1:  strings.TrimSpace(cell(colCondition1)),
			Text1:       cell(colText1),
			Condition2:  strings.TrimSpace(cell(colCondition2)),
			Text2:       cell(colText2),
		})
	}
	return rows, nil
}

// headerIndex locates each column in a header row. ok is false when the
// row has no section column.
func headerIndex(rec []string) (idx [numColumns]int, ok bool) {
	for c := range idx {
		idx[c] = -1
	}
	for i, h := range trimCells(rec) {
		for c, names := range columnNames {
			if idx[c] >= 0 {
				continue
			}
			for _, n := range names {
				if strings.EqualFold(h, n) {
					idx[c] = i
				}
			}
		}
	}
	return idx, idx[colSection] >= 0
}

// pickSheet returns the first preferred sheet present, else the first sheet.
func pickSheet(sheets []string, preferred ...string) string {
	for _, p := range preferred {
		for _, s := range sheets {
			if strings.EqualFold(strings.TrimSpace(s), p) {
				return s
			}
		}
	}
	if len(sheets) == 0 {
		return ""
	}
	return sheets[0]
}
