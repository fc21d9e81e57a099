package loader

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/bailgen/internal/vars"
)

// FactsSheets are the workbook sheets searched for facts, in order.
var FactsSheets = []string{"Validation", "Last Forecast"}

// factsHeaders are first-row labels recognised as a header in tabular facts.
var factsHeaders = map[string]bool{
	"name": true, "nom": true, "variable": true, "champ": true, "donnée": true,
}

// LoadFacts reads a facts file: a JSON or YAML object, or a two-column
// table (name, value) in CSV or XLSX.
func LoadFacts(r io.Reader, filename string) (vars.Context, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return vars.Context{}, err
	}
	switch format {
	case FormatJSON:
		return factsFromJSON(r)
	case FormatYAML:
		return factsFromYAML(r)
	case FormatCSV:
		return factsFromCSV(r)
	default:
		return factsFromXLSX(r)
	}
}

// LoadFactsFile reads the facts file at path.
func LoadFactsFile(path string) (vars.Context, error) {
	return openFile(path, LoadFacts)
}

// DecodeFacts converts a decoded JSON object into a context. json.Number
// values become exact decimals.
func DecodeFacts(m map[string]any) vars.Context {
	values := make(map[string]vars.Value, len(m))
	for k, v := range m {
		values[k] = factValue(v)
	}
	return vars.New(values)
}

func factValue(v any) vars.Value {
	switch x := v.(type) {
	case json.Number:
		if d, err := decimal.NewFromString(x.String()); err == nil {
			return vars.Number(d)
		}
		return vars.Text(x.String())
	case map[string]any, []any:
		b, _ := json.Marshal(x)
		return vars.Text(string(b))
	default:
		return vars.ValueOf(v)
	}
}

func factsFromJSON(r io.Reader) (vars.Context, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return vars.Context{}, fmt.Errorf("parse json facts: %w", err)
	}
	return DecodeFacts(m), nil
}

func factsFromYAML(r io.Reader) (vars.Context, error) {
	var m map[string]any
	if err := yaml.NewDecoder(r).Decode(&m); err != nil && err != io.EOF {
		return vars.Context{}, fmt.Errorf("parse yaml facts: %w", err)
	}
	return DecodeFacts(m), nil
}

func factsFromCSV(r io.Reader) (vars.Context, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return vars.Context{}, fmt.Errorf("parse csv: %w", err)
	}
	return factsFromRecords(records), nil
}

func factsFromXLSX(r io.Reader) (vars.Context, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return vars.Context{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := pickSheet(f.GetSheetList(), FactsSheets...)
	if sheet == "" {
		return vars.Context{}, fmt.Errorf("workbook has no sheets")
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return vars.Context{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return factsFromRecords(records), nil
}

// factsFromRecords reads name/value pairs from the first two columns.
// Rows without a name or value are skipped, and a later row overrides an
// earlier one.
func factsFromRecords(records [][]string) vars.Context {
	values := make(map[string]vars.Value)
	for i, rec := range records {
		if len(rec) == 0 {
			continue
		}
		name := strings.TrimSpace(rec[0])
		if name == "" {
			continue
		}
		if i == 0 && factsHeaders[strings.ToLower(name)] {
			continue
		}
		if len(rec) < 2 || strings.TrimSpace(rec[1]) == "" {
			continue
		}
		values[name] = vars.Text(strings.TrimSpace(rec[1]))
	}
	return vars.New(values)
}
