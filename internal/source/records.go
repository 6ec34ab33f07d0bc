package source

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/reportloom-cli/internal/dataset"
)

// listKeys are the wrapper keys commonly holding the row list in JSON
// payloads, checked in order.
var listKeys = []string{"data", "results", "records", "items"}

// extractRecords pulls a list of row objects out of a decoded JSON
// document: either a top-level array or an object wrapping the array under
// a well-known key.
func extractRecords(doc any) ([]map[string]any, error) {
	switch v := doc.(type) {
	case []any:
		return toRecordList(v)
	case map[string]any:
		for _, key := range listKeys {
			if list, ok := v[key].([]any); ok {
				return toRecordList(list)
			}
		}
		// Single object becomes a one-row dataset.
		return []map[string]any{v}, nil
	default:
		return nil, fmt.Errorf("unsupported JSON structure %T; expected array or object", doc)
	}
}

func toRecordList(list []any) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(list))
	for i, el := range list {
		rec, ok := el.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("element %d is %T, not an object", i, el)
		}
		out = append(out, rec)
	}
	return out, nil
}

// recordsToDataset builds a dataset over the union of record keys. Key
// order is first appearance across records, sorted within each record for
// determinism.
func recordsToDataset(records []map[string]any) (*dataset.Dataset, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records in source")
	}
	var cols []string
	seen := map[string]struct{}{}
	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				cols = append(cols, k)
			}
		}
	}
	ds, err := dataset.New(cols)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		row := make(dataset.Row, len(cols))
		for _, col := range cols {
			row[col] = jsonValue(rec[col])
		}
		ds.Append(row)
	}
	return ds, nil
}

func jsonValue(v any) dataset.Value {
	switch t := v.(type) {
	case nil:
		return dataset.Null()
	case float64:
		return dataset.Number(t)
	case bool:
		if t {
			return dataset.Text("true")
		}
		return dataset.Text("false")
	case string:
		return dataset.ParseCell(t)
	default:
		// Nested objects/arrays flatten to their JSON-ish text form.
		return dataset.Text(fmt.Sprintf("%v", t))
	}
}
