package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/reportloom-cli/internal/dataset"
)

type jsonLoader struct{}

func (jsonLoader) Type() string { return "json" }

func (jsonLoader) Detect(source string) bool {
	return strings.HasSuffix(strings.ToLower(source), ".json")
}

func (jsonLoader) Load(_ context.Context, d Descriptor) (*dataset.Dataset, error) {
	b, err := os.ReadFile(d.Source)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	records, err := extractRecords(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Source, err)
	}
	return recordsToDataset(records)
}
