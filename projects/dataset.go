package projects

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed data/projects.json
var bundledProjects []byte

// datasetEntry is one project of the bundled JSON dataset.
type datasetEntry struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	ShortDescription   string   `json:"shortDescription"`
	ShortDescriptionIt string   `json:"shortDescription_it"`
	Image              string   `json:"image"`
	Tags               []string `json:"tags"`
	Markdown           *string  `json:"markdown"`
	MarkdownIt         *string  `json:"markdown_it"`
	Github             *string  `json:"github"`
	Demo               *string  `json:"demo"`
	Features           []string `json:"features"`
	FeaturesIt         []string `json:"features_it"`
	Featured           bool     `json:"featured"`
	Order              *int     `json:"order"`
}

func (e datasetEntry) record() Record {
	return Record{
		ID:                 e.ID,
		Title:              e.Title,
		ShortDescription:   e.ShortDescription,
		ShortDescriptionIt: e.ShortDescriptionIt,
		Image:              optional(e.Image),
		Tags:               e.Tags,
		Markdown:           e.Markdown,
		MarkdownIt:         nonEmpty(e.MarkdownIt),
		Github:             e.Github,
		Demo:               e.Demo,
		Features:           e.Features,
		FeaturesIt:         e.FeaturesIt,
		Featured:           e.Featured,
		Order:              e.Order,
	}
}

// Dataset is the static project list shipped with the binary. It is the
// last fallback tier and donates translations to database records.
type Dataset struct {
	records []Record
	byID    map[string]int
}

// LoadDataset parses a JSON array of projects.
func LoadDataset(data []byte) (*Dataset, error) {
	var entries []datasetEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding project dataset: %w", err)
	}

	d := &Dataset{
		records: make([]Record, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("project dataset entry %d has no id", i)
		}
		if _, dup := d.byID[e.ID]; dup {
			return nil, fmt.Errorf("project dataset has duplicate id %q", e.ID)
		}
		d.byID[e.ID] = len(d.records)
		d.records = append(d.records, e.record())
	}
	return d, nil
}

// LoadDatasetFile reads a dataset from disk.
func LoadDatasetFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project dataset: %w", err)
	}
	return LoadDataset(data)
}

// DefaultDataset is the dataset embedded at build time.
func DefaultDataset() *Dataset {
	d, err := LoadDataset(bundledProjects)
	if err != nil {
		panic(err)
	}
	return d
}

// All returns the records in file order.
func (d *Dataset) All() []Record {
	if d == nil {
		return nil
	}
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Lookup finds a record by id.
func (d *Dataset) Lookup(id string) (Record, bool) {
	if d == nil {
		return Record{}, false
	}
	i, ok := d.byID[id]
	if !ok {
		return Record{}, false
	}
	return d.records[i], true
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

func (d *Dataset) Name() string { return "dataset" }

func (d *Dataset) Records(context.Context) ([]Record, error) {
	return d.All(), nil
}

func (d *Dataset) Record(_ context.Context, id string) (*Record, error) {
	r, ok := d.Lookup(id)
	if !ok {
		return nil, nil
	}
	return &r, nil
}
