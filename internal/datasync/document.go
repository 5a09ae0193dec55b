package datasync

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/recall/internal/content"
)

// Document is a module file with every payload decoded into its typed variant.
type Document struct {
	Module content.Module
	Items  []content.Item
}

type documentFile struct {
	Module content.Module `yaml:"module"`
	Items  []documentItem `yaml:"items"`
}

type documentItem struct {
	Key     string    `yaml:"key"`
	Type    string    `yaml:"type"`
	Payload yaml.Node `yaml:"payload"`
}

// ParseDocument reads a module file. It fails on the first item whose type
// is unknown or whose payload is invalid, so a bad file is never half imported.
func ParseDocument(r io.Reader) (*Document, error) {
	var file documentFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty module file")
		}
		return nil, fmt.Errorf("decoder.Decode() > %w", err)
	}
	if file.Module.Title == "" {
		return nil, fmt.Errorf("module title is required")
	}

	doc := &Document{
		Module: file.Module,
		Items:  make([]content.Item, 0, len(file.Items)),
	}
	seen := make(map[string]struct{}, len(file.Items))
	for i, fi := range file.Items {
		if fi.Key == "" {
			return nil, fmt.Errorf("items[%d]: key is required", i)
		}
		if _, ok := seen[fi.Key]; ok {
			return nil, fmt.Errorf("items[%d]: duplicate key %q", i, fi.Key)
		}
		seen[fi.Key] = struct{}{}

		t, err := content.ParseItemType(fi.Type)
		if err != nil {
			return nil, fmt.Errorf("items[%d] %q: %w", i, fi.Key, err)
		}
		payload, err := content.DecodeYAMLPayload(t, &fi.Payload)
		if err != nil {
			return nil, fmt.Errorf("items[%d] %q: %w", i, fi.Key, err)
		}
		item, err := content.NewItem(file.Module.ID, fi.Key, i, payload)
		if err != nil {
			return nil, fmt.Errorf("items[%d] %q: %w", i, fi.Key, err)
		}
		doc.Items = append(doc.Items, item)
	}
	return doc, nil
}
