// Package datasync imports module files into the content store.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/at-ishikawa/recall/internal/content"
)

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	ModuleID      int64
	ModuleCreated bool
	ItemsNew      int
	ItemsUpdated  int
	ItemsMoved    int
	ItemsSkipped  int
	// ItemsUnlisted counts stored items missing from the file. They are kept
	// so their progress is not orphaned.
	ItemsUnlisted int
	// StaleProgress lists the keys of items whose content changed. Learner
	// progress on them was recorded against the previous version.
	StaleProgress []string
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool
	// Append positions new items after the module's existing items instead
	// of at their position in the document.
	Append bool
}

// Importer writes documents to the content repository.
type Importer struct {
	repo   content.Repository
	writer io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(repo content.Repository, writer io.Writer) *Importer {
	return &Importer{
		repo:   repo,
		writer: writer,
	}
}

// Import creates, updates, or skips each item of doc by its key within the module.
// Changed content replaces the payload and bumps the item version.
func (imp *Importer) Import(ctx context.Context, doc *Document, opts ImportOptions) (*ImportResult, error) {
	module := doc.Module
	result := ImportResult{ModuleID: module.ID}

	var existing []content.Item
	if module.ID != 0 {
		found, err := imp.repo.FindModule(ctx, module.ID)
		if err != nil {
			return nil, fmt.Errorf("FindModule(%d) > %w", module.ID, err)
		}
		if found != nil {
			existing, err = imp.repo.GetModuleItems(ctx, module.ID)
			if err != nil && !errors.Is(err, content.ErrModuleNotFound) {
				return nil, fmt.Errorf("GetModuleItems(%d) > %w", module.ID, err)
			}
		} else {
			result.ModuleCreated = true
		}
	} else {
		result.ModuleCreated = true
	}

	if !opts.DryRun {
		if err := imp.repo.SaveModule(ctx, &module); err != nil {
			return nil, fmt.Errorf("SaveModule() > %w", err)
		}
		result.ModuleID = module.ID
	}
	if result.ModuleCreated {
		fmt.Fprintf(imp.writer, "  [NEW]  module %q\n", module.Title)
	}

	byKey := make(map[string]content.Item, len(existing))
	nextPosition := 0
	for _, item := range existing {
		byKey[item.Key] = item
		nextPosition = max(nextPosition, item.Position+1)
	}

	listed := make(map[string]struct{}, len(doc.Items))
	for _, item := range doc.Items {
		listed[item.Key] = struct{}{}
		item.ModuleID = module.ID

		current, ok := byKey[item.Key]
		if !ok {
			if opts.Append {
				item.Position = nextPosition
				nextPosition++
			}
			if !opts.DryRun {
				if err := imp.repo.CreateItem(ctx, &item); err != nil {
					return nil, fmt.Errorf("CreateItem(%s) > %w", item.Key, err)
				}
			}
			fmt.Fprintf(imp.writer, "  [NEW]  %s (%s)\n", item.Key, item.Type)
			result.ItemsNew++
			continue
		}

		if opts.Append {
			item.Position = current.Position
		}
		switch {
		case current.ContentHash != item.ContentHash:
			item.ID = current.ID
			item.Version = current.Version + 1
			if !opts.DryRun {
				if err := imp.repo.UpdateItem(ctx, &item); err != nil {
					return nil, fmt.Errorf("UpdateItem(%s) > %w", item.Key, err)
				}
			}
			fmt.Fprintf(imp.writer, "  [UPDATE]  %s (v%d -> v%d)\n", item.Key, current.Version, item.Version)
			result.ItemsUpdated++
			result.StaleProgress = append(result.StaleProgress, item.Key)
		case current.Position != item.Position:
			current.Position = item.Position
			if !opts.DryRun {
				if err := imp.repo.UpdateItem(ctx, &current); err != nil {
					return nil, fmt.Errorf("UpdateItem(%s) > %w", item.Key, err)
				}
			}
			fmt.Fprintf(imp.writer, "  [MOVE]  %s\n", item.Key)
			result.ItemsMoved++
		default:
			result.ItemsSkipped++
		}
	}
	for _, item := range existing {
		if _, ok := listed[item.Key]; !ok {
			result.ItemsUnlisted++
		}
	}

	slog.Default().Info("module imported",
		"module_id", result.ModuleID,
		"dry_run", opts.DryRun,
		"new", result.ItemsNew,
		"updated", result.ItemsUpdated,
		"moved", result.ItemsMoved,
		"skipped", result.ItemsSkipped,
		"unlisted", result.ItemsUnlisted)
	return &result, nil
}
