package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recall/internal/content"
	"github.com/at-ishikawa/recall/internal/datasync"
	"github.com/at-ishikawa/recall/internal/generation"
)

func newGenerateCommand() *cobra.Command {
	var (
		moduleID int64
		topic    string
		count    int
		types    []string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate items for a module with the content generation service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			itemTypes, err := parseItemTypes(types)
			if err != nil {
				return err
			}

			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()
			if cfg.Generation.BaseURL == "" {
				return fmt.Errorf("generation.base_url is not configured")
			}

			ctx := cmd.Context()
			repo := content.NewDBRepository(db)
			module, err := repo.FindModule(ctx, moduleID)
			if err != nil {
				return fmt.Errorf("repo.FindModule(%d) > %w", moduleID, err)
			}
			if module == nil {
				return fmt.Errorf("module %d: %w", moduleID, content.ErrModuleNotFound)
			}

			client := generation.NewClient(
				cfg.Generation.BaseURL,
				cfg.Generation.APIKey,
				time.Duration(cfg.Generation.TimeoutSeconds)*time.Second,
				cfg.Generation.MaxRetryAttempts,
			)
			defer func() {
				_ = client.Close()
			}()
			generated, err := client.Generate(ctx, generation.Request{Topic: topic, Count: count, Types: itemTypes})
			if err != nil {
				return fmt.Errorf("client.Generate(%s) > %w", topic, err)
			}

			doc, err := generatedDocument(*module, generated)
			if err != nil {
				return err
			}
			result, err := datasync.NewImporter(repo, cmd.OutOrStdout()).
				Import(ctx, doc, datasync.ImportOptions{DryRun: dryRun, Append: true})
			if err != nil {
				return fmt.Errorf("importer.Import() > %w", err)
			}
			printImportResult(cmd.OutOrStdout(), result, dryRun)
			return nil
		},
	}
	cmd.Flags().Int64Var(&moduleID, "module", 0, "Module to add the items to")
	cmd.Flags().StringVar(&topic, "topic", "", "Topic of the generated items")
	cmd.Flags().IntVar(&count, "count", 10, "Number of items to generate")
	cmd.Flags().StringSliceVar(&types, "type", []string{string(content.ItemTypeFlashcard)}, "Item types to generate")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the generated items without writing")
	_ = cmd.MarkFlagRequired("module")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func parseItemTypes(values []string) ([]content.ItemType, error) {
	types := make([]content.ItemType, 0, len(values))
	for _, v := range values {
		t, err := content.ParseItemType(v)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

// generatedDocument wraps generated items as a document for module so they
// go through the same import path as a module file.
func generatedDocument(module content.Module, generated []generation.GeneratedItem) (*datasync.Document, error) {
	doc := &datasync.Document{
		Module: module,
		Items:  make([]content.Item, 0, len(generated)),
	}
	seen := make(map[string]struct{}, len(generated))
	for i, g := range generated {
		if _, ok := seen[g.Key]; ok {
			return nil, fmt.Errorf("generated items contain duplicate key %q", g.Key)
		}
		seen[g.Key] = struct{}{}

		item, err := content.NewItem(module.ID, g.Key, i, g.Payload)
		if err != nil {
			return nil, fmt.Errorf("content.NewItem(%s) > %w", g.Key, err)
		}
		doc.Items = append(doc.Items, item)
	}
	return doc, nil
}
