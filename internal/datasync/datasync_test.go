package datasync

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/recall/internal/content"
	mock_content "github.com/at-ishikawa/recall/internal/mocks/content"
)

func newItem(t *testing.T, id int64, key string, position int, payload content.Payload) content.Item {
	t.Helper()
	item, err := content.NewItem(3, key, position, payload)
	require.NoError(t, err)
	item.ID = id
	return item
}

func TestImporter_Import(t *testing.T) {
	france := content.Flashcard{Front: "France", Back: "Paris"}
	peru := content.Flashcard{Front: "Peru", Back: "Lima"}
	japan := content.Flashcard{Front: "Japan", Back: "Tokyo"}
	module := content.Module{ID: 3, Title: "Capitals", OwnerID: 7}

	tests := []struct {
		name  string
		doc   func(t *testing.T) *Document
		opts  ImportOptions
		setup func(t *testing.T, repo *mock_content.MockRepository)
		want  *ImportResult
	}{
		{
			name: "new module is created with its items",
			doc: func(t *testing.T) *Document {
				return &Document{
					Module: content.Module{Title: "Capitals", OwnerID: 7},
					Items:  []content.Item{newItem(t, 0, "france", 0, france), newItem(t, 0, "peru", 1, peru)},
				}
			},
			setup: func(t *testing.T, repo *mock_content.MockRepository) {
				repo.EXPECT().SaveModule(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m *content.Module) error {
						m.ID = 9
						return nil
					})
				var positions []int
				repo.EXPECT().CreateItem(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, item *content.Item) error {
						assert.Equal(t, int64(9), item.ModuleID)
						positions = append(positions, item.Position)
						return nil
					}).Times(2)
				t.Cleanup(func() { assert.Equal(t, []int{0, 1}, positions) })
			},
			want: &ImportResult{ModuleID: 9, ModuleCreated: true, ItemsNew: 2},
		},
		{
			name: "existing items are skipped, updated, or moved",
			doc: func(t *testing.T) *Document {
				return &Document{
					Module: module,
					Items: []content.Item{
						newItem(t, 0, "france", 0, france),
						newItem(t, 0, "japan", 1, japan),
						newItem(t, 0, "peru", 2, content.Flashcard{Front: "Peru", Back: "Lima", Hint: "Pacific coast"}),
					},
				}
			},
			setup: func(t *testing.T, repo *mock_content.MockRepository) {
				stored := []content.Item{
					newItem(t, 10, "france", 0, france),
					newItem(t, 11, "peru", 1, peru),
					newItem(t, 12, "japan", 2, japan),
					newItem(t, 13, "chile", 3, content.Flashcard{Front: "Chile", Back: "Santiago"}),
				}
				stored[1].Version = 2
				repo.EXPECT().FindModule(gomock.Any(), int64(3)).Return(&module, nil)
				repo.EXPECT().GetModuleItems(gomock.Any(), int64(3)).Return(stored, nil)
				repo.EXPECT().SaveModule(gomock.Any(), gomock.Any()).Return(nil)
				repo.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, item *content.Item) error {
						assert.Equal(t, int64(12), item.ID)
						assert.Equal(t, 1, item.Position)
						assert.Equal(t, 1, item.Version)
						return nil
					})
				repo.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, item *content.Item) error {
						assert.Equal(t, int64(11), item.ID)
						assert.Equal(t, 3, item.Version)
						assert.Equal(t, "Pacific coast", item.Payload.(content.Flashcard).Hint)
						return nil
					})
			},
			want: &ImportResult{
				ModuleID:      3,
				ItemsUpdated:  1,
				ItemsMoved:    1,
				ItemsSkipped:  1,
				ItemsUnlisted: 1,
				StaleProgress: []string{"peru"},
			},
		},
		{
			name: "dry run writes nothing",
			doc: func(t *testing.T) *Document {
				return &Document{
					Module: module,
					Items:  []content.Item{newItem(t, 0, "france", 0, content.Flashcard{Front: "France", Back: "Paris!"}), newItem(t, 0, "peru", 1, peru)},
				}
			},
			opts: ImportOptions{DryRun: true},
			setup: func(t *testing.T, repo *mock_content.MockRepository) {
				repo.EXPECT().FindModule(gomock.Any(), int64(3)).Return(&module, nil)
				repo.EXPECT().GetModuleItems(gomock.Any(), int64(3)).Return([]content.Item{newItem(t, 10, "france", 0, france)}, nil)
			},
			want: &ImportResult{ModuleID: 3, ItemsNew: 1, ItemsUpdated: 1, StaleProgress: []string{"france"}},
		},
		{
			name: "append places new items after existing ones",
			doc: func(t *testing.T) *Document {
				return &Document{
					Module: module,
					Items:  []content.Item{newItem(t, 0, "japan", 0, japan)},
				}
			},
			opts: ImportOptions{Append: true},
			setup: func(t *testing.T, repo *mock_content.MockRepository) {
				repo.EXPECT().FindModule(gomock.Any(), int64(3)).Return(&module, nil)
				repo.EXPECT().GetModuleItems(gomock.Any(), int64(3)).
					Return([]content.Item{newItem(t, 10, "france", 0, france), newItem(t, 11, "peru", 4, peru)}, nil)
				repo.EXPECT().SaveModule(gomock.Any(), gomock.Any()).Return(nil)
				repo.EXPECT().CreateItem(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, item *content.Item) error {
						assert.Equal(t, 5, item.Position)
						return nil
					})
			},
			want: &ImportResult{ModuleID: 3, ItemsNew: 1, ItemsUnlisted: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_content.NewMockRepository(ctrl)
			tt.setup(t, repo)

			var out bytes.Buffer
			got, err := NewImporter(repo, &out).Import(context.Background(), tt.doc(t), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImporter_Import_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_content.NewMockRepository(ctrl)
	repo.EXPECT().SaveModule(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().CreateItem(gomock.Any(), gomock.Any()).Return(fmt.Errorf("duplicate entry"))

	doc := &Document{
		Module: content.Module{Title: "Capitals"},
		Items:  []content.Item{newItem(t, 0, "france", 0, content.Flashcard{Front: "France", Back: "Paris"})},
	}
	var out bytes.Buffer
	_, err := NewImporter(repo, &out).Import(context.Background(), doc, ImportOptions{})
	assert.ErrorContains(t, err, "duplicate entry")
}
