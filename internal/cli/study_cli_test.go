package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/recall/internal/content"
	mock_cli "github.com/at-ishikawa/recall/internal/mocks/cli"
	"github.com/at-ishikawa/recall/internal/scheduler"
	"github.com/at-ishikawa/recall/internal/session"
	"github.com/at-ishikawa/recall/internal/study"
	"github.com/at-ishikawa/recall/internal/testutil"
)

const (
	testLearnerID = int64(7)
	testModuleID  = int64(3)
	testSessionID = "6f1c2d3e-4b5a-4c6d-8e7f-901a2b3c4d5e"
)

func newItem(t *testing.T, id int64, payload content.Payload) study.ItemView {
	t.Helper()
	return study.ItemView{Item: testutil.NewItem(t, testModuleID, id, fmt.Sprintf("item-%d", id), int(id), payload)}
}

func TestStudyCLI_Run(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	flashcard := newItem(t, 1, content.Flashcard{Front: "Capital of France", Back: "Paris"})
	choice := newItem(t, 2, content.MultipleChoice{Question: "2 + 2", Choices: []string{"3", "4", "5"}, AnswerIndex: 1})
	gap := newItem(t, 3, content.GapFill{Text: "The sky is ___", Answers: []string{"blue"}})
	statement := newItem(t, 4, content.TrueFalse{Statement: "Water boils at 100C at sea level", Answer: true})
	allItems := []study.ItemView{flashcard, choice, gap, statement}

	errStorage := errors.New("storage failure")

	tests := []struct {
		name         string
		input        string
		items        []study.ItemView
		setupMock    func(m *mock_cli.MockStudyService)
		want         Result
		wantErr      error
		wantContains []string
	}{
		{
			name:  "every item type is graded",
			input: "  PARIS \n2\nred\nmaybe\nt\n",
			items: allItems,
			setupMock: func(m *mock_cli.MockStudyService) {
				gomock.InOrder(
					m.EXPECT().RecordAnswer(gomock.Any(), testLearnerID, testSessionID, int64(1), 5, gomock.Any()).
						Return(&scheduler.State{Interval: 1, EaseFactor: 2.6, Repetition: 1}, nil),
					m.EXPECT().RecordAnswer(gomock.Any(), testLearnerID, testSessionID, int64(2), 5, gomock.Any()).Return(nil, nil),
					m.EXPECT().RecordAnswer(gomock.Any(), testLearnerID, testSessionID, int64(3), 1, gomock.Any()).Return(nil, nil),
					m.EXPECT().RecordAnswer(gomock.Any(), testLearnerID, testSessionID, int64(4), 5, gomock.Any()).Return(nil, nil),
					m.EXPECT().EndSession(gomock.Any(), testLearnerID, testSessionID).Return(nil),
				)
			},
			want: Result{SessionID: testSessionID, Served: 4, Answered: 4, Correct: 3},
			wantContains: []string{
				"It's correct. The answer is Paris",
				"Next review in 1 day(s)",
				"It's wrong. The answer is blue",
				"Enter t or f.",
				"Answered 4 of 4, 3 correct.",
			},
		},
		{
			name:  "wrong flashcard is self rated",
			input: "lyon\n9\n2\n",
			items: []study.ItemView{flashcard},
			setupMock: func(m *mock_cli.MockStudyService) {
				m.EXPECT().RecordAnswer(gomock.Any(), testLearnerID, testSessionID, int64(1), 2, gomock.Any()).
					Return(&scheduler.State{Interval: 1, EaseFactor: 2.18}, nil)
				m.EXPECT().EndSession(gomock.Any(), testLearnerID, testSessionID).Return(nil)
			},
			want:         Result{SessionID: testSessionID, Served: 1, Answered: 1},
			wantContains: []string{"Answer: Paris", "Enter a number between 0 and 5."},
		},
		{
			name:  "quit stops before recording",
			input: "4\n1\nq\n",
			items: []study.ItemView{choice, flashcard},
			setupMock: func(m *mock_cli.MockStudyService) {
				m.EXPECT().RecordAnswer(gomock.Any(), testLearnerID, testSessionID, int64(2), 1, gomock.Any()).Return(nil, nil)
				m.EXPECT().EndSession(gomock.Any(), testLearnerID, testSessionID).Return(nil)
			},
			want:         Result{SessionID: testSessionID, Served: 2, Answered: 1},
			wantContains: []string{"Enter a number between 1 and 3.", "Answered 1 of 2, 0 correct."},
		},
		{
			name:  "end of input ends the session",
			input: "",
			items: allItems,
			setupMock: func(m *mock_cli.MockStudyService) {
				m.EXPECT().EndSession(gomock.Any(), testLearnerID, testSessionID).Return(nil)
			},
			want: Result{SessionID: testSessionID, Served: 4},
		},
		{
			name:  "last line without newline is read",
			input: "f",
			items: []study.ItemView{statement},
			setupMock: func(m *mock_cli.MockStudyService) {
				m.EXPECT().RecordAnswer(gomock.Any(), testLearnerID, testSessionID, int64(4), 1, gomock.Any()).Return(nil, nil)
				m.EXPECT().EndSession(gomock.Any(), testLearnerID, testSessionID).Return(nil)
			},
			want: Result{SessionID: testSessionID, Served: 1, Answered: 1},
		},
		{
			name:  "record failure still ends the session",
			input: "paris\n",
			items: []study.ItemView{flashcard},
			setupMock: func(m *mock_cli.MockStudyService) {
				m.EXPECT().RecordAnswer(gomock.Any(), testLearnerID, testSessionID, int64(1), 5, gomock.Any()).Return(nil, errStorage)
				m.EXPECT().EndSession(gomock.Any(), testLearnerID, testSessionID).Return(nil)
			},
			want:    Result{SessionID: testSessionID, Served: 1},
			wantErr: errStorage,
		},
		{
			name:  "end failure is returned",
			input: "",
			items: []study.ItemView{flashcard},
			setupMock: func(m *mock_cli.MockStudyService) {
				m.EXPECT().EndSession(gomock.Any(), testLearnerID, testSessionID).Return(study.ErrInvalidSession)
			},
			want:    Result{SessionID: testSessionID, Served: 1},
			wantErr: study.ErrInvalidSession,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := mock_cli.NewMockStudyService(ctrl)
			service.EXPECT().StartSession(gomock.Any(), testLearnerID, testModuleID, session.ModeNormal).
				Return(&study.StartedSession{
					ID:       testSessionID,
					ModuleID: testModuleID,
					Mode:     session.ModeNormal,
					Items:    tt.items,
				}, nil)
			tt.setupMock(service)

			var out bytes.Buffer
			cli := NewStudyCLI(service, testLearnerID, 3, strings.NewReader(tt.input), &out)
			got, err := cli.Run(context.Background(), testModuleID, session.ModeNormal)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			for _, want := range tt.wantContains {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestStudyCLI_Run_StartFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mock_cli.NewMockStudyService(ctrl)
	service.EXPECT().StartSession(gomock.Any(), testLearnerID, testModuleID, session.ModeSM2).
		Return(nil, study.ErrNoItemsAvailable)

	cli := NewStudyCLI(service, testLearnerID, 3, strings.NewReader(""), &bytes.Buffer{})
	got, err := cli.Run(context.Background(), testModuleID, session.ModeSM2)
	assert.ErrorIs(t, err, study.ErrNoItemsAvailable)
	assert.Equal(t, Result{}, got)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "new york", normalize("  New   York\t"))
	assert.Equal(t, "", normalize(" "))
}
