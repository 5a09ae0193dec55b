// Package cli runs interactive study sessions in a terminal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/at-ishikawa/recall/internal/content"
	"github.com/at-ishikawa/recall/internal/scheduler"
	"github.com/at-ishikawa/recall/internal/session"
	"github.com/at-ishikawa/recall/internal/study"
)

const (
	qualityCorrect = 5
	qualityWrong   = 1
	quitCommand    = "q"
)

// errQuit is returned by a prompt when the learner asks to stop.
var errQuit = errors.New("quit")

//go:generate mockgen -source=study_cli.go -destination=../mocks/cli/mock_study_service.go -package=mock_cli

type StudyService interface {
	StartSession(ctx context.Context, learnerID, moduleID int64, mode session.Mode) (*study.StartedSession, error)
	RecordAnswer(ctx context.Context, learnerID int64, sessionID string, itemID int64, quality int, durationMs int64) (*scheduler.State, error)
	EndSession(ctx context.Context, learnerID int64, sessionID string) error
}

// Result counts what happened in one run of StudyCLI.
type Result struct {
	SessionID string
	Served    int
	Answered  int
	Correct   int
}

// StudyCLI presents each item of a session, grades the typed answer and
// records it.
type StudyCLI struct {
	service        StudyService
	learnerID      int64
	passingQuality int
	in             *bufio.Reader
	out            io.Writer
	now            func() time.Time
	bold           *color.Color
	italic         *color.Color
	green          *color.Color
	red            *color.Color
}

func NewStudyCLI(service StudyService, learnerID int64, passingQuality int, in io.Reader, out io.Writer) *StudyCLI {
	return &StudyCLI{
		service:        service,
		learnerID:      learnerID,
		passingQuality: passingQuality,
		in:             bufio.NewReader(in),
		out:            out,
		now:            time.Now,
		bold:           color.New(color.Bold),
		italic:         color.New(color.Italic),
		green:          color.New(color.FgGreen),
		red:            color.New(color.FgRed),
	}
}

// Run studies one module until every served item is answered, the input
// ends, or the learner types "q". The session is ended in every case.
func (cli *StudyCLI) Run(ctx context.Context, moduleID int64, mode session.Mode) (result Result, err error) {
	started, err := cli.service.StartSession(ctx, cli.learnerID, moduleID, mode)
	if err != nil {
		return result, fmt.Errorf("service.StartSession(module=%d, mode=%s) > %w", moduleID, mode, err)
	}
	result.SessionID = started.ID
	result.Served = len(started.Items)
	defer func() {
		if endErr := cli.service.EndSession(context.WithoutCancel(ctx), cli.learnerID, started.ID); endErr != nil {
			err = errors.Join(err, fmt.Errorf("service.EndSession(%s) > %w", started.ID, endErr))
		}
	}()

	_, _ = fmt.Fprintf(cli.out, "Studying %d items in %s mode. Type %s to stop.\n\n", len(started.Items), mode, quitCommand)
	for i, view := range started.Items {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		_, _ = cli.bold.Fprintf(cli.out, "[%d/%d] ", i+1, len(started.Items))
		if view.Stale {
			_, _ = cli.italic.Fprint(cli.out, "(changed since you last studied it) ")
		}

		askedAt := cli.now()
		quality, err := cli.ask(view.Item)
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, err
		}

		state, err := cli.service.RecordAnswer(ctx, cli.learnerID, started.ID, view.Item.ID, quality,
			cli.now().Sub(askedAt).Milliseconds())
		if err != nil {
			return result, fmt.Errorf("service.RecordAnswer(item=%d) > %w", view.Item.ID, err)
		}
		result.Answered++
		if quality >= cli.passingQuality {
			result.Correct++
		}
		if state != nil {
			_, _ = fmt.Fprintf(cli.out, "   Next review in %d day(s)\n", state.Interval)
		}
		_, _ = fmt.Fprintln(cli.out)
	}

	_, _ = fmt.Fprintf(cli.out, "Answered %d of %d, %d correct.\n", result.Answered, result.Served, result.Correct)
	return result, nil
}

// ask presents the item and returns the quality of the learner's answer.
func (cli *StudyCLI) ask(item content.Item) (int, error) {
	switch p := item.Payload.(type) {
	case content.Flashcard:
		return cli.askFlashcard(p)
	case content.MultipleChoice:
		return cli.askMultipleChoice(p)
	case content.GapFill:
		return cli.askGapFill(p)
	case content.TrueFalse:
		return cli.askTrueFalse(p)
	}
	return 0, fmt.Errorf("item %d: %w: %T", item.ID, content.ErrUnknownItemType, item.Payload)
}

func (cli *StudyCLI) askFlashcard(card content.Flashcard) (int, error) {
	_, _ = cli.bold.Fprintln(cli.out, card.Front)
	if card.Hint != "" {
		_, _ = cli.italic.Fprintf(cli.out, "Hint: %s\n", card.Hint)
	}
	answer, err := cli.readLine("> ")
	if err != nil {
		return 0, err
	}

	if normalize(answer) == normalize(card.Back) {
		cli.correct(card.Back)
		return qualityCorrect, nil
	}
	_, _ = fmt.Fprintf(cli.out, "Answer: %s\n", cli.italic.Sprint(card.Back))
	for {
		line, err := cli.readLine("How well did you recall it? [0-5]: ")
		if err != nil {
			return 0, err
		}
		q, convErr := strconv.Atoi(line)
		if convErr == nil && q >= 0 && q <= 5 {
			return q, nil
		}
		_, _ = fmt.Fprintln(cli.out, "Enter a number between 0 and 5.")
	}
}

func (cli *StudyCLI) askMultipleChoice(mc content.MultipleChoice) (int, error) {
	_, _ = cli.bold.Fprintln(cli.out, mc.Question)
	for i, choice := range mc.Choices {
		_, _ = fmt.Fprintf(cli.out, "  %d. %s\n", i+1, choice)
	}
	for {
		line, err := cli.readLine("> ")
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < 1 || n > len(mc.Choices) {
			_, _ = fmt.Fprintf(cli.out, "Enter a number between 1 and %d.\n", len(mc.Choices))
			continue
		}
		return cli.grade(n-1 == mc.AnswerIndex, mc.Choices[mc.AnswerIndex]), nil
	}
}

func (cli *StudyCLI) askGapFill(gf content.GapFill) (int, error) {
	_, _ = cli.bold.Fprintln(cli.out, gf.Text)
	ok := true
	for i, want := range gf.Answers {
		answer, err := cli.readLine(fmt.Sprintf("Gap %d: ", i+1))
		if err != nil {
			return 0, err
		}
		if normalize(answer) != normalize(want) {
			ok = false
		}
	}
	return cli.grade(ok, strings.Join(gf.Answers, ", ")), nil
}

func (cli *StudyCLI) askTrueFalse(tf content.TrueFalse) (int, error) {
	_, _ = cli.bold.Fprintln(cli.out, tf.Statement)
	for {
		line, err := cli.readLine("True or false? [t/f]: ")
		if err != nil {
			return 0, err
		}
		var answer bool
		switch strings.ToLower(line) {
		case "t", "true", "y", "yes":
			answer = true
		case "f", "false", "n", "no":
			answer = false
		default:
			_, _ = fmt.Fprintln(cli.out, "Enter t or f.")
			continue
		}
		return cli.grade(answer == tf.Answer, strconv.FormatBool(tf.Answer)), nil
	}
}

func (cli *StudyCLI) grade(ok bool, expected string) int {
	if ok {
		cli.correct(expected)
		return qualityCorrect
	}
	_, _ = fmt.Fprint(cli.out, "❌ ")
	_, _ = cli.red.Fprintf(cli.out, "It's wrong. The answer is %s\n", cli.bold.Sprint(expected))
	return qualityWrong
}

func (cli *StudyCLI) correct(expected string) {
	_, _ = fmt.Fprint(cli.out, "✅ ")
	_, _ = cli.green.Fprintf(cli.out, "It's correct. The answer is %s\n", cli.bold.Sprint(expected))
}

// readLine returns the trimmed line, errQuit for the quit command, or io.EOF
// once input is exhausted.
func (cli *StudyCLI) readLine(prompt string) (string, error) {
	_, _ = fmt.Fprint(cli.out, prompt)
	line, err := cli.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line == "" {
		return "", io.EOF
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("error reading input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == quitCommand {
		return "", errQuit
	}
	return line, nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
