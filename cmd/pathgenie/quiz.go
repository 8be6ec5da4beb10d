package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/pathgenie/internal/analysis"
	"github.com/jonathan/pathgenie/internal/chat"
	"github.com/jonathan/pathgenie/internal/questionnaire"
	"github.com/jonathan/pathgenie/internal/report"
	"github.com/jonathan/pathgenie/internal/session"
	"github.com/jonathan/pathgenie/internal/types"
	"github.com/spf13/cobra"
)

var (
	quizEmail   string
	quizReport  string
	quizShare   bool
	quizNoChat  bool
	quizNoColor bool
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take the career quiz in the terminal",
	Long: `Walks through every question, sends the answers for analysis and prints the ranked career matches.
Afterwards follow-up questions can be asked until a blank line is entered.

While answering: press Enter to keep the current answer, type "back" to return to the previous question.
Select questions accept an option number or value; multi-select questions accept a comma-separated list.`,
	RunE: runQuizCmd,
}

func init() {
	quizCmd.Flags().StringVar(&quizEmail, "email", "", "Email to start the session with (prompted when empty)")
	quizCmd.Flags().StringVarP(&quizReport, "report", "o", "", "Write the HTML report to this path")
	quizCmd.Flags().BoolVar(&quizShare, "share", false, "Save the result and print its share id")
	quizCmd.Flags().BoolVar(&quizNoChat, "no-chat", false, "Skip the follow-up chat")
	quizCmd.Flags().BoolVar(&quizNoColor, "no-color", false, "Disable colored output")
	rootCmd.AddCommand(quizCmd)
}

func runQuizCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	t := newTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), !quizNoColor && stdoutIsTerminal())
	return runQuiz(ctx, t, a.manager, quizOptions{
		Email:         quizEmail,
		ReportPath:    quizReport,
		Share:         quizShare,
		Chat:          !quizNoChat,
		StageInterval: analysis.StageInterval,
	})
}

type quizOptions struct {
	Email         string
	ReportPath    string
	Share         bool
	Chat          bool
	StageInterval time.Duration
}

// runQuiz drives one session from the email prompt to the results.
func runQuiz(ctx context.Context, t *terminal, m *session.Manager, opts quizOptions) error {
	t.println(t.heading, "PathGenie: discover your career path")

	sess, err := startSession(ctx, t, m, opts.Email)
	if err != nil {
		return err
	}
	defer m.Delete(context.WithoutCancel(ctx), sess.ID) //nolint:errcheck

	for sess.Step != session.StepResults {
		switch sess.Step {
		case session.StepQuestionnaire:
			if sess, err = askCurrent(ctx, t, m, sess); err != nil {
				return err
			}
		case session.StepAnalysis:
			if sess, err = analyze(ctx, t, m, sess.ID, opts.StageInterval); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unexpected step %q", sess.Step)
		}
	}

	view, err := m.View(ctx, sess.ID)
	if err != nil {
		return err
	}
	t.printer.PrintView(view)

	if opts.Share {
		shared, err := m.Share(ctx, sess.ID)
		if err != nil {
			t.println(t.warn, "Could not share the result: %v", err)
		} else {
			t.println(t.ok, "Shared as %s (view it with: pathgenie show %s)", shared.ID, shared.ID)
		}
	}

	if opts.ReportPath != "" {
		if err := writeReport(opts.ReportPath, sess.Result, sess.Email); err != nil {
			return err
		}
		t.println(t.ok, "Report written to %s", opts.ReportPath)
	}

	if opts.Chat {
		return chatLoop(ctx, t, m, sess.ID)
	}
	return nil
}

func startSession(ctx context.Context, t *terminal, m *session.Manager, email string) (*session.Session, error) {
	for {
		if email == "" {
			var err error
			if email, err = t.ask("Email: "); err != nil {
				return nil, quizInputError(err)
			}
		}
		sess, err := m.Start(ctx, email)
		if err == nil {
			return sess, nil
		}
		t.println(t.warn, "Please enter a valid email address.")
		email = ""
	}
}

// askCurrent asks the current question once and applies the reply.
func askCurrent(ctx context.Context, t *terminal, m *session.Manager, sess *session.Session) (*session.Session, error) {
	ctrl, err := questionnaire.Restore(m.Catalog(), sess.Questionnaire)
	if err != nil {
		return nil, err
	}
	q := ctrl.Current()

	t.println(t.hint, "\nQuestion %d of %d (%.0f%%)", ctrl.Index()+1, ctrl.Total(), ctrl.Progress())
	t.println(t.heading, "%s", q.Prompt)
	if q.HelperText != "" {
		t.println(t.hint, "%s", q.HelperText)
	}
	for i, opt := range q.Options {
		t.println(t.prompt, "  %d) %s", i+1, opt.Label)
	}
	if q.Kind == types.KindRating {
		t.println(t.hint, "  Rate from %d to %d", types.MinRating, types.MaxRating)
	}
	if current, ok := ctrl.Answer(q.ID); ok && !current.IsEmpty() {
		t.println(t.hint, "  Current answer: %s", current.String())
	}

	line, err := t.ask("> ")
	if err != nil {
		return nil, quizInputError(err)
	}

	if strings.EqualFold(line, "back") {
		return m.Back(ctx, sess.ID)
	}
	if line != "" {
		raw, err := encodeAnswer(q, line)
		if err != nil {
			t.println(t.warn, "%v", err)
			return sess, nil
		}
		updated, err := m.Answer(ctx, sess.ID, q.ID, raw)
		if err != nil {
			var invalid *questionnaire.InvalidAnswerError
			if errors.As(err, &invalid) {
				t.println(t.warn, "%s", invalid.Message)
				return sess, nil
			}
			return nil, err
		}
		sess = updated
	}

	next, err := m.Next(ctx, sess.ID)
	if err != nil {
		var unanswered *questionnaire.ValidationError
		if errors.As(err, &unanswered) {
			t.println(t.warn, "This question needs an answer.")
			return sess, nil
		}
		return nil, err
	}
	return next, nil
}

// encodeAnswer converts a typed line into the JSON value expected for the question kind.
// Option numbers are resolved to option values.
func encodeAnswer(q types.Question, line string) (json.RawMessage, error) {
	switch q.Kind {
	case types.KindSelect:
		return json.Marshal(optionValue(q, line))
	case types.KindMultiSelect:
		var values []string
		for _, part := range strings.Split(line, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, optionValue(q, part))
			}
		}
		return json.Marshal(values)
	case types.KindRating:
		n, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("enter a number from %d to %d", types.MinRating, types.MaxRating)
		}
		return json.Marshal(n)
	default:
		return json.Marshal(line)
	}
}

func optionValue(q types.Question, input string) string {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1].Value
	}
	for _, opt := range q.Options {
		if strings.EqualFold(opt.Label, input) {
			return opt.Value
		}
	}
	return input
}

// analyze runs the analysis while printing the stage labels.
func analyze(ctx context.Context, t *terminal, m *session.Manager, id string, interval time.Duration) (*session.Session, error) {
	t.println(t.heading, "\nAnalyzing your answers...")

	stageCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	total := len(analysis.Stages())
	go func() {
		defer close(done)
		analysis.RunStages(stageCtx, interval, func(i int, label string) {
			t.printer.PrintStage(i, total, label)
		})
	}()

	sess, err := m.Analyze(ctx, id)
	stop()
	<-done

	if err != nil {
		if sess == nil {
			return nil, err
		}
		t.println(t.fail, "%s", sess.LastError)
		t.println(t.hint, "Your answers are kept. Press Enter to confirm each one and try again.")
	}
	return sess, nil
}

func chatLoop(ctx context.Context, t *terminal, m *session.Manager, id string) error {
	t.println(t.heading, "\nAsk PathGenie about your results (blank line to finish). Try:")
	for _, q := range chat.SuggestedQuestions() {
		t.println(t.hint, "  - %s", q)
	}

	for {
		line, err := t.ask("You: ")
		if errors.Is(err, io.EOF) || (err == nil && line == "") {
			return nil
		}
		if err != nil {
			return err
		}

		reply, err := m.Chat(ctx, id, line)
		if err != nil {
			return err
		}
		t.printer.PrintTurn(reply)
	}
}

func writeReport(path string, result *types.AnalysisResult, email string) error {
	html, err := report.Render(result, email)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func quizInputError(err error) error {
	if errors.Is(err, io.EOF) {
		return errors.New("input ended before the quiz was finished")
	}
	return err
}
