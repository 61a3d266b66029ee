package quiz

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/cucumber/godog"
)

func TestQuizFeatures(t *testing.T) {
	options := godog.Options{
		Format:    "progress",
		Paths:     []string{filepath.Join("testdata", "features")},
		Output:    io.Discard,
		TestingT:  t,
		Randomize: 0,
	}

	suite := godog.TestSuite{
		Name:                "quiz-features",
		ScenarioInitializer: initializeQuizScenario,
		Options:             &options,
	}

	if suite.Run() != 0 {
		t.Fatalf("quiz features failed")
	}
}

// quizFeature holds scenario state. Planned answers are keyed by 1-based
// question number and played in order as soon as the current question has one.
type quizFeature struct {
	session *Session
	plan    map[int]bool
}

var questionNumbers = regexp.MustCompile(`\d+`)

func initializeQuizScenario(ctx *godog.ScenarioContext) {
	f := &quizFeature{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		f.session = nil
		f.plan = map[int]bool{}
		return ctx, nil
	})

	ctx.Step(`^a quiz with (\d+) questions$`, f.aQuizWithQuestions)
	ctx.Step(`^I answer questions ([\d, and]+) (correctly|incorrectly)$`, f.iAnswerQuestions)
	ctx.Step(`^I select the correct option$`, f.iSelectTheCorrectOption)
	ctx.Step(`^I press next$`, f.iPressNext)
	ctx.Step(`^I play again$`, f.iPlayAgain)
	ctx.Step(`^the score is (\d+)$`, f.theScoreIs)
	ctx.Step(`^I am on question (\d+)$`, f.iAmOnQuestion)
	ctx.Step(`^the quiz is finished$`, f.theQuizIsFinished)
	ctx.Step(`^the quiz is not finished$`, f.theQuizIsNotFinished)
}

func (f *quizFeature) aQuizWithQuestions(n int) error {
	f.session = New(testItems(n))
	return nil
}

func (f *quizFeature) iAnswerQuestions(list, how string) error {
	for _, m := range questionNumbers.FindAllString(list, -1) {
		n, err := strconv.Atoi(m)
		if err != nil {
			return err
		}
		f.plan[n] = how == "correctly"
	}
	return f.playPlanned()
}

func (f *quizFeature) playPlanned() error {
	s := f.session
	for !s.Finished() {
		n := s.Index() + 1
		correct, ok := f.plan[n]
		if !ok {
			return nil
		}
		delete(f.plan, n)
		item := s.items[s.Index()]
		opt := item.Correct
		if !correct {
			opt = 1 - item.Correct
		}
		if !s.Select(opt) {
			return fmt.Errorf("selection on question %d was ignored", n)
		}
		if !s.Advance() {
			return fmt.Errorf("advance from question %d was ignored", n)
		}
	}
	return nil
}

func (f *quizFeature) iSelectTheCorrectOption() error {
	if f.session.Finished() {
		return fmt.Errorf("quiz already finished")
	}
	f.session.Select(f.session.items[f.session.Index()].Correct)
	return nil
}

func (f *quizFeature) iPressNext() error {
	f.session.Advance()
	return nil
}

func (f *quizFeature) iPlayAgain() error {
	f.session.Reset()
	f.plan = map[int]bool{}
	return nil
}

func (f *quizFeature) theScoreIs(want int) error {
	if got := f.session.Score(); got != want {
		return fmt.Errorf("score = %d, want %d", got, want)
	}
	return nil
}

func (f *quizFeature) iAmOnQuestion(want int) error {
	if f.session.Finished() {
		return fmt.Errorf("quiz is finished, want question %d", want)
	}
	if got := f.session.Index() + 1; got != want {
		return fmt.Errorf("on question %d, want %d", got, want)
	}
	return nil
}

func (f *quizFeature) theQuizIsFinished() error {
	if !f.session.Finished() {
		return fmt.Errorf("quiz not finished, on question %d", f.session.Index()+1)
	}
	return nil
}

func (f *quizFeature) theQuizIsNotFinished() error {
	if f.session.Finished() {
		return fmt.Errorf("quiz finished unexpectedly")
	}
	return nil
}
