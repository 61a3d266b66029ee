package views

import (
	"github.com/a-h/templ"

	"github.com/pavelanni/greeting/internal/effects"
	"github.com/pavelanni/greeting/internal/model"
	"github.com/pavelanni/greeting/internal/quiz"
	"github.com/pavelanni/greeting/internal/wakeup"
)

// QuizData is what the quiz card needs.
type QuizData struct {
	View  quiz.View
	Intro model.QuizIntro
}

// IndexData is the full greeting page.
type IndexData struct {
	Content  model.Content
	Quiz     QuizData
	Hearts   []effects.Heart
	Confetti []effects.Burst
}

// WakeUpData is the wake-up widget at one moment.
type WakeUpData struct {
	Content   model.WakeUp
	Clicks    int
	Energy    int
	Charged   bool
	Messages  []wakeup.Message
	FunFacts  bool
	Special   bool
	Burst     *effects.Options
	RefreshMs int64 // 0 when nothing changes without a click
}

func IndexPage(d IndexData) templ.Component { return render("index", d) }

// QuizCard is the quiz fragment swapped in by HTMX.
func QuizCard(d QuizData) templ.Component { return render("quiz", d) }

func WakeUpPage(d WakeUpData) templ.Component { return render("wakeup", d) }

// WakeUpWidget is the wake-up fragment swapped in by HTMX.
func WakeUpWidget(d WakeUpData) templ.Component { return render("wakeup_widget", d) }

// UnlockPage asks for the passphrase; errMsg is shown after a wrong attempt.
func UnlockPage(errMsg string) templ.Component { return render("unlock", errMsg) }
