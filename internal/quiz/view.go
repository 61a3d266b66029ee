package quiz

import "github.com/pavelanni/greeting/internal/model"

// Mark tells a renderer how to draw an option once the item is answered.
type Mark string

const (
	MarkNone    Mark = ""
	MarkCorrect Mark = "correct"
	MarkWrong   Mark = "wrong"
	MarkDimmed  Mark = "dimmed"
)

// OptionView is one rendered option.
type OptionView struct {
	Index  int
	Letter string
	Label  string
	Mark   Mark
}

// View is a read-only projection of a session for renderers.
type View struct {
	State     State
	Position  int // 1-based
	Total     int
	Score     int
	Answered  int
	Item      model.QuizItem
	Options   []OptionView
	HasAnswer bool
	Correct   bool
	Feedback  string
	IsLast    bool
}

// Snapshot builds the view of the current state.
func (s *Session) Snapshot() View {
	v := View{
		State:    s.State(),
		Total:    len(s.items),
		Score:    s.score,
		Answered: s.Answered(),
	}
	if s.finished {
		v.Position = len(s.items)
		return v
	}

	item := s.items[s.index]
	v.Position = s.index + 1
	v.Item = item
	v.IsLast = s.index == len(s.items)-1
	v.HasAnswer = s.selected != NoSelection
	if v.HasAnswer {
		v.Correct = s.selected == item.Correct
		if v.Correct {
			v.Feedback = item.Explanation
		} else {
			v.Feedback = item.WrongExplanation
		}
	}

	for i, label := range item.Options {
		v.Options = append(v.Options, OptionView{
			Index:  i,
			Letter: string(rune('A' + i)),
			Label:  label,
			Mark:   s.markFor(i, item.Correct),
		})
	}
	return v
}

func (s *Session) markFor(option, correct int) Mark {
	switch {
	case s.selected == NoSelection:
		return MarkNone
	case option == correct:
		return MarkCorrect
	case option == s.selected:
		return MarkWrong
	default:
		return MarkDimmed
	}
}
