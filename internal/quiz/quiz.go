// Package quiz drives a linear two-option quiz: one item at a time, at most
// one scored selection per item, and a final score once the last item has
// been advanced past.
//
// A Session is owned by a single caller and is not safe for concurrent use.
// Invalid calls (selecting twice, advancing without a selection, anything
// after the quiz has finished except Reset) are absorbed and reported with a
// false return value; they never panic.
package quiz

import "github.com/pavelanni/greeting/internal/model"

// NoSelection marks an item that has not been answered yet.
const NoSelection = -1

// State is the coarse state of a session.
type State string

const (
	// StateInProgress means an item is on screen, answered or not.
	StateInProgress State = "in_progress"
	// StateFinished means every item was answered and advanced past.
	StateFinished State = "finished"
)

// Session is the mutable progress of one playthrough.
type Session struct {
	items    []model.QuizItem
	index    int
	selected int
	score    int
	finished bool
}

// New creates a session positioned on the first item. A session without
// items starts finished.
func New(items []model.QuizItem) *Session {
	s := &Session{items: items}
	s.Reset()
	return s
}

// Reset returns the session to its initial state regardless of where it is.
func (s *Session) Reset() {
	s.index = 0
	s.selected = NoSelection
	s.score = 0
	s.finished = len(s.items) == 0
}

// Select records the answer for the current item. It returns false and
// leaves the session untouched once the item is answered or the quiz is
// finished. An out-of-range option is ignored the same way.
func (s *Session) Select(option int) bool {
	if s.finished || s.selected != NoSelection {
		return false
	}
	item := s.items[s.index]
	if option < 0 || option >= len(item.Options) {
		return false
	}
	s.selected = option
	if option == item.Correct {
		s.score++
	}
	return true
}

// Advance moves past the current item. It returns false without a selection
// or once finished. Advancing from the last item finishes the quiz.
func (s *Session) Advance() bool {
	if s.finished || s.selected == NoSelection {
		return false
	}
	if s.index == len(s.items)-1 {
		s.finished = true
		return true
	}
	s.index++
	s.selected = NoSelection
	return true
}

// State reports whether the quiz is in progress or finished.
func (s *Session) State() State {
	if s.finished {
		return StateFinished
	}
	return StateInProgress
}

// Index is the 0-based position of the current item.
func (s *Session) Index() int { return s.index }

// Selected is the selected option of the current item, or NoSelection.
func (s *Session) Selected() int { return s.selected }

// Score is the number of correct first selections so far.
func (s *Session) Score() int { return s.score }

// Finished reports whether the last item has been advanced past.
func (s *Session) Finished() bool { return s.finished }

// Total is the number of items.
func (s *Session) Total() int { return len(s.items) }

// Answered is the number of items with a recorded selection.
func (s *Session) Answered() int {
	if s.finished {
		return len(s.items)
	}
	if s.selected != NoSelection {
		return s.index + 1
	}
	return s.index
}
