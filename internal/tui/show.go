package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pavelanni/greeting/internal/effects"
)

// BurstMsg delivers one burst of the opening confetti show.
type BurstMsg effects.Burst

// ShowDoneMsg ends the opening show.
type ShowDoneMsg struct{}

// PlayShow plays show in real time, forwarding bursts to send, typically
// (*tea.Program).Send. It returns when the show is over or ctx is done.
func PlayShow(ctx context.Context, show effects.Show, send func(tea.Msg)) error {
	err := show.Run(ctx, nil, func(b effects.Burst) { send(BurstMsg(b)) })
	send(ShowDoneMsg{})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
