// Package dialogue holds the value types that flow between the correction queue,
// the correction pipeline and the presenters.
package dialogue

import (
	"context"
	"errors"
)

//go:generate mockgen -source=model.go -destination=../mocks/dialogue/mock_presenter.go -package=mock_dialogue

// Line is one captured dialogue line. Only AudioText may be rewritten after
// the line has been enqueued.
type Line struct {
	ID          string `json:"id" yaml:"id"`
	ChannelCode string `json:"code" yaml:"code"`
	SpeakerName string `json:"name" yaml:"name"`
	PlayerName  string `json:"playerName" yaml:"player_name"`
	Text        string `json:"text" yaml:"text"`
	AudioText   string `json:"audioText" yaml:"audio_text"`
}

// Profile describes how a single request should be translated.
// Fix enables the correction pipeline and Skip enables ignore-list checks.
type Profile struct {
	TargetLanguage string `json:"to" yaml:"to"`
	Engine         string `json:"engine" yaml:"engine"`
	Fix            bool   `json:"fix" yaml:"fix"`
	Skip           bool   `json:"skip" yaml:"skip"`
}

// DefaultProfile returns the profile used when a request does not carry one.
func DefaultProfile() Profile {
	return Profile{
		TargetLanguage: "zh-Hant",
		Engine:         "openai",
		Fix:            true,
		Skip:           true,
	}
}

// Status tells a presenter what kind of presentation it receives.
type Status string

const (
	// StatusPending is sent before a line is corrected so the presenter can
	// reserve a slot for it.
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Presentation is what the presenter receives for a line.
type Presentation struct {
	Status  Status
	Name    string
	Text    string
	Line    Line
	Profile Profile
}

// ErrSkipped is returned when a line matches the ignore table and must not
// be presented.
var ErrSkipped = errors.New("line skipped")

// Presenter receives corrected lines.
type Presenter interface {
	Present(ctx context.Context, p Presentation) error
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(ctx context.Context, p Presentation) error

func (f PresenterFunc) Present(ctx context.Context, p Presentation) error {
	return f(ctx, p)
}
