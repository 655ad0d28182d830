package dialoglog

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/dialogfix/internal/dialogue"
)

// Presenter writes finished presentations to the dialogue log. Pending
// presentations are not stored.
type Presenter struct {
	repository Repository
}

// NewPresenter creates a presenter.
func NewPresenter(repository Repository) *Presenter {
	return &Presenter{repository: repository}
}

func (p *Presenter) Present(ctx context.Context, presentation dialogue.Presentation) error {
	if presentation.Status == dialogue.StatusPending {
		return nil
	}
	line := presentation.Line
	entry := &Entry{
		LineID:         line.ID,
		ChannelCode:    line.ChannelCode,
		SpeakerName:    line.SpeakerName,
		DisplayName:    presentation.Name,
		SourceText:     line.Text,
		TranslatedText: presentation.Text,
		Status:         string(presentation.Status),
		TargetLanguage: presentation.Profile.TargetLanguage,
		Engine:         presentation.Profile.Engine,
	}
	if err := p.repository.Save(ctx, entry); err != nil {
		return fmt.Errorf("repository.Save(%s) > %w", line.ID, err)
	}
	return nil
}
