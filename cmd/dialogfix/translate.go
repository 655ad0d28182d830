package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/dialogfix/internal/dialogue"
	"github.com/at-ishikawa/dialogfix/internal/queue"
	"github.com/at-ishikawa/dialogfix/internal/relay"
)

// jsonLine is one line of a batch file.
type jsonLine struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
	AudioText  string `json:"audioText"`
}

func readLines(r io.Reader) ([]dialogue.Line, error) {
	var lines []dialogue.Line
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	number := 0
	for scanner.Scan() {
		number++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var l jsonLine
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			return nil, fmt.Errorf("line %d: json.Unmarshal > %w", number, err)
		}
		id := l.ID
		if id == "" {
			id = fmt.Sprintf("%d", number)
		}
		lines = append(lines, dialogue.Line{
			ID:          id,
			ChannelCode: strings.ToUpper(l.Code),
			SpeakerName: l.Name,
			PlayerName:  l.PlayerName,
			Text:        l.Text,
			AudioText:   l.AudioText,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner.Scan > %w", err)
	}
	return lines, nil
}

// batchObserver closes done once want lines have left the queue for good.
type batchObserver struct {
	mu       sync.Mutex
	want     int
	finished int
	counts   map[queue.Outcome]int
	done     chan struct{}
}

func newBatchObserver(want int) *batchObserver {
	o := &batchObserver{
		want:   want,
		counts: make(map[queue.Outcome]int),
		done:   make(chan struct{}),
	}
	if want == 0 {
		close(o.done)
	}
	return o
}

func (o *batchObserver) Observe(outcome queue.Outcome, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.counts[outcome]++
	if outcome == queue.OutcomeRetried {
		return
	}
	o.finished++
	if o.finished == o.want {
		close(o.done)
	}
}

func (o *batchObserver) Depth(int) {}

func (o *batchObserver) summary() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return fmt.Sprintf("done: %d, failed: %d, skipped: %d, retries: %d",
		o.counts[queue.OutcomeDone],
		o.counts[queue.OutcomeExhausted],
		o.counts[queue.OutcomeSkipped],
		o.counts[queue.OutcomeRetried],
	)
}

func newTranslateCommand() *cobra.Command {
	var (
		targetLanguage string
		engine         string
		noFix          bool
		noSkip         bool
		showPending    bool
	)
	command := &cobra.Command{
		Use:   "translate <file.jsonl>",
		Short: "Translate a file of dialogue lines, one JSON object per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("os.Open(%s) > %w", args[0], err)
			}
			lines, err := readLines(file)
			_ = file.Close()
			if err != nil {
				return fmt.Errorf("readLines(%s) > %w", args[0], err)
			}

			profile := relay.DefaultProfile(cfg.Translation)
			if targetLanguage != "" {
				profile.TargetLanguage = targetLanguage
			}
			if engine != "" {
				profile.Engine = engine
			}
			profile.Fix = profile.Fix && !noFix
			profile.Skip = profile.Skip && !noSkip
			// The runtime must start on the profile language or Enqueue restarts the queue.
			cfg.Translation.TargetLanguage = profile.TargetLanguage

			presenter, closePresenter, err := newPresenter(cfg, cmd.OutOrStdout(), showPending)
			if err != nil {
				return err
			}
			defer closePresenter()

			observer := newBatchObserver(len(lines))
			runtime, err := relay.NewRuntime(cfg, relay.RuntimeOptions{
				Presenter: presenter,
				Observer:  observer,
			})
			if err != nil {
				return fmt.Errorf("relay.NewRuntime() > %w", err)
			}
			defer func() {
				_ = runtime.Close()
			}()

			for _, line := range lines {
				if _, err := runtime.Enqueue(line, profile); err != nil {
					return fmt.Errorf("runtime.Enqueue(%s) > %w", line.ID, err)
				}
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go func() {
				select {
				case <-observer.done:
					cancel()
				case <-ctx.Done():
				}
			}()
			if err := runtime.Run(ctx); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.ErrOrStderr(), observer.summary())
			return err
		},
	}
	flags := command.Flags()
	flags.StringVar(&targetLanguage, "to", "", "target language, overriding translation.target_language")
	flags.StringVar(&engine, "engine", "", "translation engine, overriding translation.engine")
	flags.BoolVar(&noFix, "no-fix", false, "send lines to the translator without corrections")
	flags.BoolVar(&noSkip, "no-skip", false, "do not drop lines matched by the ignore table")
	flags.BoolVar(&showPending, "show-pending", false, "print a placeholder before each line is translated")
	return command
}
