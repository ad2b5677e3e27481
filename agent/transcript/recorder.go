// Package transcript records the session's utterances and replies in order
// and writes them out once, at session end. Flush also runs from the signal
// handler, so the recorder is safe for that one extra goroutine.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	logx "pharmassist/pkg/logger"
)

const (
	userInputsFile   = "user_inputs.log"
	botResponsesFile = "bot_responses.log"

	timestampLayout = "2006-01-02 15:04:05"
)

type entry struct {
	at   time.Time
	text string
}

type Recorder struct {
	dir string
	log zerolog.Logger
	now func() time.Time

	mu           sync.Mutex
	userInputs   []entry
	botResponses []entry
}

func NewRecorder(dir string) *Recorder {
	return &Recorder{
		dir: dir,
		log: logx.Component("transcript"),
		now: time.Now,
	}
}

func (r *Recorder) RecordUser(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userInputs = append(r.userInputs, entry{at: r.now(), text: text})
}

func (r *Recorder) RecordBot(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.botResponses = append(r.botResponses, entry{at: r.now(), text: text})
}

// Flush appends both transcripts to their log files and clears the buffers,
// so a second flush (normal exit after an interrupt) writes nothing twice.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.userInputs) == 0 && len(r.botResponses) == 0 {
		return nil
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create transcript dir: %w", err)
	}

	userCount, botCount := len(r.userInputs), len(r.botResponses)

	// each buffer clears right after its own append, so a failure on one
	// file never re-appends entries the other file already holds
	if err := appendLines(filepath.Join(r.dir, userInputsFile), r.userInputs); err != nil {
		return err
	}
	r.userInputs = nil

	if err := appendLines(filepath.Join(r.dir, botResponsesFile), r.botResponses); err != nil {
		return err
	}
	r.botResponses = nil

	r.log.Info().
		Int("user_inputs", userCount).
		Int("bot_responses", botCount).
		Msg("transcripts flushed")

	return nil
}

func appendLines(path string, entries []entry) error {
	if len(entries) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open transcript file: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.at.Format(timestampLayout))
		b.WriteString(": ")
		b.WriteString(e.text)
		b.WriteString("\n")
	}
	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}
	return nil
}
