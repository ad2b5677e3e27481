package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"pharmassist/agent/classifier"
	"pharmassist/agent/dialogue"
	"pharmassist/agent/store"
	"pharmassist/agent/transcript"
	"pharmassist/agent/workflow"
	configx "pharmassist/pkg/config"
	logx "pharmassist/pkg/logger"
	openaix "pharmassist/pkg/openai"
)

type AppConfig struct {
	DataDir     string `envconfig:"DATA_DIR" split_words:"true" default:"./data/mock"`
	LogDir      string `envconfig:"LOG_DIR" split_words:"true" default:"./logs"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" split_words:"true"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")
	logx.Init(*configx.MustNew[logx.Config]("LOG"))

	ctx := context.Background()

	recordStore, closeStore, err := openStore(ctx, appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open record store")
	}
	defer closeStore()

	clf, err := classifier.New()
	if err != nil {
		log.Fatal().Err(err).Msg("train intent classifier")
	}

	engine, err := workflow.New(recordStore)
	if err != nil {
		log.Fatal().Err(err).Msg("build workflow engine")
	}

	replier := openaix.MustNew(*configx.MustNew[openaix.Config]("OPENAI"), dialogue.SystemPrompt)
	transcripts := transcript.NewRecorder(appCfg.LogDir)
	prompter := newConsole(os.Stdin, os.Stdout)

	svc, err := dialogue.New(clf, engine, replier, prompter, transcripts)
	if err != nil {
		log.Fatal().Err(err).Msg("build dialogue service")
	}
	log.Info().Str("session_id", svc.SessionID()).Msg("session started")

	// An interrupt must still leave the transcripts on disk.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		if err := transcripts.Flush(); err != nil {
			log.Error().Err(err).Msg("flush transcripts on interrupt")
		}
		os.Exit(0)
	}()

	if greeting, err := svc.Greet(ctx); err != nil {
		log.Warn().Err(err).Msg("greeting unavailable")
	} else {
		prompter.Say(greeting + "\n")
	}

	for {
		line, err := prompter.Ask("User input: ")
		if err != nil {
			break // stdin closed
		}

		out, err := svc.HandleUtterance(ctx, line)
		if err != nil {
			if errors.Is(err, dialogue.ErrEmptyUtterance) {
				continue
			}
			log.Error().Err(err).Msg("handle utterance")
			prompter.Say("Sorry, something went wrong. Please try again.")
			continue
		}
		if out.Exit {
			break
		}
		if out.Reply != "" {
			prompter.Say(out.Reply)
		}
	}

	if err := transcripts.Flush(); err != nil {
		log.Error().Err(err).Msg("flush transcripts")
	}
}

func openStore(ctx context.Context, cfg *AppConfig) (store.Store, func(), error) {
	if dsn := strings.TrimSpace(cfg.PostgresDSN); dsn != "" {
		pg, err := store.NewPostgresStore(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { _ = pg.Close() }, nil
	}

	csv, err := store.NewCSVStore(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	return csv, func() {}, nil
}

// console adapts stdin/stdout to the Prompter contract.
type console struct {
	in  *bufio.Reader
	out io.Writer
}

func newConsole(in io.Reader, out io.Writer) *console {
	return &console{in: bufio.NewReader(in), out: out}
}

func (c *console) Say(text string) {
	fmt.Fprintln(c.out, text)
}

func (c *console) Ask(question string) (string, error) {
	fmt.Fprint(c.out, question)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
