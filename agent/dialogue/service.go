// Package dialogue is the session loop's dispatch layer: it classifies each
// utterance and routes it to the order workflow engine or to the external
// reply collaborator, recording transcripts along the way.
package dialogue

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"

	"pharmassist/agent/contract"
	"pharmassist/agent/transcript"
	"pharmassist/agent/workflow"
	logx "pharmassist/pkg/logger"
)

var ErrEmptyUtterance = errors.New("utterance is empty")

type GraphInput struct {
	Text string
}

type GraphOutput struct {
	// Reply is the text to show the user; empty on exit.
	Reply string
	// Exit is set when the utterance classified as the exit intent. The
	// caller ends the session and flushes transcripts.
	Exit bool
}

type graphState struct {
	Text   string
	Intent contract.Intent
	Reply  string
	Exit   bool
}

type Service struct {
	classifier  contract.Classifier
	engine      *workflow.Engine
	replier     contract.Replier
	prompter    contract.Prompter
	transcripts *transcript.Recorder
	sess        *workflow.Session

	graphRunner compose.Runnable[GraphInput, GraphOutput]
	log         zerolog.Logger
}

func New(
	classifier contract.Classifier,
	engine *workflow.Engine,
	replier contract.Replier,
	prompter contract.Prompter,
	transcripts *transcript.Recorder,
) (*Service, error) {
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if engine == nil {
		return nil, errors.New("workflow engine is required")
	}
	if replier == nil {
		return nil, errors.New("replier is required")
	}
	if prompter == nil {
		return nil, errors.New("prompter is required")
	}
	if transcripts == nil {
		return nil, errors.New("transcript recorder is required")
	}

	s := &Service{
		classifier:  classifier,
		engine:      engine,
		replier:     replier,
		prompter:    prompter,
		transcripts: transcripts,
		sess:        workflow.NewSession(),
		log:         logx.Component("dialogue"),
	}

	graphRunner, err := s.compileHandleUtteranceGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

// SessionID identifies this dialogue session in logs.
func (s *Service) SessionID() string {
	return s.sess.ID
}

// Greet asks the reply collaborator for the opening message and records it.
func (s *Service) Greet(ctx context.Context) (string, error) {
	greeting, err := s.replier.Reply(ctx, "user", greetingPrompt)
	if err != nil {
		return "", err
	}
	s.transcripts.RecordBot(greeting)
	return greeting, nil
}

// HandleUtterance runs one pass of the dialogue graph. Domain-level workflow
// failures come back as replies; returned errors are collaborator faults the
// caller reports without ending the session.
func (s *Service) HandleUtterance(ctx context.Context, text string) (GraphOutput, error) {
	return s.graphRunner.Invoke(ctx, GraphInput{Text: text})
}
