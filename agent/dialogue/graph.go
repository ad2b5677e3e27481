package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"

	"pharmassist/agent/contract"
)

func (s *Service) compileHandleUtteranceGraph(
	ctx context.Context,
) (compose.Runnable[GraphInput, GraphOutput], error) {
	graph := compose.NewGraph[GraphInput, GraphOutput]()

	if err := graph.AddLambdaNode("validate_utterance",
		compose.InvokableLambda(func(ctx context.Context, in GraphInput) (*graphState, error) {
			return validateUtterance(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_utterance: %w", err)
	}

	if err := graph.AddLambdaNode("record_utterance",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			s.transcripts.RecordUser(in.Text)
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node record_utterance: %w", err)
	}

	if err := graph.AddLambdaNode("classify_intent",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			return s.classifyIntent(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_intent: %w", err)
	}

	if err := graph.AddLambdaNode("dispatch_intent",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			return s.dispatchIntent(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node dispatch_intent: %w", err)
	}

	if err := graph.AddLambdaNode("record_reply",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			if in.Reply != "" {
				s.transcripts.RecordBot(in.Reply)
			}
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node record_reply: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (GraphOutput, error) {
			return GraphOutput{Reply: in.Reply, Exit: in.Exit}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_utterance"},
		{"validate_utterance", "record_utterance"},
		{"record_utterance", "classify_intent"},
		{"classify_intent", "dispatch_intent"},
		{"dispatch_intent", "record_reply"},
		{"record_reply", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("dialogue.handle_utterance"))
	if err != nil {
		return nil, fmt.Errorf("compile dialogue graph: %w", err)
	}
	return runner, nil
}

func validateUtterance(in GraphInput) (*graphState, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrEmptyUtterance
	}
	return &graphState{Text: text}, nil
}

// classifyIntent collapses every label outside the routable set to help.
func (s *Service) classifyIntent(in *graphState) (*graphState, error) {
	label, err := s.classifier.Predict(in.Text)
	if err != nil {
		return nil, fmt.Errorf("classify utterance: %w", err)
	}
	if !label.Routable() {
		label = contract.IntentHelp
	}
	in.Intent = label

	s.log.Debug().Str("intent", string(in.Intent)).Msg("utterance classified")
	return in, nil
}

func (s *Service) dispatchIntent(ctx context.Context, in *graphState) (*graphState, error) {
	switch in.Intent {
	case contract.IntentOrder:
		reply, err := s.engine.NewOrder(ctx, s.prompter, s.sess)
		if err != nil {
			return nil, err
		}
		in.Reply = reply

	case contract.IntentStatus:
		reply, err := s.engine.OrderStatus(ctx, s.prompter, s.sess)
		if err != nil {
			return nil, err
		}
		in.Reply = reply

	case contract.IntentExit:
		in.Exit = true

	default:
		reply, err := s.replier.Reply(ctx, "user", in.Text)
		if err != nil {
			return nil, fmt.Errorf("reply collaborator: %w", err)
		}
		in.Reply = reply
	}
	return in, nil
}
