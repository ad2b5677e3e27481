package contract

import "context"

// Classifier maps a free-text utterance to an intent label. Implementations
// are trained before they are handed out, so Predict never sees an untrained
// model in normal operation.
type Classifier interface {
	Predict(text string) (Intent, error)
}

// Prompter is the console-facing seam of the workflow engine: Say prints a
// line, Ask prints a question and returns the user's answer.
type Prompter interface {
	Say(text string)
	Ask(question string) (string, error)
}

// Replier is the external reply collaborator: one structured {role, content}
// message in, one string reply out.
type Replier interface {
	Reply(ctx context.Context, role, content string) (string, error)
}
