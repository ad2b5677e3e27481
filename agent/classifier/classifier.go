// Package classifier maps free-text utterances to intent labels with a
// tf-idf vectorizer feeding a linear maximum-margin model, both fitted once
// at construction on the embedded corpus. No online learning: a new corpus
// means a new Classifier.
package classifier

import (
	"pharmassist/agent/contract"
	logx "pharmassist/pkg/logger"
)

type Classifier struct {
	vec     *vectorizer
	model   *linearSVM
	trained bool
}

var _ contract.Classifier = (*Classifier)(nil)

// New fits the full pipeline on the embedded corpus. Training is synchronous;
// a returned Classifier is always ready to predict.
func New() (*Classifier, error) {
	examples, err := loadCorpus()
	if err != nil {
		return nil, err
	}

	docs := make([]string, len(examples))
	labels := make([]string, len(examples))
	for i, ex := range examples {
		docs[i] = ex.Text
		labels[i] = ex.Label
	}

	vec := fitVectorizer(docs)
	samples := make([]vector, len(docs))
	for i, doc := range docs {
		samples[i] = vec.transform(doc)
	}

	c := &Classifier{
		vec:     vec,
		model:   trainSVM(samples, labels, vec.dimensions()),
		trained: true,
	}

	clog := logx.Component("classifier")
	clog.Debug().
		Int("examples", len(examples)).
		Int("terms", vec.dimensions()).
		Int("labels", len(c.model.classes)).
		Msg("intent classifier trained")

	return c, nil
}

// Predict returns the best-matching label from the trained set. It always
// returns some label for non-empty vocabularies; an utterance with no known
// terms falls wherever the bias terms point.
func (c *Classifier) Predict(text string) (contract.Intent, error) {
	if !c.trained {
		return "", contract.ErrNotTrained
	}
	return contract.Intent(c.model.predict(c.vec.transform(text))), nil
}

// Labels returns the classes the model was fitted on, sorted.
func (c *Classifier) Labels() []string {
	out := make([]string, len(c.model.classes))
	copy(out, c.model.classes)
	return out
}
