package classifier

import "sort"

// Training hyperparameters. Full-batch gradient descent from a zero start is
// deterministic: the same corpus always yields the same weights.
// The step size stays below the curvature bound of the squared hinge term
// for corpora of this size, so descent converges instead of oscillating.
const (
	svmCost         = 1.0
	svmLearningRate = 0.005
	svmEpochs       = 2000
)

// linearSVM is a one-vs-rest linear maximum-margin classifier trained in the
// primal formulation (squared hinge loss, L2 regularization). The primal form
// suits this corpus: far fewer examples than vocabulary terms.
type linearSVM struct {
	classes []string
	weights [][]float64
	bias    []float64
}

func trainSVM(samples []vector, labels []string, dims int) *linearSVM {
	classSet := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		classSet[l] = struct{}{}
	}
	classes := make([]string, 0, len(classSet))
	for c := range classSet {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	m := &linearSVM{
		classes: classes,
		weights: make([][]float64, len(classes)),
		bias:    make([]float64, len(classes)),
	}
	for ci, class := range classes {
		targets := make([]float64, len(labels))
		for i, l := range labels {
			if l == class {
				targets[i] = 1
			} else {
				targets[i] = -1
			}
		}
		m.weights[ci], m.bias[ci] = trainBinary(samples, targets, dims)
	}
	return m
}

// trainBinary minimizes 0.5*||w||^2 + C*sum(max(0, 1-y*(w.x+b))^2) by
// full-batch gradient descent.
func trainBinary(samples []vector, targets []float64, dims int) ([]float64, float64) {
	w := make([]float64, dims)
	grad := make([]float64, dims)
	var b float64

	for epoch := 0; epoch < svmEpochs; epoch++ {
		for i := range grad {
			grad[i] = w[i]
		}
		var gradB float64

		for i, x := range samples {
			margin := targets[i] * (x.dot(w) + b)
			if margin >= 1 {
				continue
			}
			// d/dw of C*(1-y*(w.x+b))^2 = -2C*(1-margin)*y*x
			coef := -2 * svmCost * (1 - margin) * targets[i]
			for j, xv := range x {
				grad[j] += coef * xv
			}
			gradB += coef
		}

		for i := range w {
			w[i] -= svmLearningRate * grad[i]
		}
		b -= svmLearningRate * gradB
	}
	return w, b
}

// predict returns the class with the highest decision value. Ties resolve to
// the alphabetically first class, keeping prediction deterministic.
func (m *linearSVM) predict(x vector) string {
	best := 0
	bestScore := m.decision(x, 0)
	for ci := 1; ci < len(m.classes); ci++ {
		if score := m.decision(x, ci); score > bestScore {
			best, bestScore = ci, score
		}
	}
	return m.classes[best]
}

func (m *linearSVM) decision(x vector, class int) float64 {
	return x.dot(m.weights[class]) + m.bias[class]
}
