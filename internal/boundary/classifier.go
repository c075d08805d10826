package boundary

import "github.com/banshee-data/sembas/internal/geom"

// Classifier wraps a function under test, reducing its behavior at a point
// to the in-mode / out-of-mode classification. Implementations must be
// stable: repeated calls with the same point return the same class. A
// classifier may refuse a point outside its declared domain with
// ErrOutOfBounds, or fail with a transport error (ErrRemoteDisconnected,
// ErrProtocol) after which it is unusable.
type Classifier interface {
	Classify(p geom.Vector) (Sample, error)
}

// FuncClassifier adapts a plain function into a Classifier.
type FuncClassifier struct {
	fn func(geom.Vector) (bool, error)
}

// NewFuncClassifier wraps fn. The function's error, if any, is returned
// unwrapped so callers can surface sentinel errors directly.
func NewFuncClassifier(fn func(geom.Vector) (bool, error)) *FuncClassifier {
	return &FuncClassifier{fn: fn}
}

// Classify invokes the wrapped function.
func (c *FuncClassifier) Classify(p geom.Vector) (Sample, error) {
	inMode, err := c.fn(p)
	if err != nil {
		return Sample{}, err
	}
	return NewSample(p, inMode), nil
}

var _ Classifier = (*FuncClassifier)(nil)
