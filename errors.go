package decgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/decgo/internal/search"
)

var (
	// ErrInvalidPopLimit is returned when the pop limit is not positive.
	ErrInvalidPopLimit = errors.New("pop limit must be positive")
	// ErrInvalidCubeK is returned when the cube budget is not positive.
	ErrInvalidCubeK = errors.New("cube budget must be positive")
	// ErrInvalidBeamWidth is returned when the beam width is negative.
	ErrInvalidBeamWidth = errors.New("beam width must not be negative")
	// ErrNilPhraseTable is returned when no phrase table is supplied.
	ErrNilPhraseTable = errors.New("phrase table must not be nil")
	// ErrNilLanguageModel is returned when no language model is supplied.
	ErrNilLanguageModel = errors.New("language model must not be nil")
	// ErrInvariant is the class of internal search invariant
	// violations. These are programming defects surfaced at the
	// sentence boundary, not user errors.
	ErrInvariant = errors.New("search invariant violated")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, search.ErrUnscoredHypothesis) {
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	return err
}
