package resolver

import "fmt"

const (
	DefaultAcceptThreshold = 0.8
	DefaultEscalateFloor   = 0.46
)

// Outcome is the per-token decision taken from a similarity score.
type Outcome int

const (
	Reject Outcome = iota
	Escalate
	Accept
)

func (o Outcome) String() string {
	switch o {
	case Accept:
		return "accept"
	case Escalate:
		return "escalate"
	default:
		return "reject"
	}
}

// Bands maps similarity intervals to outcomes:
//
//	[Accept, +inf)          Accept
//	[EscalateFloor, Accept) Escalate
//	(-inf, EscalateFloor)   Reject
type Bands struct {
	Accept        float64
	EscalateFloor float64
}

func DefaultBands() Bands {
	return Bands{Accept: DefaultAcceptThreshold, EscalateFloor: DefaultEscalateFloor}
}

func (b Bands) Decide(score float64) Outcome {
	switch {
	case score >= b.Accept:
		return Accept
	case score >= b.EscalateFloor:
		return Escalate
	default:
		return Reject
	}
}

func (b Bands) Validate() error {
	if b.Accept < -1 || b.Accept > 1 {
		return fmt.Errorf("accept threshold %v outside [-1, 1]", b.Accept)
	}
	if b.EscalateFloor < -1 || b.EscalateFloor > 1 {
		return fmt.Errorf("escalate floor %v outside [-1, 1]", b.EscalateFloor)
	}
	if b.EscalateFloor > b.Accept {
		return fmt.Errorf("escalate floor %v above accept threshold %v", b.EscalateFloor, b.Accept)
	}
	return nil
}
