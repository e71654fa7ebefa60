package models

// MemberStatus represents the execution state of one team member.
type MemberStatus string

const (
	// MemberPending indicates the persona has not been invoked yet.
	MemberPending MemberStatus = "pending"
	// MemberWorking indicates a gateway call is in flight.
	MemberWorking MemberStatus = "working"
	// MemberSucceeded indicates the persona produced a contribution.
	MemberSucceeded MemberStatus = "succeeded"
	// MemberFailed indicates both the call and its retry failed; the
	// contribution is a placeholder.
	MemberFailed MemberStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s MemberStatus) Valid() bool {
	switch s {
	case MemberPending, MemberWorking, MemberSucceeded, MemberFailed:
		return true
	default:
		return false
	}
}

// Strategy selects how the coordinator drives a team.
type Strategy string

const (
	// StrategySingle issues exactly one call for the sole selected persona.
	StrategySingle Strategy = "single"
	// StrategyParallel collects one contribution per persona concurrently.
	StrategyParallel Strategy = "parallel"
	// StrategySequential invokes personas in team order, each seeing the
	// previous contribution.
	StrategySequential Strategy = "sequential"
	// StrategyHierarchical runs parallel contributions followed by a
	// best-effort discussion round, then synthesis.
	StrategyHierarchical Strategy = "hierarchical"
)

// Valid returns true if the strategy is a known value.
func (s Strategy) Valid() bool {
	switch s {
	case StrategySingle, StrategyParallel, StrategySequential, StrategyHierarchical:
		return true
	default:
		return false
	}
}

// MultiAgent reports whether the strategy involves more than one persona.
func (s Strategy) MultiAgent() bool {
	return s != StrategySingle
}
