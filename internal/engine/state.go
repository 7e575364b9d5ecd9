package engine

// State defines the current phase of the macro
type State int

const (
	StateIdle      State = iota // Initial and rest state
	StateFarming                // Running one left/right lane cycle
	StatePestCheck              // Scanning chat for a pest message
	StatePestKill               // Attack-clicking a spawned pest
	StateSell                   // Placeholder, only entered through RequestSell
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateFarming:
		return "FARMING"
	case StatePestCheck:
		return "PEST_CHECK"
	case StatePestKill:
		return "PEST_KILL"
	case StateSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// nextState is the transition table of the loop. pest is only consulted in
// StatePestCheck.
func nextState(s State, pest bool) State {
	switch s {
	case StateFarming:
		return StatePestCheck
	case StatePestCheck:
		if pest {
			return StatePestKill
		}
		return StateFarming
	case StatePestKill:
		return StateFarming
	case StateSell:
		return StateIdle
	default:
		return StateIdle
	}
}
