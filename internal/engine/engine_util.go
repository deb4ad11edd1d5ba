package engine

func NewState(itemCount int, rules Rules) State {
	if itemCount < 0 {
		itemCount = 0
	}
	return State{
		Phase:       PhaseIdle,
		ActiveIndex: NoIndex,
		ItemCount:   itemCount,
		Rules:       rules,
	}
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// Activations returns the item indexes activated by events, in order.
func Activations(events []Event) []int {
	var out []int
	for _, event := range events {
		if event.Type == EvtItemActivated {
			out = append(out, event.Index)
		}
	}
	return out
}
