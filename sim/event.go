package sim

// EventType defines the type of event produced during a tick
type EventType int

const (
	EventEaten EventType = iota
	EventHealed
	EventCleared
	EventMarked
	EventInfected
	EventDivided
	EventRecruited
	EventSeeded
	eventTypeCount
)

// String returns the wire name of the event type
func (t EventType) String() string {
	switch t {
	case EventEaten:
		return "eaten"
	case EventHealed:
		return "healed"
	case EventCleared:
		return "cleared"
	case EventMarked:
		return "marked"
	case EventInfected:
		return "infected"
	case EventDivided:
		return "divided"
	case EventRecruited:
		return "recruited"
	case EventSeeded:
		return "seeded"
	default:
		return "unknown"
	}
}

// Event records one rule firing at a cell. AgentID is the affected agent
// (the removed, marked or created one); tissue events carry the acting cell.
type Event struct {
	Type    EventType
	Pos     Coordinate
	AgentID int
}

// Report collects the events of one tick
type Report struct {
	Tick   int
	Events []Event
	counts [eventTypeCount]int
}

func (r *Report) add(t EventType, pos Coordinate, agentID int) {
	r.Events = append(r.Events, Event{Type: t, Pos: pos, AgentID: agentID})
	r.counts[t]++
}

// Count returns how many events of type t fired
func (r *Report) Count(t EventType) int {
	if t < 0 || t >= eventTypeCount {
		return 0
	}
	return r.counts[t]
}
