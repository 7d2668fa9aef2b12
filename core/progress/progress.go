package progress

import "time"

type State string

const (
	StateUnlocked   State = "UNLOCKED"
	StateInProgress State = "IN_PROGRESS"
	StateCompleted  State = "COMPLETED"
)

var stateRank = map[State]int{
	StateUnlocked:   1,
	StateInProgress: 2,
	StateCompleted:  3,
}

func (s State) IsValid() bool {
	_, ok := stateRank[s]
	return ok
}

// Before reports whether s comes earlier than o in the module lifecycle.
func (s State) Before(o State) bool {
	return stateRank[s] < stateRank[o]
}

type Event string

const (
	EventUnlock   Event = "unlock"
	EventStart    Event = "start"
	EventComplete Event = "complete"
)

func (ev Event) target() State {
	switch ev {
	case EventStart:
		return StateInProgress
	case EventComplete:
		return StateCompleted
	default:
		return StateUnlocked
	}
}

// Advance returns the state reached by applying ev to a row in state cur.
// exists is false when there is no row yet. A state never moves backwards.
func Advance(cur State, exists bool, ev Event) State {
	next := ev.target()
	if !exists || stateRank[next] > stateRank[cur] {
		return next
	}
	return cur
}

// Progress is the state of one user on one module of a course.
type Progress struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CourseID    string    `json:"course_id"`
	ModuleID    string    `json:"module_id"`
	Status      State     `json:"status"`
	StartedAt   time.Time `json:"started_at"`   // UTC
	CompletedAt time.Time `json:"completed_at"` // UTC
	CreatedAt   time.Time `json:"created_at"`   // UTC
	UpdatedAt   time.Time `json:"updated_at"`   // UTC
}

// apply moves p through ev at time now, stamping StartedAt/CompletedAt.
// Completing an already completed module refreshes CompletedAt.
func (p *Progress) apply(ev Event, exists bool, now time.Time) {
	p.Status = Advance(p.Status, exists, ev)
	switch p.Status {
	case StateInProgress:
		if p.StartedAt.IsZero() {
			p.StartedAt = now
		}
	case StateCompleted:
		if p.StartedAt.IsZero() {
			p.StartedAt = now
		}
		if ev == EventComplete || p.CompletedAt.IsZero() {
			p.CompletedAt = now
		}
	}
	if !exists {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}
