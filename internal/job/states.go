package job

import (
	"errors"
	"fmt"

	"tft-wrapped/internal/domain"
)

var ErrIllegalTransition = errors.New("illegal job state transition")

// transitions lists every allowed move. POLLING -> POLLING is the
// per-poll progress update; DONE and FAILED have no outgoing edges.
var transitions = map[domain.JobState][]domain.JobState{
	domain.JobRequesting: {domain.JobPolling, domain.JobDone, domain.JobFailed},
	domain.JobPolling:    {domain.JobPolling, domain.JobDone, domain.JobFailed},
}

func CanTransition(from, to domain.JobState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type machine struct {
	state    domain.JobState
	recorder *StateRecorder
}

func newMachine(recorder *StateRecorder) *machine {
	m := &machine{state: domain.JobRequesting, recorder: recorder}
	m.record()
	return m
}

func (m *machine) transition(to domain.JobState) error {
	if !CanTransition(m.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, m.state, to)
	}
	m.state = to
	m.record()
	return nil
}

func (m *machine) record() {
	if m.recorder != nil {
		m.recorder.Record(m.state)
	}
}

// StateRecorder captures the path a run takes through the machine.
type StateRecorder struct {
	path []domain.JobState
}

func NewStateRecorder() *StateRecorder {
	return &StateRecorder{}
}

func (r *StateRecorder) Record(state domain.JobState) {
	r.path = append(r.path, state)
}

func (r *StateRecorder) Path() []domain.JobState {
	return r.path
}
