package testutil

import (
	"sync"

	"github.com/udisondev/horde/internal/model"
)

// Transition is one recorded state change.
type Transition struct {
	Agent    model.Handle
	From, To model.AgentState
}

// RecordingHooks records every cosmetic notification.
type RecordingHooks struct {
	mu sync.Mutex

	Transitions []Transition
	Attacks     []model.Handle // attack targets
	Deaths      int
	Ambient     int
}

func (r *RecordingHooks) StateEntered(agent model.Handle, from, to model.AgentState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Transitions = append(r.Transitions, Transition{Agent: agent, From: from, To: to})
}

func (r *RecordingHooks) Attacked(_, target model.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Attacks = append(r.Attacks, target)
}

func (r *RecordingHooks) Died(model.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Deaths++
}

func (r *RecordingHooks) AmbientSound(model.Handle, model.AgentState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Ambient++
}

// AttackCount returns the number of attacks.
func (r *RecordingHooks) AttackCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Attacks)
}

// Entered counts entries into state.
func (r *RecordingHooks) Entered(state model.AgentState) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, tr := range r.Transitions {
		if tr.To == state {
			n++
		}
	}
	return n
}
