// Copyright 2026 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package store implements a small state container: the current state only ever
changes by dispatching actions through a reducer, and subscribers get notified
after each change.

There is deliberately no package-level store. Callers use a Factory to create
a fresh, isolated Store for each server-side render and for each hydration in
the browser, so that concurrent requests never observe each other's state.
*/
package store

import "sync"

// Action describes a state change. Type identifies the kind of change, while
// Payload optionally carries action-specific data.
type Action struct {
	Type    string
	Payload any
}

// Reducer returns the next state given the current state and an action. A
// Reducer must not modify the state passed in, but return a new one instead.
type Reducer[S any] func(state S, action Action) S

// Listener gets called with the new state after a dispatch.
type Listener[S any] func(state S)

// Factory creates a new, isolated Store each time it is called.
type Factory[S any] func() *Store[S]

// Store holds application state of type S.
type Store[S any] struct {
	mu        sync.Mutex
	state     S
	reducer   Reducer[S]
	listeners map[int]Listener[S]
	nextID    int
}

// New returns a new Store with the specified reducer and initial state.
func New[S any](reducer Reducer[S], initial S) *Store[S] {
	return &Store[S]{
		state:     initial,
		reducer:   reducer,
		listeners: map[int]Listener[S]{},
	}
}

// State returns the current state.
func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch runs the action through the reducer and then notifies all
// subscribers of the resulting state. Listeners are called outside the
// store's lock, so they may dispatch themselves.
func (s *Store[S]) Dispatch(action Action) S {
	s.mu.Lock()
	s.state = s.reducer(s.state, action)
	state := s.state
	listeners := make([]Listener[S], 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if l, ok := s.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()
	for _, l := range listeners {
		l(state)
	}
	return state
}

// Subscribe registers a listener and returns a function to unsubscribe it
// again. Listeners are notified in subscription order.
func (s *Store[S]) Subscribe(l Listener[S]) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
