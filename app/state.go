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

package app

import (
	"github.com/thediveo/ssrserve/route"
	"github.com/thediveo/ssrserve/store"
)

// State is the application state the view tree renders from.
type State struct {
	Location string // current location path.
	Clicks   int    // number of times the home page button was clicked.
}

// Store is the application's state container.
type Store = store.Store[State]

// Action types understood by Reduce.
const (
	ActionNavigate = "navigate"
	ActionClick    = "click"
)

// Navigate returns an action changing the current location.
func Navigate(to string) store.Action {
	return store.Action{Type: ActionNavigate, Payload: route.Clean(to)}
}

// Click returns an action counting a button click.
func Click() store.Action {
	return store.Action{Type: ActionClick}
}

// Reduce is the application's reducer.
func Reduce(state State, action store.Action) State {
	switch action.Type {
	case ActionNavigate:
		if to, ok := action.Payload.(string); ok {
			state.Location = to
		}
	case ActionClick:
		state.Clicks++
	}
	return state
}

// InitialState is the state every new store starts with, on the server as well
// as in the browser.
func InitialState() State {
	return State{Location: "/"}
}

// NewStore returns a new, isolated application store in its initial state.
func NewStore() *Store {
	return store.New(Reduce, InitialState())
}

var _ store.Factory[State] = NewStore
