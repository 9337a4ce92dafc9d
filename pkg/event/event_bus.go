// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package event

import (
	"sync"

	"github.com/go-arcade/arcade-menu/pkg/safe"
)

type registration[T any] struct {
	id      uint64
	handler EventHandler[T]
}

// EventBus dispatches events to the handlers registered for their name.
// Handlers run synchronously on the publishing goroutine in registration
// order; a panicking handler is recovered and does not stop the others.
type EventBus[T any] struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[string][]registration[T]
}

func NewEventBus[T any]() *EventBus[T] {
	return &EventBus[T]{
		handlers: make(map[string][]registration[T]),
	}
}

// RegisterHandler subscribes handler to eventName and returns a function that
// removes the subscription.
func (eb *EventBus[T]) RegisterHandler(eventName string, handler EventHandler[T]) func() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextID++
	id := eb.nextID
	eb.handlers[eventName] = append(eb.handlers[eventName], registration[T]{id: id, handler: handler})

	return func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()
		regs := eb.handlers[eventName]
		for i, r := range regs {
			if r.id == id {
				eb.handlers[eventName] = append(regs[:i:i], regs[i+1:]...)
				return
			}
		}
	}
}

func (eb *EventBus[T]) Publish(event Event[T]) {
	eb.mu.RLock()
	regs := eb.handlers[event.EventName()]
	eb.mu.RUnlock()

	for _, r := range regs {
		h := r.handler
		safe.Do(func() { h.Handle(event) })
	}
}

// HandlerCount reports how many handlers listen to eventName.
func (eb *EventBus[T]) HandlerCount(eventName string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.handlers[eventName])
}
