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

// Event is a named notification carrying a payload.
type Event[T any] struct {
	Name    string
	Payload T
}

func (e Event[T]) EventName() string {
	return e.Name
}

type EventHandler[T any] interface {
	Handle(event Event[T])
}

// HandlerFunc adapts a plain function to EventHandler.
type HandlerFunc[T any] func(event Event[T])

func (f HandlerFunc[T]) Handle(event Event[T]) {
	f(event)
}
