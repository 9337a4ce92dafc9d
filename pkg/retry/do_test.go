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

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDo_Success(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetryUntilSuccess(t *testing.T) {
	attempts := 0
	var waits []time.Duration
	err := Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}, WithMaxAttempts(5), WithBackoff(Exponential(time.Millisecond)), OnRetry(func(_ int, _ error, wait time.Duration) {
		waits = append(waits, wait)
	}))

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, waits)
}

func TestDo_MaxAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return errors.New("persistent error")
	}, WithMaxAttempts(3), WithBackoff(Fixed(0)))

	assert.EqualError(t, err, "persistent error")
	assert.Equal(t, 3, attempts)
}

func TestDo_CustomRetryIf(t *testing.T) {
	retryable := errors.New("retryable")
	fatal := errors.New("fatal")
	attempts := 0

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts == 1 {
			return retryable
		}
		return fatal
	}, WithMaxAttempts(5), WithBackoff(Fixed(0)), WithRetryIf(func(err error) bool {
		return errors.Is(err, retryable)
	}))

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 2, attempts)
}

func TestDo_Permanent(t *testing.T) {
	cause := errors.New("bad input")
	attempts := 0
	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return Permanent(cause)
	}, WithMaxAttempts(5))

	assert.Same(t, cause, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	err := Do(ctx, func(context.Context) error {
		attempts++
		cancel()
		return errors.New("error")
	}, WithMaxAttempts(5), WithBackoff(Fixed(time.Hour)))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestExponential_Capped(t *testing.T) {
	b := Exponential(50*time.Millisecond, 75*time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, b.Next(0))
	assert.Equal(t, 75*time.Millisecond, b.Next(1))
	assert.Equal(t, 75*time.Millisecond, b.Next(40))
}

func TestFullJitter(t *testing.T) {
	assert.Equal(t, time.Duration(0), FullJitter(0))
	for i := 0; i < 100; i++ {
		d := FullJitter(10 * time.Millisecond)
		assert.True(t, d >= 0 && d < 10*time.Millisecond)
	}
}
