// Package testing provides test utilities for chainz-based code.
//
// It includes one mock per callable shape, each tracking call counts
// and inputs and returning configurable values, plus assertion helpers
// for verifying how often a stage ran.
//
// Example usage:
//
//	func TestGreeting(t *testing.T) {
//	    producer := chaintesting.NewMockProducer[string]("fetch")
//	    producer.WithReturn("hello", nil)
//
//	    effect := chaintesting.NewMockEffect[string]("audit")
//
//	    pipeline := producer.Producer().ThenEffect(effect.Effect())
//	    if err := pipeline.Run(context.Background()); err != nil {
//	        t.Fatal(err)
//	    }
//
//	    chaintesting.AssertCalled(t, producer, 1)
//	    chaintesting.AssertCalledWith(t, effect, "hello")
//	}
package testing

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/zoobzio/chainz"
)

// CallCounter is implemented by every mock in this package.
type CallCounter interface {
	Name() chainz.Name
	CallCount() int
}

// MockProducer is a configurable mock for the Producer shape. It
// tracks calls and returns the configured value and error.
type MockProducer[R any] struct {
	returnErr error
	name      chainz.Name
	returnVal R
	callCount int64
	mu        sync.RWMutex
}

// NewMockProducer creates a mock producer that yields R's zero value
// until configured with WithReturn.
func NewMockProducer[R any](name chainz.Name) *MockProducer[R] {
	return &MockProducer[R]{name: name}
}

// WithReturn configures the values returned by subsequent calls.
func (m *MockProducer[R]) WithReturn(val R, err error) *MockProducer[R] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.returnVal = val
	m.returnErr = err
	return m
}

// Producer returns the chainz wrapper backed by this mock.
func (m *MockProducer[R]) Producer() chainz.Producer[R] {
	return chainz.NewProducer(m.name, func(_ context.Context) (R, error) {
		atomic.AddInt64(&m.callCount, 1)
		m.mu.RLock()
		defer m.mu.RUnlock()
		return m.returnVal, m.returnErr
	})
}

// Name returns the mock's name.
func (m *MockProducer[R]) Name() chainz.Name {
	return m.name
}

// CallCount returns how many times the mock has been invoked.
func (m *MockProducer[R]) CallCount() int {
	return int(atomic.LoadInt64(&m.callCount))
}

// Reset clears call tracking.
func (m *MockProducer[R]) Reset() {
	atomic.StoreInt64(&m.callCount, 0)
}

// MockTransformer is a configurable mock for the Transformer shape. It
// tracks calls and inputs and returns the configured value and error.
type MockTransformer[T, R any] struct {
	returnErr error
	name      chainz.Name
	lastInput T
	returnVal R
	callCount int64
	mu        sync.RWMutex
}

// NewMockTransformer creates a mock transformer that yields R's zero
// value until configured with WithReturn.
func NewMockTransformer[T, R any](name chainz.Name) *MockTransformer[T, R] {
	return &MockTransformer[T, R]{name: name}
}

// WithReturn configures the values returned by subsequent calls.
func (m *MockTransformer[T, R]) WithReturn(val R, err error) *MockTransformer[T, R] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.returnVal = val
	m.returnErr = err
	return m
}

// Transformer returns the chainz wrapper backed by this mock.
func (m *MockTransformer[T, R]) Transformer() chainz.Transformer[T, R] {
	return chainz.NewTransformer(m.name, func(_ context.Context, arg T) (R, error) {
		atomic.AddInt64(&m.callCount, 1)
		m.mu.Lock()
		m.lastInput = arg
		val, err := m.returnVal, m.returnErr
		m.mu.Unlock()
		return val, err
	})
}

// Name returns the mock's name.
func (m *MockTransformer[T, R]) Name() chainz.Name {
	return m.name
}

// CallCount returns how many times the mock has been invoked.
func (m *MockTransformer[T, R]) CallCount() int {
	return int(atomic.LoadInt64(&m.callCount))
}

// LastInput returns the input from the most recent call.
func (m *MockTransformer[T, R]) LastInput() T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastInput
}

// Reset clears call tracking.
func (m *MockTransformer[T, R]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	atomic.StoreInt64(&m.callCount, 0)
	m.lastInput = *new(T)
}

// MockEffect is a configurable mock for the Effect shape.
type MockEffect[T any] struct {
	returnErr error
	name      chainz.Name
	lastInput T
	callCount int64
	mu        sync.RWMutex
}

// NewMockEffect creates a mock effect that succeeds until configured
// with WithErr.
func NewMockEffect[T any](name chainz.Name) *MockEffect[T] {
	return &MockEffect[T]{name: name}
}

// WithErr configures the error returned by subsequent calls.
func (m *MockEffect[T]) WithErr(err error) *MockEffect[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.returnErr = err
	return m
}

// Effect returns the chainz wrapper backed by this mock.
func (m *MockEffect[T]) Effect() chainz.Effect[T] {
	return chainz.NewEffect(m.name, func(_ context.Context, arg T) error {
		atomic.AddInt64(&m.callCount, 1)
		m.mu.Lock()
		m.lastInput = arg
		err := m.returnErr
		m.mu.Unlock()
		return err
	})
}

// Name returns the mock's name.
func (m *MockEffect[T]) Name() chainz.Name {
	return m.name
}

// CallCount returns how many times the mock has been invoked.
func (m *MockEffect[T]) CallCount() int {
	return int(atomic.LoadInt64(&m.callCount))
}

// LastInput returns the input from the most recent call.
func (m *MockEffect[T]) LastInput() T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastInput
}

// Reset clears call tracking.
func (m *MockEffect[T]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	atomic.StoreInt64(&m.callCount, 0)
	m.lastInput = *new(T)
}

// MockAction is a configurable mock for the Action shape.
type MockAction struct {
	returnErr error
	name      chainz.Name
	callCount int64
	mu        sync.RWMutex
}

// NewMockAction creates a mock action that succeeds until configured
// with WithErr.
func NewMockAction(name chainz.Name) *MockAction {
	return &MockAction{name: name}
}

// WithErr configures the error returned by subsequent calls.
func (m *MockAction) WithErr(err error) *MockAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.returnErr = err
	return m
}

// Action returns the chainz wrapper backed by this mock.
func (m *MockAction) Action() chainz.Action {
	return chainz.NewAction(m.name, func(_ context.Context) error {
		atomic.AddInt64(&m.callCount, 1)
		m.mu.RLock()
		defer m.mu.RUnlock()
		return m.returnErr
	})
}

// Name returns the mock's name.
func (m *MockAction) Name() chainz.Name {
	return m.name
}

// CallCount returns how many times the mock has been invoked.
func (m *MockAction) CallCount() int {
	return int(atomic.LoadInt64(&m.callCount))
}

// Reset clears call tracking.
func (m *MockAction) Reset() {
	atomic.StoreInt64(&m.callCount, 0)
}

// Assertion Helpers

// AssertCalled verifies that a mock was invoked exactly n times.
func AssertCalled(t *testing.T, mock CallCounter, expectedCalls int) {
	t.Helper()
	actualCalls := mock.CallCount()
	if actualCalls != expectedCalls {
		t.Errorf("expected mock %s to be called %d times, but was called %d times",
			mock.Name(), expectedCalls, actualCalls)
	}
}

// AssertNotCalled verifies that a mock was never invoked.
func AssertNotCalled(t *testing.T, mock CallCounter) {
	t.Helper()
	AssertCalled(t, mock, 0)
}

// lastInputer is the subset of mocks that record their input.
type lastInputer[T any] interface {
	CallCounter
	LastInput() T
}

// AssertCalledWith verifies that a mock's most recent call received the
// expected input.
func AssertCalledWith[T comparable](t *testing.T, mock lastInputer[T], expectedInput T) {
	t.Helper()
	if mock.CallCount() == 0 {
		t.Errorf("expected mock %s to be called with input %v, but it was never called",
			mock.Name(), expectedInput)
		return
	}
	actualInput := mock.LastInput()
	if actualInput != expectedInput {
		t.Errorf("expected mock %s to be called with input %v, but was called with %v",
			mock.Name(), expectedInput, actualInput)
	}
}
