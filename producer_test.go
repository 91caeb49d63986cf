package chainz

import (
	"context"
	"errors"
	"testing"
)

func TestProducer(t *testing.T) {
	t.Run("Get Success", func(t *testing.T) {
		greet := NewProducer("greet", func(_ context.Context) (string, error) {
			return "Hello", nil
		})

		if greet.Name() != "greet" {
			t.Errorf("expected name 'greet', got %q", greet.Name())
		}

		result, err := greet.Get(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "Hello" {
			t.Errorf("expected 'Hello', got %q", result)
		}
	})

	t.Run("Get Error Wrapped With Stage Context", func(t *testing.T) {
		boom := errors.New("backend down")
		fetch := NewProducer("fetch", func(_ context.Context) (string, error) {
			return "", boom
		})

		_, err := fetch.Get(context.Background())
		if err == nil {
			t.Fatal("expected error")
		}

		var stageErr *Error
		if !errors.As(err, &stageErr) {
			t.Fatal("expected chainz.Error")
		}
		if len(stageErr.Path) != 1 || stageErr.Path[0] != "fetch" {
			t.Errorf("expected path [fetch], got %v", stageErr.Path)
		}
		if !errors.Is(err, boom) {
			t.Error("original cause should survive wrapping")
		}
	})

	t.Run("Nil Function Panics", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic for nil function")
			}
		}()
		NewProducer[string]("bad", nil)
	})

	t.Run("Wrapping Performs No Invocation", func(t *testing.T) {
		calls := 0
		NewProducer("counted", func(_ context.Context) (int, error) {
			calls++
			return 0, nil
		})
		if calls != 0 {
			t.Errorf("expected no invocation at wrap time, got %d calls", calls)
		}
	})

	t.Run("Then Feeds Output Forward", func(t *testing.T) {
		greet := NewProducer("greet", func(_ context.Context) (string, error) {
			return "Hello", nil
		})
		suffix := NewTransformer("suffix", func(_ context.Context, s string) (string, error) {
			return s + "!", nil
		})

		result, err := greet.Then(suffix).Get(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "Hello!" {
			t.Errorf("expected 'Hello!', got %q", result)
		}
	})

	t.Run("ThenEffect Consumes The Produced Value", func(t *testing.T) {
		var seen string
		greet := NewProducer("greet", func(_ context.Context) (string, error) {
			return "Hello", nil
		})
		record := NewEffect("record", func(_ context.Context, s string) error {
			seen = s
			return nil
		})

		pipeline := greet.ThenEffect(record)
		if err := pipeline.Run(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen != "Hello" {
			t.Errorf("expected effect to receive 'Hello', got %q", seen)
		}
	})

	t.Run("ThenEffect Skips Effect On Producer Failure", func(t *testing.T) {
		boom := errors.New("no value")
		effectCalls := 0
		fetch := NewProducer("fetch", func(_ context.Context) (string, error) {
			return "", boom
		})
		record := NewEffect("record", func(_ context.Context, _ string) error {
			effectCalls++
			return nil
		})

		err := fetch.ThenEffect(record).Run(context.Background())
		if !errors.Is(err, boom) {
			t.Errorf("expected original failure, got %v", err)
		}
		if effectCalls != 0 {
			t.Errorf("effect should never run after a failed producer, ran %d times", effectCalls)
		}
	})

	t.Run("ThenAction Discards The Produced Value", func(t *testing.T) {
		var calls []string
		greet := NewProducer("greet", func(_ context.Context) (string, error) {
			calls = append(calls, "greet")
			return "Hello", nil
		})
		cleanup := NewAction("cleanup", func(_ context.Context) error {
			calls = append(calls, "cleanup")
			return nil
		})

		if err := greet.ThenAction(cleanup).Run(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(calls) != 2 || calls[0] != "greet" || calls[1] != "cleanup" {
			t.Errorf("expected [greet cleanup], got %v", calls)
		}
	})

	t.Run("Composition Never Invokes", func(t *testing.T) {
		calls := 0
		greet := NewProducer("greet", func(_ context.Context) (string, error) {
			calls++
			return "Hello", nil
		})
		suffix := NewTransformer("suffix", func(_ context.Context, s string) (string, error) {
			calls++
			return s, nil
		})

		greet.Then(suffix)
		if calls != 0 {
			t.Errorf("composition should be invocation-free, got %d calls", calls)
		}
	})
}
