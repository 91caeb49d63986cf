package chainz

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
)

func TestMap(t *testing.T) {
	t.Run("Produced Value Feeds The Transformer", func(t *testing.T) {
		greet := NewProducer("greet", func(_ context.Context) (string, error) {
			return "Hello", nil
		})
		length := NewTransformer("length", func(_ context.Context, s string) (int, error) {
			return len(s), nil
		})

		result, err := Map(greet, length).Get(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != 5 {
			t.Errorf("expected 5, got %d", result)
		}
	})

	t.Run("Transformer Never Runs On Producer Failure", func(t *testing.T) {
		transformerCalls := 0
		fetch := NewProducer("fetch", func(_ context.Context) (string, error) {
			return "", errors.New("unavailable")
		})
		length := NewTransformer("length", func(_ context.Context, s string) (int, error) {
			transformerCalls++
			return len(s), nil
		})

		if _, err := Map(fetch, length).Get(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if transformerCalls != 0 {
			t.Errorf("transformer ran %d times after a failed producer", transformerCalls)
		}
	})
}

func TestCompose(t *testing.T) {
	t.Run("Outputs Chain Left To Right", func(t *testing.T) {
		itoa := NewTransformer("itoa", func(_ context.Context, n int) (string, error) {
			return strconv.Itoa(n), nil
		})
		repeat := NewTransformer("repeat", func(_ context.Context, s string) (string, error) {
			return strings.Repeat(s, 2), nil
		})

		result, err := Compose(itoa, repeat).Apply(context.Background(), 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "77" {
			t.Errorf("expected '77', got %q", result)
		}
	})

	t.Run("Associativity", func(t *testing.T) {
		var leftCalls, rightCalls []string
		stage := func(name string, calls *[]string) Transformer[int, int] {
			return NewTransformer(Name(name), func(_ context.Context, n int) (int, error) {
				*calls = append(*calls, name)
				return n*10 + 1, nil
			})
		}

		left := Compose(Compose(stage("a", &leftCalls), stage("b", &leftCalls)), stage("c", &leftCalls))
		right := Compose(stage("a", &rightCalls), Compose(stage("b", &rightCalls), stage("c", &rightCalls)))

		lv, lerr := left.Apply(context.Background(), 0)
		rv, rerr := right.Apply(context.Background(), 0)
		if lerr != nil || rerr != nil {
			t.Fatalf("unexpected errors: %v, %v", lerr, rerr)
		}
		if lv != rv {
			t.Errorf("groupings disagree: %d vs %d", lv, rv)
		}
		if len(leftCalls) != 3 || len(rightCalls) != 3 {
			t.Fatalf("expected 3 calls each, got %v and %v", leftCalls, rightCalls)
		}
		for i := range leftCalls {
			if leftCalls[i] != rightCalls[i] {
				t.Errorf("call order differs at %d: %v vs %v", i, leftCalls, rightCalls)
			}
		}
	})
}

func TestBefore(t *testing.T) {
	t.Run("Effect And Transformer Share The Input", func(t *testing.T) {
		var observed string
		audit := NewEffect("audit", func(_ context.Context, s string) error {
			observed = s
			return nil
		})
		upper := NewTransformer("upper", func(_ context.Context, s string) (string, error) {
			return strings.ToUpper(s), nil
		})

		result, err := Before(audit, upper).Apply(context.Background(), "hej")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if observed != "hej" {
			t.Errorf("effect should observe the original input, saw %q", observed)
		}
		if result != "HEJ" {
			t.Errorf("expected 'HEJ', got %q", result)
		}
	})

	t.Run("Transformer Never Runs On Effect Failure", func(t *testing.T) {
		transformerCalls := 0
		reject := NewEffect("reject", func(_ context.Context, _ string) error {
			return errors.New("forbidden")
		})
		upper := NewTransformer("upper", func(_ context.Context, s string) (string, error) {
			transformerCalls++
			return s, nil
		})

		if _, err := Before(reject, upper).Apply(context.Background(), "x"); err == nil {
			t.Fatal("expected error")
		}
		if transformerCalls != 0 {
			t.Errorf("transformer ran %d times after a failed effect", transformerCalls)
		}
	})
}

func TestSupply(t *testing.T) {
	t.Run("Effect Consumes Then Producer Supplies", func(t *testing.T) {
		var order []string
		store := NewEffect("store", func(_ context.Context, s string) error {
			order = append(order, "store:"+s)
			return nil
		})
		receipt := NewProducer("receipt", func(_ context.Context) (int, error) {
			order = append(order, "receipt")
			return 42, nil
		})

		result, err := Supply(store, receipt).Apply(context.Background(), "payload")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != 42 {
			t.Errorf("expected 42, got %d", result)
		}
		if len(order) != 2 || order[0] != "store:payload" || order[1] != "receipt" {
			t.Errorf("expected effect before producer, got %v", order)
		}
	})
}

func TestAfter(t *testing.T) {
	t.Run("Action Runs Then Producer Yields", func(t *testing.T) {
		var order []string
		connect := NewAction("connect", func(_ context.Context) error {
			order = append(order, "connect")
			return nil
		})
		fetch := NewProducer("fetch", func(_ context.Context) (string, error) {
			order = append(order, "fetch")
			return "Hello", nil
		})

		result, err := After(connect, fetch).Get(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "Hello" {
			t.Errorf("expected 'Hello', got %q", result)
		}
		if len(order) != 2 || order[0] != "connect" || order[1] != "fetch" {
			t.Errorf("expected action before producer, got %v", order)
		}
	})

	t.Run("Producer Never Runs On Action Failure", func(t *testing.T) {
		producerCalls := 0
		connect := NewAction("connect", func(_ context.Context) error {
			return errors.New("refused")
		})
		fetch := NewProducer("fetch", func(_ context.Context) (string, error) {
			producerCalls++
			return "", nil
		})

		if _, err := After(connect, fetch).Get(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if producerCalls != 0 {
			t.Errorf("producer ran %d times after a failed action", producerCalls)
		}
	})
}

func TestMixedAssociativity(t *testing.T) {
	// (p then t) then e must behave like p then (t then e).
	t.Run("Producer Transformer Effect", func(t *testing.T) {
		run := func(group func(Producer[int], Transformer[int, string], Effect[string]) Action) ([]string, error) {
			var calls []string
			p := NewProducer("p", func(_ context.Context) (int, error) {
				calls = append(calls, "p")
				return 7, nil
			})
			tr := NewTransformer("t", func(_ context.Context, n int) (string, error) {
				calls = append(calls, "t:"+strconv.Itoa(n))
				return strconv.Itoa(n), nil
			})
			e := NewEffect("e", func(_ context.Context, s string) error {
				calls = append(calls, "e:"+s)
				return nil
			})
			err := group(p, tr, e).Run(context.Background())
			return calls, err
		}

		left, lerr := run(func(p Producer[int], tr Transformer[int, string], e Effect[string]) Action {
			return Map(p, tr).ThenEffect(e)
		})
		right, rerr := run(func(p Producer[int], tr Transformer[int, string], e Effect[string]) Action {
			return p.ThenEffect(tr.ThenEffect(e))
		})
		if lerr != nil || rerr != nil {
			t.Fatalf("unexpected errors: %v, %v", lerr, rerr)
		}
		want := []string{"p", "t:7", "e:7"}
		for i, w := range want {
			if left[i] != w || right[i] != w {
				t.Errorf("expected %v, got left %v right %v", want, left, right)
				break
			}
		}
	})
}
