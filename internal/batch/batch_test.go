package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/example/pixelsuite/internal/notify"
	"github.com/example/pixelsuite/internal/platform"
)

func items(n int) []Item {
	out := make([]Item, n)
	for i := range out {
		out[i] = Item{ID: string(rune('a' + i))}
	}
	return out
}

func TestRunSequentialWithYield(t *testing.T) {
	var order []string
	yields := 0
	r := New(WithYield(func() {
		yields++
		order = append(order, "yield")
	}))
	res, sum := r.Run(context.Background(), items(3), func(_ context.Context, it Item) (string, error) {
		order = append(order, it.ID)
		return it.ID + ".png", nil
	})
	want := []string{"a", "yield", "b", "yield", "c"}
	if len(order) != len(want) {
		t.Fatalf("order %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order %v", order)
		}
	}
	if sum != (Summary{Done: 3}) || res[2].Path != "c.png" {
		t.Fatalf("summary %+v results %+v", sum, res)
	}
	if yields != 2 {
		t.Fatalf("yields %d", yields)
	}
}

func TestFailureDoesNotAbort(t *testing.T) {
	boom := errors.New("boom")
	r := New(WithYield(nil))
	res, sum := r.Run(context.Background(), items(3), func(_ context.Context, it Item) (string, error) {
		if it.ID == "b" {
			return "", boom
		}
		return it.ID, nil
	})
	if sum.Done != 2 || sum.Failed != 1 {
		t.Fatalf("summary %+v", sum)
	}
	if !errors.Is(res[1].Err, boom) || res[2].Err != nil {
		t.Fatalf("results %+v", res)
	}
}

func TestCancelSkipsQueuedOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(WithYield(nil))
	var ran []string
	res, sum := r.Run(ctx, items(4), func(_ context.Context, it Item) (string, error) {
		ran = append(ran, it.ID)
		if it.ID == "b" {
			cancel()
		}
		return it.ID, nil
	})
	if len(ran) != 2 {
		t.Fatalf("ran %v", ran)
	}
	if res[1].Err != nil || res[1].Skipped {
		t.Fatal("in-flight item was interrupted")
	}
	if !res[2].Skipped || !errors.Is(res[3].Err, context.Canceled) {
		t.Fatalf("results %+v", res)
	}
	if sum != (Summary{Done: 2, Skipped: 2}) {
		t.Fatalf("summary %+v", sum)
	}
}

func TestDismissHidesProgressOnly(t *testing.T) {
	var reports []Progress
	var r *Runner
	r = New(WithYield(nil), WithProgress(func(p Progress) {
		reports = append(reports, p)
		r.Dismiss()
	}))
	_, sum := r.Run(context.Background(), items(3), func(context.Context, Item) (string, error) { return "", nil })
	if sum.Done != 3 {
		t.Fatalf("dismiss stopped work: %+v", sum)
	}
	if len(reports) != 1 || reports[0].Done != 1 || reports[0].Total != 3 {
		t.Fatalf("reports %+v", reports)
	}
}

func TestCompletionNotifies(t *testing.T) {
	n := notify.New(notify.DefaultPreferences())
	n.Enable(notify.EventBatch, true)
	var body string
	n.SetSender(func(_, b string, _ platform.Options) error {
		body = b
		return nil
	})
	r := New(WithYield(nil), WithNotifier(n))
	r.Run(context.Background(), items(2), func(_ context.Context, it Item) (string, error) {
		if it.ID == "a" {
			return "", errors.New("x")
		}
		return "", nil
	})
	if body != "Batch finished: 1 exported, 1 failed" {
		t.Fatalf("body %q", body)
	}
}
