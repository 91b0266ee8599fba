package broadcast

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCell_PublishThenObserve(t *testing.T) {
	cell := NewCell[int]()
	cell.Publish(42)

	v, gen, err := cell.Observe(context.Background(), 0)
	if err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if v != 42 {
		t.Errorf("value = %d, want 42", v)
	}
	if gen != 1 {
		t.Errorf("generation = %d, want 1", gen)
	}
}

func TestCell_ObserverSeesOnlyLatest(t *testing.T) {
	cell := NewCell[int]()
	for i := 1; i <= 5; i++ {
		cell.Publish(i)
	}

	v, gen, err := cell.Observe(context.Background(), 0)
	if err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if v != 5 {
		t.Errorf("value = %d, want 5 (latest only)", v)
	}
	if gen != 5 {
		t.Errorf("generation = %d, want 5", gen)
	}
}

func TestCell_ObserveBlocksUntilPublish(t *testing.T) {
	cell := NewCell[string]()

	got := make(chan string, 1)
	go func() {
		v, _, err := cell.Observe(context.Background(), 0)
		if err != nil {
			t.Errorf("Observe failed: %v", err)
		}
		got <- v
	}()

	select {
	case v := <-got:
		t.Fatalf("Observe returned %q before any publish", v)
	case <-time.After(20 * time.Millisecond):
	}

	cell.Publish("hello")

	select {
	case v := <-got:
		if v != "hello" {
			t.Errorf("value = %q, want %q", v, "hello")
		}
	case <-time.After(time.Second):
		t.Fatal("Observe did not wake after publish")
	}
}

func TestCell_GenerationsNeverGoBackward(t *testing.T) {
	cell := NewCell[int]()
	ctx := context.Background()

	cell.Publish(1)
	_, gen1, _ := cell.Observe(ctx, 0)

	cell.Publish(2)
	cell.Publish(3)
	_, gen2, _ := cell.Observe(ctx, gen1)

	if gen2 <= gen1 {
		t.Errorf("generation went backward: %d then %d", gen1, gen2)
	}
}

func TestCell_ManyConcurrentReaders(t *testing.T) {
	cell := NewCell[int]()
	ctx := context.Background()

	const readers = 50
	var wg sync.WaitGroup
	results := make([]int, readers)

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := cell.Observe(ctx, 0)
			if err != nil {
				t.Errorf("reader %d: Observe failed: %v", i, err)
				return
			}
			results[i] = v
		}(i)
	}

	// Give readers a moment to park, then publish once.
	time.Sleep(10 * time.Millisecond)
	cell.Publish(7)

	wg.Wait()
	for i, v := range results {
		if v != 7 {
			t.Errorf("reader %d saw %d, want 7", i, v)
		}
	}
}

func TestCell_ObserveContextCancelled(t *testing.T) {
	cell := NewCell[int]()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, _, err := cell.Observe(ctx, 0)
		errCh <- err
	}()

	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Observe did not return after context cancellation")
	}
}

func TestCell_CloseWakesReaders(t *testing.T) {
	cell := NewCell[int]()

	errCh := make(chan error, 1)
	go func() {
		_, _, err := cell.Observe(context.Background(), 0)
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cell.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("error = %v, want ErrClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Observe did not return after Close")
	}
}

func TestCell_PublishAfterCloseDropped(t *testing.T) {
	cell := NewCell[int]()
	cell.Publish(1)
	cell.Close()
	cell.Publish(2)

	v, gen := cell.Current()
	if v != 1 || gen != 1 {
		t.Errorf("Current() = (%d, %d), want (1, 1)", v, gen)
	}
}

func TestCell_LateReaderSeesValuePublishedBeforeClose(t *testing.T) {
	cell := NewCell[int]()
	cell.Publish(9)
	cell.Close()

	// A reader that has not seen the final value gets it even after Close.
	v, _, err := cell.Observe(context.Background(), 0)
	if err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if v != 9 {
		t.Errorf("value = %d, want 9", v)
	}

	// A reader that has seen it gets ErrClosed.
	if _, _, err := cell.Observe(context.Background(), 1); !errors.Is(err, ErrClosed) {
		t.Errorf("error = %v, want ErrClosed", err)
	}
}
