package efd

import (
	"testing"
	"time"
)

func TestSignalThenWait(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.Signal()
	done := make(chan error, 1)
	go func() { done <- s.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not observe a prior Signal")
	}
}

func TestSignalCoalescing(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for i := 0; i < 100; i++ {
		s.Signal()
	}
	if err := s.Wait(); err != nil {
		t.Fatalf("Wait after burst: %v", err)
	}

	// All 100 signals must have been consumed by the single Wait: a second
	// Wait only returns once a fresh Signal arrives.
	woke := make(chan struct{})
	go func() {
		s.Wait()
		close(woke)
	}()
	select {
	case <-woke:
		t.Fatal("Wait returned without a fresh Signal")
	case <-time.After(50 * time.Millisecond):
	}
	s.Signal()
	select {
	case <-woke:
	case <-time.After(2 * time.Second):
		t.Fatal("fresh Signal did not wake the waiter")
	}
}

func TestWaitBeforeSignal(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	done := make(chan error, 1)
	go func() { done <- s.Wait() }()
	time.Sleep(20 * time.Millisecond)
	s.Signal()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Signal did not wake a parked waiter")
	}
}
