package pool

import (
	"sort"
	"sync/atomic"
	"testing"
)

func TestMap(t *testing.T) {
	jobs := []int{1, 2, 3, 4, 5}
	got := Map(2, jobs, func(n int) int { return n * n })

	sort.Ints(got)
	want := []int{1, 4, 9, 16, 25}
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMapEmpty(t *testing.T) {
	if got := Map(4, nil, func(n int) int { return n }); got != nil {
		t.Errorf("Map over no jobs = %v, want nil", got)
	}
}

func TestBoundedConcurrency(t *testing.T) {
	var active, peak atomic.Int32
	block := make(chan struct{})

	jobs := make([]int, 20)
	done := make(chan []int, 1)
	go func() {
		done <- Map(3, jobs, func(int) int {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			<-block
			active.Add(-1)
			return 0
		})
	}()

	close(block)
	<-done
	if p := peak.Load(); p > 3 {
		t.Errorf("observed %d concurrent workers, want <= 3", p)
	}
}

func TestPoolSizedToJobs(t *testing.T) {
	p := New[int, int](10, 2)
	if p.numWorkers != 2 {
		t.Errorf("numWorkers = %d, want 2", p.numWorkers)
	}

	p = New[int, int](0, 100)
	if p.numWorkers != defaultWorkers {
		t.Errorf("numWorkers = %d, want default %d", p.numWorkers, defaultWorkers)
	}
}
