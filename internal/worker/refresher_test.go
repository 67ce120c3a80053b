package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hoopsreport/dashboard/internal/models"
	"github.com/hoopsreport/dashboard/internal/storage"
)

type MockReportService struct {
	mu        sync.Mutex
	today     string
	refreshed []string
	err       error
	block     chan struct{}
}

func (m *MockReportService) GetReport(ctx context.Context, date string) (*models.Report, error) {
	return nil, errors.New("not used")
}

func (m *MockReportService) RefreshReport(ctx context.Context, date string) (*models.Report, error) {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshed = append(m.refreshed, date)
	if m.err != nil {
		return nil, m.err
	}
	return &models.Report{Date: date}, nil
}

func (m *MockReportService) Today() string { return m.today }

func (m *MockReportService) Refreshed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.refreshed...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestRefresher_RefreshesTodayOnStart(t *testing.T) {
	svc := &MockReportService{today: "2024-03-01"}
	r := NewRefresher(RefresherConfig{
		Reports:  svc,
		Interval: time.Hour,
		Logger:   zap.NewNop(),
	})

	r.Start(context.Background())
	defer r.Stop()

	waitFor(t, func() bool { return len(svc.Refreshed()) == 1 })
	if got := svc.Refreshed()[0]; got != "2024-03-01" {
		t.Errorf("refreshed %q; want 2024-03-01", got)
	}
}

func TestRefresher_PeriodicTicks(t *testing.T) {
	svc := &MockReportService{today: "2024-03-01"}
	r := NewRefresher(RefresherConfig{
		Reports:  svc,
		Interval: 10 * time.Millisecond,
	})

	r.Start(context.Background())
	waitFor(t, func() bool { return len(svc.Refreshed()) >= 3 })
	r.Stop()
}

func TestRefresher_Enqueue(t *testing.T) {
	svc := &MockReportService{err: storage.ErrReportNotFound}
	r := NewRefresher(RefresherConfig{Reports: svc})

	r.Start(context.Background())
	defer r.Stop()

	if !r.Enqueue("2024-02-28") {
		t.Fatal("Enqueue returned false")
	}
	waitFor(t, func() bool { return len(svc.Refreshed()) == 1 })
	if got := svc.Refreshed()[0]; got != "2024-02-28" {
		t.Errorf("refreshed %q; want 2024-02-28", got)
	}
}

func TestRefresher_LoadShedding(t *testing.T) {
	svc := &MockReportService{block: make(chan struct{})}
	r := NewRefresher(RefresherConfig{Reports: svc, QueueSize: 1})

	r.Start(context.Background())

	// first date is picked up by the worker, which then blocks
	if !r.Enqueue("2024-03-01") {
		t.Fatal("first Enqueue returned false")
	}
	waitFor(t, func() bool { return r.QueueDepth() == 0 })

	if !r.Enqueue("2024-03-02") {
		t.Fatal("second Enqueue returned false")
	}
	if r.Enqueue("2024-03-03") {
		t.Error("Enqueue on a full queue should return false")
	}

	close(svc.block)
	r.Stop()

	if r.Enqueue("2024-03-04") {
		t.Error("Enqueue after Stop should return false")
	}
	r.Stop() // idempotent
}

func TestRefresher_ConcurrentEnqueueAndStop(t *testing.T) {
	svc := &MockReportService{}
	r := NewRefresher(RefresherConfig{Reports: svc, WorkerCount: 2, QueueSize: 8})
	r.Start(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.Enqueue(fmt.Sprintf("2024-03-%02d", (i+j)%28+1))
				if j == 25 && i == 0 {
					go r.Stop()
				}
			}
		}(i)
	}
	wg.Wait()
	r.Stop()

	if r.Enqueue("2024-03-01") {
		t.Error("Enqueue after Stop should return false")
	}
}
