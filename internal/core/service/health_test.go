package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/onsi/gomega"

	"taskapp/internal/core/service"
	"taskapp/internal/core/telemetry"
	. "taskapp/pkg/test"
)

type stubPinger struct {
	err   error
	delay time.Duration
}

func (p stubPinger) Ping(ctx context.Context) error {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return p.err
}

func TestHealthService_Up(t *testing.T) {
	RegisterTestingT(t)

	db := InitTestDB()
	defer db.Close()

	result, healthy := service.NewHealthService(db, nil).Check(context.Background())

	Expect(healthy).To(BeTrue())
	Expect(result.Status).To(Equal("ok"))
	Expect(result.Info).To(HaveKey("database"))
	Expect(result.Info["database"].Status).To(Equal("up"))
	Expect(result.Error).To(BeEmpty())
	Expect(result.Details["database"].Status).To(Equal("up"))
}

func TestHealthService_Down(t *testing.T) {
	RegisterTestingT(t)

	metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())

	result, healthy := service.NewHealthService(stubPinger{err: errors.New("connection refused")}, metrics).Check(context.Background())

	Expect(healthy).To(BeFalse())
	Expect(result.Status).To(Equal("error"))
	Expect(result.Info).To(BeEmpty())
	Expect(result.Error["database"].Status).To(Equal("down"))
	Expect(result.Details["database"].Status).To(Equal("down"))
}

func TestHealthService_ClosedDatabaseIsDown(t *testing.T) {
	RegisterTestingT(t)

	db := InitTestDB()
	db.Close()

	_, healthy := service.NewHealthService(db, nil).Check(context.Background())

	Expect(healthy).To(BeFalse())
}

func TestHealthService_CallerDeadlineBoundsPing(t *testing.T) {
	RegisterTestingT(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	started := time.Now()
	_, healthy := service.NewHealthService(stubPinger{delay: time.Minute}, nil).Check(ctx)

	Expect(healthy).To(BeFalse())
	Expect(time.Since(started)).To(BeNumerically("<", service.DefaultHealthTimeout))
}
