package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fluree/vg-engine/pkg/scheduler"
)

func TestScheduler(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Scheduler Suite")
}

var _ = Describe("Scheduler", func() {
	var s *scheduler.Scheduler

	AfterEach(func() {
		if s != nil {
			s.Close()
		}
	})

	It("runs work and returns its result", func() {
		s = scheduler.NewScheduler(2)

		future := s.AddWork(func(ctx context.Context) (any, error) {
			return 42, nil
		})

		Eventually(future.C(), time.Second).Should(Receive(Equal(scheduler.Result[any]{Data: 42, Err: nil})))
	})

	It("surfaces errors without dropping the result", func() {
		s = scheduler.NewScheduler(1)
		boom := errors.New("boom")

		future := s.AddWork(func(ctx context.Context) (any, error) {
			return nil, boom
		})

		var result scheduler.Result[any]
		Eventually(future.C(), time.Second).Should(Receive(&result))
		Expect(result.Err).To(MatchError(boom))
	})

	It("recovers a panicking worker instead of losing the pool slot", func() {
		s = scheduler.NewScheduler(1)

		future := s.AddWork(func(ctx context.Context) (any, error) {
			panic("worker exploded")
		})
		var result scheduler.Result[any]
		Eventually(future.C(), time.Second).Should(Receive(&result))
		Expect(result.Err).To(HaveOccurred())

		// pool slot must be usable again
		second := s.AddWork(func(ctx context.Context) (any, error) {
			return "ok", nil
		})
		Eventually(second.C(), time.Second).Should(Receive(Equal(scheduler.Result[any]{Data: "ok", Err: nil})))
	})

	It("queues work beyond the worker count and drains it in order of completion", func() {
		s = scheduler.NewScheduler(1)

		first := s.AddWork(func(ctx context.Context) (any, error) {
			time.Sleep(20 * time.Millisecond)
			return 1, nil
		})
		second := s.AddWork(func(ctx context.Context) (any, error) {
			return 2, nil
		})

		Eventually(first.C(), time.Second).Should(Receive(Equal(scheduler.Result[any]{Data: 1, Err: nil})))
		Eventually(second.C(), time.Second).Should(Receive(Equal(scheduler.Result[any]{Data: 2, Err: nil})))
	})
})
