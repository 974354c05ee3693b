package checkout

import (
	"math"

	"github.com/sarchlab/checkoutsim/queueing"
	"github.com/sarchlab/checkoutsim/sim"
	"github.com/sarchlab/checkoutsim/variate"
	gomock "go.uber.org/mock/gomock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type traceHook struct {
	events     []sim.Event
	departures int
	sojourns   []float64
	starts     []Snapshot
}

func (h *traceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosBeforeEvent:
		evt := ctx.Item.(sim.Event)
		h.events = append(h.events, evt)
		if evt.Kind == sim.EventDepart {
			h.departures++
		}
	case sim.HookPosCustomerDeparted:
		h.sojourns = append(h.sojourns, ctx.Detail.(float64))
	case sim.HookPosTrialStart:
		h.starts = append(h.starts, ctx.Item.(Snapshot))
	}
}

func (h *traceHook) clear() {
	h.events = nil
	h.departures = 0
	h.sojourns = nil
}

var _ = Describe("Builder", func() {
	It("should build with the reference parameters", func() {
		s, err := MakeBuilder().Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(s.Horizon()).To(Equal(5000.0))
		Expect(s.ArrivalRate()).To(Equal(4.0))
		Expect(s.ServiceRate()).To(Equal(5.0))
		Expect(s.TrialsRun()).To(Equal(0))
	})

	DescribeTable("should reject invalid parameters",
		func(b Builder) {
			s, err := b.Build()

			Expect(err).To(MatchError(ErrInvalidParameter))
			Expect(s).To(BeNil())
		},
		Entry("zero horizon", MakeBuilder().WithHorizon(0)),
		Entry("negative horizon", MakeBuilder().WithHorizon(-1)),
		Entry("infinite horizon", MakeBuilder().WithHorizon(math.Inf(1))),
		Entry("zero arrival rate", MakeBuilder().WithArrivalRate(0)),
		Entry("NaN arrival rate", MakeBuilder().WithArrivalRate(math.NaN())),
		Entry("negative service rate", MakeBuilder().WithServiceRate(-5)),
	)
})

var _ = Describe("Simulator", func() {
	var (
		mockCtrl *gomock.Controller
		hook     *traceHook
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hook = &traceHook{}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("with fixed variates", func() {
		build := func(horizon, interarrival, service float64) *Simulator {
			s, err := MakeBuilder().
				WithHorizon(horizon).
				WithArrivalRate(1).
				WithServiceRate(2).
				WithArrivalSource(variate.Constant(interarrival)).
				WithServiceSource(variate.Constant(service)).
				WithHook(hook).
				Build()
			Expect(err).NotTo(HaveOccurred())

			return s
		}

		It("should process only the first customer before 1.6", func() {
			s := build(1.6, 1, 0.5)

			r := s.RunTrial()

			stats := s.LastStatistics()
			Expect(stats.Served).To(Equal(1))
			Expect(stats.BusyTime).To(BeNumerically("~", 0.5, 1e-12))
			Expect(stats.CustomerTimeArea).To(BeNumerically("~", 0.5, 1e-12))
			Expect(r.Utilisation).To(BeNumerically("~", 0.3125, 1e-12))
			Expect(r.MeanCustomersInSystem).To(BeNumerically("~", 0.3125, 1e-12))
			Expect(r.MeanSystemTime).To(BeNumerically("~", 0.5, 1e-12))

			kinds := []sim.EventKind{}
			for _, e := range hook.events {
				kinds = append(kinds, e.Kind)
			}
			Expect(kinds).To(Equal([]sim.EventKind{
				sim.EventArrive, sim.EventDepart, sim.EventStop,
			}))
		})

		It("should handle an arrival at the horizon before stopping", func() {
			s := build(10, 1, 0.5)

			r := s.RunTrial()

			Expect(s.LastStatistics().Served).To(Equal(9))
			Expect(r.Utilisation).To(BeNumerically("~", 0.45, 1e-12))
			Expect(r.MeanCustomersInSystem).To(BeNumerically("~", 0.45, 1e-12))
			Expect(r.MeanSystemTime).To(BeNumerically("~", 0.5, 1e-12))

			last := hook.events[len(hook.events)-1]
			beforeLast := hook.events[len(hook.events)-2]
			Expect(last.Kind).To(Equal(sim.EventStop))
			Expect(beforeLast.Kind).To(Equal(sim.EventArrive))
			Expect(beforeLast.Time).To(Equal(sim.VTimeInSec(10)))
		})

		It("should queue customers while the server is busy", func() {
			s := build(4, 1, 1.5)

			r := s.RunTrial()

			stats := s.LastStatistics()
			Expect(stats.Served).To(Equal(2))
			Expect(stats.SystemTimeTotal).To(BeNumerically("~", 3.5, 1e-12))
			Expect(r.Utilisation).To(BeNumerically("~", 0.75, 1e-12))
			Expect(r.MeanCustomersInSystem).To(BeNumerically("~", 1.125, 1e-12))
			Expect(r.MeanSystemTime).To(BeNumerically("~", 1.75, 1e-12))
			Expect(hook.sojourns).To(Equal([]float64{1.5, 2}))
		})

		It("should not count the customer in service at the horizon", func() {
			s := build(1.2, 1, 0.5)

			r := s.RunTrial()

			Expect(s.LastStatistics().Served).To(Equal(0))
			Expect(r.Utilisation).To(BeNumerically("~", 0.2/1.2, 1e-12))
			Expect(math.IsNaN(r.MeanSystemTime)).To(BeTrue())
		})

		It("should give identical trials when the variates do not vary", func() {
			s := build(10, 1, 0.5)

			first := s.RunTrial()
			firstStats := s.LastStatistics()
			second := s.RunTrial()

			Expect(second).To(Equal(first))
			Expect(s.LastStatistics()).To(Equal(firstStats))
			Expect(s.TrialsRun()).To(Equal(2))
		})
	})

	Context("with mocked variates", func() {
		var (
			arrivals *MockSource
			services *MockSource
			s        *Simulator
		)

		BeforeEach(func() {
			arrivals = NewMockSource(mockCtrl)
			services = NewMockSource(mockCtrl)

			var err error
			s, err = MakeBuilder().
				WithHorizon(1).
				WithArrivalRate(4).
				WithServiceRate(5).
				WithArrivalSource(arrivals).
				WithServiceSource(services).
				Build()
			Expect(err).NotTo(HaveOccurred())
		})

		It("should report nothing if the first arrival is after the horizon",
			func() {
				arrivals.EXPECT().Sample(4.0).Return(2.0, nil)

				r := s.RunTrial()

				Expect(r.Utilisation).To(Equal(0.0))
				Expect(r.MeanCustomersInSystem).To(Equal(0.0))
				Expect(math.IsNaN(r.MeanSystemTime)).To(BeTrue())
				Expect(s.LastStatistics().Served).To(Equal(0))
			})

		It("should draw from each stream with its own rate", func() {
			gomock.InOrder(
				arrivals.EXPECT().Sample(4.0).Return(0.25, nil),
				arrivals.EXPECT().Sample(4.0).Return(2.0, nil),
			)
			services.EXPECT().Sample(5.0).Return(0.5, nil)

			r := s.RunTrial()

			Expect(s.LastStatistics().Served).To(Equal(1))
			Expect(r.Utilisation).To(BeNumerically("~", 0.5, 1e-12))
			Expect(r.MeanSystemTime).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("should keep drawing from the same streams in the next trial",
			func() {
				gomock.InOrder(
					arrivals.EXPECT().Sample(4.0).Return(3.0, nil),
					arrivals.EXPECT().Sample(4.0).Return(0.5, nil),
					arrivals.EXPECT().Sample(4.0).Return(5.0, nil),
				)
				services.EXPECT().Sample(5.0).Return(0.25, nil)

				first := s.RunTrial()
				second := s.RunTrial()

				Expect(first.Utilisation).To(Equal(0.0))
				Expect(second.Utilisation).To(BeNumerically("~", 0.25, 1e-12))
			})

		It("should panic if a stream fails", func() {
			arrivals.EXPECT().Sample(4.0).Return(0.0, variate.ErrInvalidRate)

			Expect(func() { s.RunTrial() }).To(Panic())
		})
	})

	Context("with random variates", func() {
		var s *Simulator

		BeforeEach(func() {
			var err error
			s, err = MakeBuilder().
				WithHorizon(200).
				WithArrivalRate(4).
				WithServiceRate(5).
				WithSeed(7).
				WithHook(hook).
				Build()
			Expect(err).NotTo(HaveOccurred())
		})

		It("should satisfy the trial invariants", func() {
			for i := 0; i < 20; i++ {
				hook.clear()

				r := s.RunTrial()
				stats := s.LastStatistics()

				Expect(r.Utilisation).To(BeNumerically(">=", 0))
				Expect(r.Utilisation).To(BeNumerically("<=", 1))
				Expect(stats.CustomerTimeArea).
					To(BeNumerically(">=", stats.BusyTime))
				Expect(r.MeanCustomersInSystem).
					To(BeNumerically(">=", r.Utilisation))
				Expect(stats.Served).To(Equal(hook.departures))
				Expect(hook.sojourns).To(HaveLen(stats.Served))

				total := 0.0
				for _, x := range hook.sojourns {
					Expect(x).To(BeNumerically(">=", 0))
					total += x
				}
				Expect(stats.SystemTimeTotal).
					To(BeNumerically("~", total, 1e-9))

				previous := sim.VTimeInSec(0)
				for _, e := range hook.events {
					Expect(e.Time).To(BeNumerically(">=", previous))
					previous = e.Time
				}
				Expect(hook.events[len(hook.events)-1].Kind).
					To(Equal(sim.EventStop))
			}
		})

		It("should start every trial from a zeroed state", func() {
			s.RunTrial()
			s.RunTrial()

			Expect(hook.starts).To(HaveLen(2))
			for _, snap := range hook.starts {
				Expect(snap.Busy).To(BeFalse())
				Expect(snap.WaitingLine).To(Equal(0))
				Expect(snap.Pending).To(Equal(0))
				Expect(snap.Statistics).To(Equal(Statistics{}))
			}
		})

		It("should be reproducible for the same seed", func() {
			other, err := MakeBuilder().
				WithHorizon(200).
				WithSeed(7).
				Build()
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 3; i++ {
				Expect(other.RunTrial()).To(Equal(s.RunTrial()))
			}
		})

		It("should continue the stream across trials", func() {
			first := s.RunTrial()
			second := s.RunTrial()

			Expect(second).NotTo(Equal(first))
		})

		It("should approach the steady state over a long horizon", func() {
			long, err := MakeBuilder().
				WithHorizon(50000).
				WithSeed(3).
				Build()
			Expect(err).NotTo(HaveOccurred())

			r := long.RunTrial()

			Expect(r.Utilisation).To(BeNumerically("~", 0.8, 0.03))
			Expect(r.MeanSystemTime).To(BeNumerically("~", 1.0, 0.2))
		})
	})

	It("should expose the waiting line for hooks", func() {
		s, err := MakeBuilder().
			WithHorizon(4).
			WithArrivalSource(variate.Constant(1)).
			WithServiceSource(variate.Constant(1.5)).
			Build()
		Expect(err).NotTo(HaveOccurred())

		pushes := 0
		s.WaitingLine().AcceptHook(hookFunc(func(ctx sim.HookCtx) {
			if ctx.Pos == queueing.HookPosBufPush {
				pushes++
			}
		}))

		s.RunTrial()

		Expect(pushes).To(Equal(3))
	})
})

type hookFunc func(ctx sim.HookCtx)

func (f hookFunc) Func(ctx sim.HookCtx) { f(ctx) }
