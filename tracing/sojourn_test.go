package tracing_test

import (
	"bytes"

	"github.com/sarchlab/checkoutsim/checkout"
	"github.com/sarchlab/checkoutsim/tracing"
	"github.com/sarchlab/checkoutsim/variate"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SojournTracer", func() {
	var (
		tracer *tracing.SojournTracer
		s      *checkout.Simulator
	)

	BeforeEach(func() {
		tracer = tracing.NewSojournTracer()

		var err error
		s, err = checkout.MakeBuilder().
			WithHorizon(4).
			WithArrivalSource(variate.Constant(1)).
			WithServiceSource(variate.Constant(1.5)).
			WithHook(tracer).
			Build()
		Expect(err).NotTo(HaveOccurred())
	})

	It("should record every departure of the trial", func() {
		r := s.RunTrial()

		Expect(tracer.Count()).To(Equal(s.LastStatistics().Served))
		Expect(tracer.Departures()).To(Equal([]tracing.Departure{
			{ArrivalTime: 1, DepartureTime: 2.5, SojournTime: 1.5},
			{ArrivalTime: 2, DepartureTime: 4, SojournTime: 2},
		}))
		Expect(tracer.AverageSojournTime()).To(Equal(r.MeanSystemTime))
	})

	It("should forget the previous trial", func() {
		s.RunTrial()
		s.RunTrial()

		Expect(tracer.Count()).To(Equal(2))
	})

	It("should write departures as CSV", func() {
		s.RunTrial()

		buf := new(bytes.Buffer)
		err := tracing.WriteCSV(buf, tracer.Departures())

		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(Equal(
			"Customer, Arrival, Departure, Sojourn\n" +
				"0, 1.0000000000, 2.5000000000, 1.5000000000\n" +
				"1, 2.0000000000, 4.0000000000, 2.0000000000\n"))
	})

	It("should report zero average without departures", func() {
		Expect(tracer.AverageSojournTime()).To(Equal(0.0))
	})
})
