package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var _ = Describe("EventLogger", func() {
	var (
		logs   *observer.ObservedLogs
		logger *EventLogger
	)

	BeforeEach(func() {
		var core zapcore.Core
		core, logs = observer.New(zapcore.DebugLevel)
		logger = NewEventLogger(zap.New(core).Sugar())
	})

	It("should log events before they are handled", func() {
		logger.Func(HookCtx{
			Pos:  HookPosBeforeEvent,
			Item: NewDepartEvent(2.5),
		})

		entries := logs.FilterMessage("event").All()
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].ContextMap()).To(HaveKeyWithValue("kind", "Depart"))
		Expect(entries[0].ContextMap()).To(HaveKeyWithValue("time", 2.5))
	})

	It("should log departures", func() {
		logger.Func(HookCtx{
			Pos:    HookPosCustomerDeparted,
			Now:    3,
			Detail: 1.25,
		})

		Expect(logs.FilterMessage("departure").Len()).To(Equal(1))
	})

	It("should ignore other positions", func() {
		logger.Func(HookCtx{Pos: HookPosAfterEvent, Item: NewStopEvent(1)})

		Expect(logs.Len()).To(Equal(0))
	})
})
