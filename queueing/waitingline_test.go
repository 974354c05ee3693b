package queueing

import (
	"github.com/sarchlab/checkoutsim/sim"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type posRecorder struct {
	positions []*sim.HookPos
	items     []any
}

func (r *posRecorder) Func(ctx sim.HookCtx) {
	r.positions = append(r.positions, ctx.Pos)
	r.items = append(r.items, ctx.Item)
}

var _ = Describe("WaitingLine", func() {
	var line *WaitingLine

	BeforeEach(func() {
		line = NewWaitingLine()
	})

	Context("when newly created", func() {
		It("should be empty", func() {
			Expect(line.Size()).To(Equal(0))
		})

		It("should report nothing when peeking", func() {
			_, ok := line.Peek()
			Expect(ok).To(BeFalse())
		})

		It("should report nothing when popping", func() {
			_, ok := line.Pop()
			Expect(ok).To(BeFalse())
		})
	})

	Context("when customers are added", func() {
		BeforeEach(func() {
			line.Push(Customer{ArrivalTime: 1})
			line.Push(Customer{ArrivalTime: 2})
		})

		It("should have correct size", func() {
			Expect(line.Size()).To(Equal(2))
		})

		It("should peek the first customer", func() {
			c, ok := line.Peek()
			Expect(ok).To(BeTrue())
			Expect(c.ArrivalTime).To(Equal(sim.VTimeInSec(1)))
		})

		It("should pop customers in FIFO order", func() {
			c, _ := line.Pop()
			Expect(c.ArrivalTime).To(Equal(sim.VTimeInSec(1)))
			Expect(line.Size()).To(Equal(1))

			line.Push(Customer{ArrivalTime: 3})

			c, _ = line.Pop()
			Expect(c.ArrivalTime).To(Equal(sim.VTimeInSec(2)))

			c, _ = line.Pop()
			Expect(c.ArrivalTime).To(Equal(sim.VTimeInSec(3)))
			Expect(line.Size()).To(Equal(0))
		})

		It("should be empty after clear", func() {
			line.Clear()
			Expect(line.Size()).To(Equal(0))

			_, ok := line.Pop()
			Expect(ok).To(BeFalse())
		})
	})

	It("should invoke hooks on push and pop", func() {
		r := &posRecorder{}
		line.AcceptHook(r)

		line.Push(Customer{ArrivalTime: 4})
		line.Pop()

		Expect(r.positions).To(Equal(
			[]*sim.HookPos{HookPosBufPush, HookPosBufPop}))
		Expect(r.items[1]).To(Equal(Customer{ArrivalTime: 4}))
	})

	It("should compute the sojourn time", func() {
		c := Customer{ArrivalTime: 1.5}
		Expect(c.SojournTime(4)).To(Equal(2.5))
	})
})
