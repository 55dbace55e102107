package devices_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/bits"
	"github.com/sarchlab/bpsim/devices"
)

var _ = Describe("SaturatingCounter", func() {
	var sc *devices.SaturatingCounter

	BeforeEach(func() {
		sc = devices.NewSaturatingCounter("sc", 2, nil)
	})

	It("should read the bits as an unsigned big-endian value", func() {
		Expect(sc.Load(bits.MustParse("10"))).To(Succeed())
		Expect(sc.Value()).To(Equal(uint64(2)))
		Expect(sc.Max()).To(Equal(uint64(3)))
	})

	It("should count up and saturate at the maximum", func() {
		for i := 0; i < 5; i++ {
			sc.Insert(bits.One)
		}
		Expect(sc.Value()).To(Equal(uint64(3)))
		Expect(sc.Dump()).To(Equal("11"))
	})

	It("should count down and saturate at zero", func() {
		Expect(sc.Load(bits.MustParse("01"))).To(Succeed())
		sc.Insert(bits.Zero)
		sc.Insert(bits.Zero)
		Expect(sc.Value()).To(Equal(uint64(0)))
		Expect(sc.Dump()).To(Equal("00"))
	})

	It("should need two mispredictions to flip a saturated 2-bit counter", func() {
		Expect(sc.Load(bits.MustParse("11"))).To(Succeed())

		sc.Insert(bits.Zero)
		Expect(sc.Read().MSB()).To(Equal(bits.One))

		sc.Insert(bits.Zero)
		Expect(sc.Read().MSB()).To(Equal(bits.Zero))
	})

	It("should keep its width after counting", func() {
		sc.Increment()
		Expect(sc.Len()).To(Equal(2))
		Expect(sc.Read()).To(HaveLen(2))
	})

	It("should stay within bounds for random inputs at every width", func() {
		rng := rand.New(rand.NewSource(7))

		for width := 1; width <= 6; width++ {
			c := devices.NewSaturatingCounter("sc", width, nil)
			max := uint64(1)<<width - 1
			for i := 0; i < 500; i++ {
				c.Insert(bits.FromBool(rng.Intn(2) == 1))
				Expect(c.Value()).To(BeNumerically("<=", max))
			}
		}
	})

	It("should never wrap when driven up and down past its bounds", func() {
		for width := 1; width <= 4; width++ {
			c := devices.NewSaturatingCounter("sc", width, nil)
			max := c.Max()
			steps := 1 << (width + 1)

			hitMax, hitZero := 0, 0
			for round := 0; round < 3; round++ {
				for i := 0; i < steps; i++ {
					c.Insert(bits.One)
					Expect(c.Value()).To(BeNumerically("<=", max))
				}
				if c.Value() == max {
					hitMax++
				}

				for i := 0; i < steps; i++ {
					c.Insert(bits.Zero)
					Expect(c.Value()).To(BeNumerically("<=", max))
				}
				if c.Value() == 0 {
					hitZero++
				}
			}

			Expect(hitMax).To(Equal(3))
			Expect(hitZero).To(Equal(3))
		}
	})

	It("should oscillate without leaving the bounds on alternating input", func() {
		c := devices.NewSaturatingCounter("sc", 3, nil)
		for i := 0; i < 1<<4; i++ {
			c.Insert(bits.FromBool(i%2 == 0))
			Expect(c.Value()).To(BeNumerically("<=", uint64(1)))
		}
	})

	It("should support counters as wide as 64 bits", func() {
		c := devices.NewSaturatingCounter("wide", 64, nil)
		Expect(c.Max()).To(Equal(^uint64(0)))

		c.Decrement()
		Expect(c.Value()).To(Equal(uint64(0)))
	})
})
