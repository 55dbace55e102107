package devices_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/bits"
	"github.com/sarchlab/bpsim/devices"
)

var _ = Describe("RegisterBank", func() {
	var bank *devices.RegisterBank

	BeforeEach(func() {
		bank = devices.NewRegisterBank("bhr", 3)
	})

	It("should materialize a zero register on first read", func() {
		reg := bank.Read(bits.MustParse("01"))
		Expect(reg.Len()).To(Equal(3))
		Expect(reg.Dump()).To(Equal("000"))
		Expect(bank.Len()).To(Equal(1))

		bank.Read(bits.MustParse("01"))
		Expect(bank.Len()).To(Equal(1))
	})

	It("should only persist changes written back", func() {
		sel := bits.MustParse("10")
		reg := bank.Read(sel)
		reg.Insert(bits.One)
		Expect(bank.Read(sel).Dump()).To(Equal("000"))

		Expect(bank.Write(sel, reg.Read())).To(Succeed())
		Expect(bank.Read(sel).Dump()).To(Equal("100"))
	})

	It("should keep selectors independent", func() {
		a := bits.MustParse("00")
		b := bits.MustParse("11")
		bank.Read(a)
		bank.Read(b)

		Expect(bank.Write(a, bits.MustParse("111"))).To(Succeed())
		Expect(bank.Read(b).Dump()).To(Equal("000"))
	})

	It("should refuse writes to unmaterialized selectors", func() {
		err := bank.Write(bits.MustParse("11"), bits.MustParse("111"))
		Expect(err).To(MatchError(devices.ErrNotAssociated))
	})

	It("should refuse writes of the wrong width", func() {
		sel := bits.MustParse("11")
		bank.Read(sel)

		err := bank.Write(sel, bits.MustParse("1"))
		Expect(err).To(MatchError(devices.ErrLengthMismatch))
		Expect(bank.Read(sel).Dump()).To(Equal("000"))
	})

	It("should dump and clear", func() {
		sel := bits.MustParse("01")
		bank.Read(sel)
		Expect(bank.Write(sel, bits.MustParse("101"))).To(Succeed())
		Expect(bank.Dump()).To(Equal("bhr[01]: 101\n"))

		bank.Clear()
		Expect(bank.Len()).To(Equal(0))
		Expect(bank.Dump()).To(BeEmpty())
	})
})
