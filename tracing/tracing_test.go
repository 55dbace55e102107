package tracing_test

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"errors"
	"log"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/bits"
	"github.com/sarchlab/bpsim/predictors"
	"github.com/sarchlab/bpsim/tracing"
)

type memWriter struct {
	records []tracing.Record
	failAt  int
}

func (w *memWriter) Init() error  { return nil }
func (w *memWriter) Flush() error { return nil }
func (w *memWriter) Close() error { return nil }

func (w *memWriter) Write(r tracing.Record) error {
	if w.failAt > 0 && len(w.records)+1 == w.failAt {
		return errors.New("disk full")
	}
	w.records = append(w.records, r)
	return nil
}

func run(p *predictors.Predictor, address string, outcomes ...predictors.Result) {
	for _, o := range outcomes {
		_, err := p.PredictAndUpdate(predictors.Branch(bits.MustParse(address)), o)
		Expect(err).NotTo(HaveOccurred())
	}
}

var _ = Describe("LogHook", func() {
	It("should log predictions, updates, and clears", func() {
		buf := new(bytes.Buffer)
		hook := tracing.NewLogHook(log.New(buf, "", 0))
		p := predictors.NewGAg(2, 2, predictors.WithHook(hook))

		run(p, "01", predictors.Taken)
		p.Clear()

		Expect(buf.String()).To(Equal(
			"GAg predict pc=01 key=00 sc=00 -> NOT_TAKEN\n" +
				"GAg update pc=01 key=00 actual=TAKEN predicted=NOT_TAKEN sc=01\n" +
				"GAg clear\n"))
	})
})

var _ = Describe("Recorder", func() {
	var (
		w        *memWriter
		recorder *tracing.Recorder
		p        *predictors.Predictor
	)

	BeforeEach(func() {
		w = &memWriter{}
		recorder = tracing.NewRecorder(w)
		p = predictors.NewGAp(2, 2, 1, predictors.WithHook(recorder))
	})

	It("should record each operation in order under one run ID", func() {
		run(p, "10", predictors.Taken, predictors.NotTaken)

		Expect(w.records).To(HaveLen(4))
		Expect(recorder.RunID()).NotTo(BeEmpty())

		for i, r := range w.records {
			Expect(r.RunID).To(Equal(recorder.RunID()))
			Expect(r.Seq).To(Equal(uint64(i)))
			Expect(r.Predictor).To(Equal("GAp"))
		}

		Expect(w.records[0].Op).To(Equal("predict"))
		Expect(w.records[0].Key).To(Equal("100"))
		Expect(w.records[0].Actual).To(BeEmpty())

		Expect(w.records[1].Op).To(Equal("update"))
		Expect(w.records[1].Actual).To(Equal("TAKEN"))
		Expect(w.records[1].Counter).To(Equal("01"))
		Expect(w.records[1].Correct).To(BeFalse())

		Expect(w.records[3].Key).To(Equal("110"))
		Expect(w.records[3].Correct).To(BeTrue())
	})

	It("should ignore clear events", func() {
		p.Clear()
		Expect(w.records).To(BeEmpty())
	})

	It("should stop recording after a write error", func() {
		w.failAt = 2
		run(p, "10", predictors.Taken, predictors.Taken)

		Expect(recorder.Err()).To(MatchError("disk full"))
		Expect(w.records).To(HaveLen(1))
	})
})

var _ = Describe("CSVWriter", func() {
	It("should write a header and one row per record", func() {
		path := filepath.Join(GinkgoT().TempDir(), "trace")
		w := tracing.NewCSVWriter(path)
		Expect(w.Init()).To(Succeed())

		recorder := tracing.NewRecorder(w)
		p := predictors.NewGAg(1, 2, predictors.WithHook(recorder))
		run(p, "0", predictors.Taken)

		Expect(w.Close()).To(Succeed())
		Expect(w.Close()).To(Succeed())

		f, err := os.Open(path + ".csv")
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		rows, err := csv.NewReader(f).ReadAll()
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[0][0]).To(Equal("run_id"))
		Expect(rows[1][3]).To(Equal("predict"))
		Expect(rows[2][3]).To(Equal("update"))
		Expect(rows[2][8]).To(Equal("TAKEN"))
	})

	It("should refuse to overwrite an existing file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "trace")
		Expect(os.WriteFile(path+".csv", nil, 0644)).To(Succeed())

		Expect(tracing.NewCSVWriter(path).Init()).To(MatchError(ContainSubstring("already exists")))
	})
})

var _ = Describe("SQLiteWriter", func() {
	It("should store every record in the trace table", func() {
		path := filepath.Join(GinkgoT().TempDir(), "trace")
		w := tracing.NewSQLiteWriter(path)
		Expect(w.Init()).To(Succeed())

		recorder := tracing.NewRecorder(w)
		p := predictors.NewSAs(2, 2, 4, 2, predictors.WithHook(recorder))
		run(p, "1010", predictors.Taken, predictors.Taken, predictors.NotTaken)

		Expect(recorder.Flush()).To(Succeed())
		Expect(w.Close()).To(Succeed())

		db, err := sql.Open("sqlite3", w.Path())
		Expect(err).NotTo(HaveOccurred())
		defer db.Close()

		var count int
		Expect(db.QueryRow("SELECT COUNT(*) FROM trace").Scan(&count)).To(Succeed())
		Expect(count).To(Equal(6))

		var updates int
		Expect(db.QueryRow(
			"SELECT COUNT(*) FROM trace WHERE op = 'update' AND run_id = ?",
			recorder.RunID(),
		).Scan(&updates)).To(Succeed())
		Expect(updates).To(Equal(3))
	})

	It("should release the database when the table cannot be created", func() {
		path := filepath.Join(GinkgoT().TempDir(), "missing", "trace")
		w := tracing.NewSQLiteWriter(path)

		Expect(w.Init()).NotTo(Succeed())
		Expect(w.DB).To(BeNil())
		Expect(w.Close()).To(Succeed())
	})
})
