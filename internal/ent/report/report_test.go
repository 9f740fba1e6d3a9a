package report_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gnames/aliquotdb/internal/ent/ingerr"
	"github.com/gnames/aliquotdb/internal/ent/report"
	"github.com/gnames/aliquotdb/pkg/ent/model"
)

var _ = Describe("Report", func() {
	It("counts skipped records", func() {
		r := report.New("ingest")
		r.Add(model.StudyKind, 3, 1)
		r.Add(model.AliquotKind, 1500, 1500)
		r.SetTotal(model.AliquotKind, 2000)

		c := r.Count(model.StudyKind)
		Expect(c.ConflictSkipped).To(Equal(int64(2)))
		Expect(r.Count(model.AliquotKind).Total).To(Equal(int64(2000)))
		Expect(r.Count(model.VisitKind).Records).To(Equal(0))
		Expect(r.Counts).To(HaveLen(2))
	})

	It("renders text", func() {
		r := report.New("ingest")
		r.Add(model.AliquotKind, 1500, 1200)
		r.AddWarnings(model.SpecimenKind, ingerr.NormalizationWarning{
			File: "a.csv", Line: 2, Field: "volume", Raw: "x", Value: "x",
		})
		bs, err := r.Encode(report.Text)
		Expect(err).ToNot(HaveOccurred())
		txt := string(bs)
		Expect(txt).ToNot(ContainSubstring("DRY RUN"))
		Expect(txt).To(ContainSubstring("1,500"))
		Expect(txt).To(ContainSubstring("1,200"))
		Expect(txt).To(ContainSubstring("warned"))
		Expect(txt).To(ContainSubstring("a.csv:2 volume"))
	})

	It("does not count conflicts on a dry run", func() {
		r := report.New("ingest")
		r.DryRun = true
		r.AddPrepared(model.AliquotKind, 1500)
		c := r.Count(model.AliquotKind)
		Expect(c.Records).To(Equal(1500))
		Expect(c.Inserted).To(Equal(int64(0)))
		Expect(c.ConflictSkipped).To(Equal(int64(0)))

		bs, err := r.Encode(report.Text)
		Expect(err).ToNot(HaveOccurred())
		txt := string(bs)
		Expect(txt).To(ContainSubstring("DRY RUN"))
		Expect(txt).To(MatchRegexp(`aliquot\s+1,500\s+-\s+-\s+-\s+0`))
	})

	It("counts warnings per table in the order of tables", func() {
		r := report.New("ingest")
		w := ingerr.NormalizationWarning{File: "a.csv", Line: 2, Field: "visit"}
		r.AddWarnings(model.AliquotKind, w, w)
		r.AddWarnings(model.VisitKind, w)
		r.AddWarnings(model.StudyKind)
		r.Add(model.StudyKind, 1, 1)

		Expect(r.Warnings).To(HaveLen(3))
		Expect(r.Count(model.AliquotKind).Warned).To(Equal(2))
		Expect(r.Count(model.VisitKind).Warned).To(Equal(1))
		tables := make([]string, len(r.Counts))
		for i, c := range r.Counts {
			tables[i] = c.Table
		}
		Expect(tables).To(Equal([]string{"study", "visit", "aliquot"}))
	})

	It("renders JSON", func() {
		r := report.New("altids")
		r.Add(model.AltIDKind, 2, 2)
		bs, err := r.Encode(report.JSON)
		Expect(err).ToNot(HaveOccurred())
		var res report.Report
		Expect(json.Unmarshal(bs, &res)).To(Succeed())
		Expect(res.Command).To(Equal("altids"))
		Expect(res.Counts).To(Equal([]report.Count{
			{Table: "alt_id", Records: 2, Inserted: 2},
		}))
	})

	It("parses formats", func() {
		f, err := report.NewFormat("JSON")
		Expect(err).ToNot(HaveOccurred())
		Expect(f).To(Equal(report.JSON))
		_, err = report.NewFormat("xml")
		Expect(err).To(HaveOccurred())
	})

	It("makes fingerprints independent of order and duplicates", func() {
		a := report.Fingerprint([]string{"G2", "G1", "G1"})
		b := report.Fingerprint([]string{"G1", "G2"})
		Expect(a).To(Equal(b))
		Expect(a).To(HaveLen(36))
		Expect(report.Fingerprint([]string{"G1"})).ToNot(Equal(a))
	})
})
