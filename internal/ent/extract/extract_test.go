package extract_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gnames/aliquotdb/internal/ent/extract"
	"github.com/gnames/aliquotdb/internal/ent/sheet"
	"github.com/gnames/aliquotdb/pkg/ent/model"
)

func row(study, id, visit, date, kind, vol, guid string) sheet.Row {
	return sheet.Row{
		Study: study, ParticipantID: id, Visit: visit, VisitWeek: visit,
		DrawDate: date, AliquotType: kind, Volume: vol, Unit: "mL", GUID: guid,
	}
}

var rows = []sheet.Row{
	row("RV217", "P0001", "01", "2020-01-01", "Plasma", "1.0", "G1"),
	row("RV217", "P0001", "02", "2020-01-01", "Plasma", "1.0", "G2"),
	row("RV254", "P0001", "01", "2020-01-01", "Plasma", "1.0", "G3"),
	row("RV254", "P0002", "01", "2020-02-01", "PBMC", "2.0", "G4"),
	row("RV254", "P0002", "01", "2020-02-01", "PBMC", "2.0", "G4"),
}

var _ = Describe("Extract", func() {
	It("extracts studies with the root parent", func() {
		res := extract.Studies(rows, "RV254")
		Expect(res).To(HaveLen(2))
		Expect(res[0].Study).To(Equal("RV217"))
		Expect(res[0].ParentStudy.String).To(Equal("RV254"))
		Expect(res[0].IsOpen).To(BeTrue())
		Expect(res[1].Study).To(Equal("RV254"))
		Expect(res[1].ParentStudy.Valid).To(BeFalse())
	})

	It("extracts participants per study", func() {
		res := extract.Participants(rows)
		Expect(res).To(Equal([]model.Participant{
			{Study: "RV217", ParticipantID: "P0001"},
			{Study: "RV254", ParticipantID: "P0001"},
			{Study: "RV254", ParticipantID: "P0002"},
		}))
	})

	It("extracts visits", func() {
		res := extract.Visits(rows)
		Expect(res).To(HaveLen(4))
		Expect(res[1].Visit).To(Equal("02"))
		Expect(res[1].VisitWeek).To(Equal("02"))
	})

	It("collapses specimens of different visits", func() {
		res := extract.Specimens(rows)
		Expect(res).To(HaveLen(3))
		Expect(res[0].Visit).To(Equal("01"))
	})

	It("extracts aliquots by GUID", func() {
		res := extract.Aliquots(rows)
		Expect(res).To(HaveLen(4))
		Expect(res[3].GUID).To(Equal("G4"))
		Expect(res[3].Volume).To(Equal("2.0"))
	})

	It("returns batches in the insert order", func() {
		bs := extract.Batches(rows, "RV254")
		kinds := make([]model.Kind, len(bs))
		for i := range bs {
			kinds[i] = bs[i].Kind
		}
		Expect(kinds).To(Equal(model.InventoryKinds))
		Expect(bs[4].Len()).To(Equal(4))
	})

	It("handles empty input", func() {
		Expect(extract.Aliquots(nil)).To(BeEmpty())
		Expect(extract.Batches(nil, "RV254")[0].Len()).To(Equal(0))
	})
})
