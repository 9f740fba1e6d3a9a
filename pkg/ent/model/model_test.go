package model_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gnames/aliquotdb/pkg/ent/model"
	"gopkg.in/guregu/null.v3"
)

var _ = Describe("Model", func() {
	Describe("Kind", func() {
		It("matches values to columns", func() {
			recs := map[model.Kind]model.Record{
				model.StudyKind:             model.Study{},
				model.ParticipantKind:       model.Participant{},
				model.VisitKind:             model.Visit{},
				model.SpecimenKind:          model.Specimen{},
				model.AliquotKind:           model.Aliquot{},
				model.AltIDKind:             model.AltID{},
				model.GeneralClassifierKind: model.GeneralClassifier{},
			}
			for k, r := range recs {
				Expect(r.Values()).To(HaveLen(len(k.Columns())), k.String())
				for _, c := range k.ConflictKey() {
					Expect(k.Columns()).To(ContainElement(c))
				}
			}
		})

		It("has names", func() {
			Expect(model.AltIDKind.String()).To(Equal("alt_id"))
			Expect(model.UnknownKind.String()).To(Equal("unknown"))
			Expect(model.Aliquot{}.TableName()).To(Equal("aliquot"))
		})
	})

	Describe("Batch", func() {
		studies := []model.Study{
			{Study: "RV254", IsOpen: true},
			{Study: "RV217", IsOpen: true, ParentStudy: null.StringFrom("RV254")},
			{Study: "RV304", IsOpen: true, ParentStudy: null.StringFrom("RV254")},
		}

		It("converts records", func() {
			b := model.NewBatch(model.StudyKind, studies)
			Expect(b.Len()).To(Equal(3))
			Expect(b.Rows[1][0]).To(Equal("RV217"))
		})

		It("splits into chunks", func() {
			b := model.NewBatch(model.StudyKind, studies)
			cs := b.Chunks(2)
			Expect(cs).To(HaveLen(2))
			Expect(cs[0].Len()).To(Equal(2))
			Expect(cs[1].Rows[0][0]).To(Equal("RV304"))
			Expect(cs[1].Kind).To(Equal(model.StudyKind))
			Expect(b.Chunks(0)).To(HaveLen(1))
			Expect(b.Chunks(10)).To(HaveLen(1))
		})
	})
})
