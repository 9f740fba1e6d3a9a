package classifier_test

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/gnames/aliquotdb/internal/ent/classifier"
	"github.com/gnames/aliquotdb/internal/ent/ingerr"
)

var _ = Describe("Classifier", func() {
	DescribeTable("Ternary",
		func(s string, valid, val, ok bool) {
			res, good := classifier.Ternary(s)
			Expect(good).To(Equal(ok))
			Expect(res.Valid).To(Equal(valid))
			if valid {
				Expect(res.Bool).To(Equal(val))
			}
		},
		Entry("yes", "Y", true, true, true),
		Entry("no", " n ", true, false, true),
		Entry("empty", "", false, false, true),
		Entry("nan", "NaN", false, false, true),
		Entry("unknown", "maybe", false, false, false),
	)

	It("maps rows to records", func() {
		recs := [][]string{
			{"Study", "participant_id", "gender", "is_thai", "risk"},
			{"RV217", "P0001", "F", "Y", ""},
			{"RV217", "P0001", "M", "N", "MSM"},
			{"RV217", "P0002", "", "?", "MSM"},
			{"", "P0003", "F", "Y", ""},
		}
		res, warns, err := classifier.Map("gc.csv", recs)
		Expect(err).ToNot(HaveOccurred())
		Expect(res).To(HaveLen(2))
		Expect(res[0].Gender.String).To(Equal("F"))
		Expect(res[0].IsThai.Bool).To(BeTrue())
		Expect(res[0].Risk.Valid).To(BeFalse())
		Expect(res[0].HIVSubtype.Valid).To(BeFalse())
		Expect(res[1].Gender.Valid).To(BeFalse())
		Expect(res[1].IsThai.Valid).To(BeFalse())
		Expect(warns).To(HaveLen(1))
		Expect(warns[0].Line).To(Equal(4))
		Expect(warns[0].Raw).To(Equal("?"))
	})

	It("requires study and participant columns", func() {
		_, _, err := classifier.Map("gc.csv", [][]string{{"study", "gender"}})
		var sme *ingerr.SchemaMismatchError
		Expect(errors.As(err, &sme)).To(BeTrue())
		Expect(sme.Missing).To(Equal([]string{"participant_id"}))
	})
})
