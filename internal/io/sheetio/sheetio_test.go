package sheetio_test

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/gnames/aliquotdb/internal/io/sheetio"
)

var _ = Describe("Sheetio", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "sheetio")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	Describe("Read CSV", func() {
		It("removes BOM and allows ragged rows", func() {
			path := filepath.Join(dir, "RV254_aliquot.csv")
			data := "\ufeffguid,visit\nG1,V1\nG2\n"
			Expect(os.WriteFile(path, []byte(data), 0644)).To(Succeed())

			rows, err := sheetio.New().Read(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(rows).To(Equal([][]string{
				{"guid", "visit"}, {"G1", "V1"}, {"G2"},
			}))
		})

		It("fails on a missing file", func() {
			_, err := sheetio.New().Read(filepath.Join(dir, "none.csv"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Read XLSX", func() {
		It("reads the first sheet", func() {
			path := filepath.Join(dir, "RV217_aliquot.xlsx")
			f := excelize.NewFile()
			Expect(f.SetSheetRow("Sheet1", "A1", &[]any{"guid", "volume"})).To(Succeed())
			Expect(f.SetSheetRow("Sheet1", "A2", &[]any{"G1", "2"})).To(Succeed())
			Expect(f.SaveAs(path)).To(Succeed())
			Expect(f.Close()).To(Succeed())

			rows, err := sheetio.New().Read(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(rows).To(Equal([][]string{{"guid", "volume"}, {"G1", "2"}}))
		})

		It("reads date cells as ISO dates", func() {
			path := filepath.Join(dir, "RV217_aliquot.xlsx")
			day := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
			f := excelize.NewFile()
			Expect(f.SetSheetRow("Sheet1", "A1", &[]any{
				"guid", "default", "short", "custom", "volume",
			})).To(Succeed())
			Expect(f.SetSheetRow("Sheet1", "A2", &[]any{"G1", day, day, day, 2.5})).To(Succeed())

			short, err := f.NewStyle(&excelize.Style{NumFmt: 14})
			Expect(err).ToNot(HaveOccurred())
			Expect(f.SetCellStyle("Sheet1", "C2", "C2", short)).To(Succeed())
			dmy := "dd/mm/yyyy"
			custom, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dmy})
			Expect(err).ToNot(HaveOccurred())
			Expect(f.SetCellStyle("Sheet1", "D2", "D2", custom)).To(Succeed())
			Expect(f.SaveAs(path)).To(Succeed())
			Expect(f.Close()).To(Succeed())

			rows, err := sheetio.New().Read(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(rows[1]).To(Equal([]string{
				"G1", "2020-01-15", "2020-01-15", "2020-01-15", "2.5",
			}))
		})

		It("reads a named sheet", func() {
			path := filepath.Join(dir, "ids.xlsx")
			f := excelize.NewFile()
			_, err := f.NewSheet("sub_id_jvs")
			Expect(err).ToNot(HaveOccurred())
			Expect(f.SetSheetRow("sub_id_jvs", "A1", &[]any{"RV254_ID", "RV217_ID"})).To(Succeed())
			Expect(f.SetSheetRow("sub_id_jvs", "A2", &[]any{"P0001", "A1"})).To(Succeed())
			Expect(f.SaveAs(path)).To(Succeed())
			Expect(f.Close()).To(Succeed())

			rows, err := sheetio.New().ReadSheet(path, "sub_id_jvs")
			Expect(err).ToNot(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[1]).To(Equal([]string{"P0001", "A1"}))

			_, err = sheetio.New().ReadSheet(path, "missing")
			Expect(err).To(HaveOccurred())
		})
	})

	It("rejects other formats", func() {
		_, err := sheetio.New().Read(filepath.Join(dir, "a.txt"))
		Expect(errors.Is(err, sheetio.ErrFormat)).To(BeTrue())
	})
})
