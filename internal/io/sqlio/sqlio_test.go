package sqlio_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"gopkg.in/guregu/null.v3"

	"github.com/gnames/aliquotdb/internal/ent/sink"
	"github.com/gnames/aliquotdb/internal/io/sqlio"
	"github.com/gnames/aliquotdb/pkg/config"
	"github.com/gnames/aliquotdb/pkg/ent/model"
)

var studies = []model.Study{
	{Study: "RV254", IsOpen: true},
	{Study: "RV217", IsOpen: true, ParentStudy: null.StringFrom("RV254")},
	{Study: "RV304", IsOpen: true, ParentStudy: null.StringFrom("RV254")},
}

func upsert(ctx context.Context, snk sink.Sink, bs ...model.Batch) ([]int64, error) {
	res := make([]int64, len(bs))
	err := snk.InTx(ctx, func(up sink.Upserter) error {
		for i, b := range bs {
			n, err := up.Upsert(ctx, b)
			if err != nil {
				return err
			}
			res[i] = n
		}
		return nil
	})
	return res, err
}

var _ = Describe("Sqlio", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("SQLite", func() {
		var dir string
		var snk sink.Sink

		BeforeEach(func() {
			var err error
			dir, err = os.MkdirTemp("", "sqlio")
			Expect(err).ToNot(HaveOccurred())
			cfg := config.New(
				config.OptSink("sqlite"),
				config.OptSQLitePath(filepath.Join(dir, "db", "test.sqlite")),
				config.OptBatchSize(2),
			)
			snk, err = sqlio.New(ctx, cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(snk.Migrate(ctx)).To(Succeed())
		})

		AfterEach(func() {
			Expect(snk.Close()).To(Succeed())
			Expect(os.RemoveAll(dir)).To(Succeed())
		})

		It("migrates twice", func() {
			Expect(snk.Migrate(ctx)).To(Succeed())
		})

		It("skips existing records", func() {
			b := model.NewBatch(model.StudyKind, studies)
			ns, err := upsert(ctx, snk, b)
			Expect(err).ToNot(HaveOccurred())
			Expect(ns).To(Equal([]int64{3}))

			ns, err = upsert(ctx, snk, b)
			Expect(err).ToNot(HaveOccurred())
			Expect(ns).To(Equal([]int64{0}))

			cnt, err := snk.Count(ctx, model.StudyKind)
			Expect(err).ToNot(HaveOccurred())
			Expect(cnt).To(Equal(int64(3)))
		})

		It("enforces foreign keys and rolls back", func() {
			_, err := upsert(ctx, snk,
				model.NewBatch(model.StudyKind, studies),
				model.NewBatch(model.ParticipantKind, []model.Participant{
					{Study: "NOPE", ParticipantID: "P0001"},
				}),
			)
			Expect(err).To(HaveOccurred())

			cnt, err := snk.Count(ctx, model.StudyKind)
			Expect(err).ToNot(HaveOccurred())
			Expect(cnt).To(Equal(int64(0)))
		})
	})

	Describe("transactions", func() {
		var mock sqlmock.Sqlmock
		var snk sink.Sink

		BeforeEach(func() {
			db, m, err := sqlmock.New()
			Expect(err).ToNot(HaveOccurred())
			mock = m
			snk, err = sqlio.NewWithDB(sqlx.NewDb(db, "sqlite"), config.New(config.OptSink("sqlite")))
			Expect(err).ToNot(HaveOccurred())
		})

		AfterEach(func() {
			Expect(mock.ExpectationsWereMet()).To(Succeed())
		})

		It("commits inserted rows", func() {
			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(
				"INSERT INTO participant (study, participant_id) VALUES (?, ?) " +
					"ON CONFLICT (study, participant_id) DO NOTHING",
			)).WithArgs("RV254", "P0001").WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			ns, err := upsert(ctx, snk, model.NewBatch(model.ParticipantKind, []model.Participant{
				{Study: "RV254", ParticipantID: "P0001"},
			}))
			Expect(err).ToNot(HaveOccurred())
			Expect(ns).To(Equal([]int64{1}))
		})

		It("rolls back on error", func() {
			mock.ExpectBegin()
			mock.ExpectExec("INSERT INTO study").WillReturnError(errors.New("disk is full"))
			mock.ExpectRollback()

			_, err := upsert(ctx, snk, model.NewBatch(model.StudyKind, studies))
			Expect(err).To(MatchError(ContainSubstring("disk is full")))
		})

		It("rolls back on panic", func() {
			mock.ExpectBegin()
			mock.ExpectRollback()

			Expect(func() {
				_ = snk.InTx(ctx, func(sink.Upserter) error {
					panic("boom")
				})
			}).To(Panic())
		})

		It("does not touch the store for empty batches", func() {
			mock.ExpectBegin()
			mock.ExpectCommit()

			ns, err := upsert(ctx, snk, model.NewBatch(model.AliquotKind, []model.Aliquot{}))
			Expect(err).ToNot(HaveOccurred())
			Expect(ns).To(Equal([]int64{0}))
		})
	})

	It("rejects unsupported sinks", func() {
		_, err := sqlio.New(ctx, config.New(config.OptSink("postgres")))
		Expect(err).To(HaveOccurred())
	})
})
