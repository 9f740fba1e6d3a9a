package config_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gnames/aliquotdb/pkg/config"
)

var _ = Describe("Config", func() {
	Describe("New", func() {
		It("generates new instance with defaults", func() {
			cfg := config.New()
			Expect(cfg.JobsNum).To(Equal(4))
			Expect(cfg.RootStudy).To(Equal("RV254"))
			Expect(cfg.IDMarkers).To(Equal("PTS"))
			Expect(cfg.Sink).To(Equal(config.PostgresSink))
			Expect(cfg.SkipBadFiles).To(BeFalse())
			Expect(cfg.SQLitePath).To(HaveSuffix("aliquotdb.sqlite"))
		})

		It("uses options for setup", func() {
			cfg := config.New(getOpts()...)
			Expect(cfg.JobsNum).To(Equal(8))
			Expect(cfg.InputDir).To(Equal("/tmp/aliquots"))
			Expect(cfg.Sink).To(Equal(config.SQLiteSink))
			Expect(cfg.SkipBadFiles).To(BeTrue())
			Expect(cfg.PgPort).To(Equal(5433))
			Expect(cfg.RootStudy).To(Equal("RV217"))
		})

		It("ignores unknown sinks", func() {
			cfg := config.New(config.OptSink("oracle"))
			Expect(cfg.Sink).To(Equal(config.PostgresSink))
		})

		It("keeps positive jobs and batch numbers", func() {
			cfg := config.New(config.OptJobsNum(0), config.OptBatchSize(-1))
			Expect(cfg.JobsNum).To(Equal(1))
			Expect(cfg.BatchSize).To(Equal(1))
		})
	})
})

func getOpts() []config.Option {
	var opts []config.Option
	opts = append(opts, config.OptInputDir("/tmp/aliquots"))
	opts = append(opts, config.OptJobsNum(8))
	opts = append(opts, config.OptSink("sqlite"))
	opts = append(opts, config.OptSkipBadFiles(true))
	opts = append(opts, config.OptRootStudy("RV217"))
	opts = append(opts, config.OptPgHost("localhost"))
	opts = append(opts, config.OptPgPort(5433))
	opts = append(opts, config.OptPgUser("postgres"))
	opts = append(opts, config.OptPgPass(""))
	opts = append(opts, config.OptPgDB("aliquots"))
	return opts
}
