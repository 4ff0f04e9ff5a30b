package cmd

import (
	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/onflow/flow-narwhal/module/metrics"
	bstorage "github.com/onflow/flow-narwhal/storage/badger"
)

type storages struct {
	db           *badger.DB
	epoch        uint64
	certificates *bstorage.Certificates
	commits      *bstorage.Commits
}

// initStorages opens the database read-only. It exits the process if the
// database cannot be opened.
func initStorages() *storages {
	datadir := viper.GetString(flagDatadir)
	if datadir == "" {
		log.Fatal().Msgf("missing flag --%s", flagDatadir)
	}
	epoch := viper.GetUint64(flagEpoch)

	opts := badger.
		DefaultOptions(datadir).
		WithReadOnly(true).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal().Err(err).Str("datadir", datadir).Msg("could not open database")
	}

	collector := metrics.NewNoopCollector()
	certificates := bstorage.NewCertificates(collector, collector, db)
	return &storages{
		db:           db,
		epoch:        epoch,
		certificates: certificates,
		commits:      bstorage.NewCommits(collector, collector, db, certificates, epoch),
	}
}

func (s *storages) close() {
	err := s.db.Close()
	if err != nil {
		log.Error().Err(err).Msg("could not close database")
	}
}
