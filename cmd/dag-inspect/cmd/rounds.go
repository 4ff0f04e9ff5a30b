package cmd

import (
	"math"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/onflow/flow-narwhal/utils/logging"
)

var (
	flagFromRound uint64
	flagToRound   uint64
)

func init() {
	rootCmd.AddCommand(roundsCmd)

	roundsCmd.Flags().Uint64Var(&flagFromRound, "from-round", 0, "lowest round to print")
	roundsCmd.Flags().Uint64Var(&flagToRound, "to-round", math.MaxUint64, "highest round to print")
}

type roundSummary struct {
	Round     uint64   `json:"round"`
	Authors   []string `json:"authors"`
	Committed int      `json:"committed"`
}

var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "print the stored certificates of the epoch per round",
	Run: func(cmd *cobra.Command, args []string) {
		if flagFromRound > flagToRound {
			log.Fatal().Uint64("from", flagFromRound).Uint64("to", flagToRound).Msg("invalid round range")
		}
		s := initStorages()
		defer s.close()

		certs, err := s.certificates.ByRoundRange(s.epoch, flagFromRound, flagToRound)
		if err != nil {
			log.Fatal().Err(err).Msg("could not read certificates")
		}

		var summaries []*roundSummary
		for _, cert := range certs {
			if len(summaries) == 0 || summaries[len(summaries)-1].Round != cert.Round() {
				summaries = append(summaries, &roundSummary{Round: cert.Round()})
			}
			summary := summaries[len(summaries)-1]
			summary.Authors = append(summary.Authors, cert.AuthorID().String())

			committed, err := s.commits.IsCommitted(cert.ID())
			if err != nil {
				log.Fatal().Err(err).Hex("certificate_id", logging.ID(cert.ID())).Msg("could not read commit index")
			}
			if committed {
				summary.Committed++
			}
		}

		log.Info().
			Uint64("epoch", s.epoch).
			Int("certificates", len(certs)).
			Int("rounds", len(summaries)).
			Msg("read stored certificates")
		prettyPrint(summaries)
	},
}
