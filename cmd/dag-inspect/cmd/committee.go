package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/storage/badger/operation"
	"github.com/onflow/flow-narwhal/utils/logging"
)

func init() {
	rootCmd.AddCommand(committeeCmd)
}

type authoritySummary struct {
	NodeID string `json:"node_id"`
	Weight uint64 `json:"weight"`
}

var committeeCmd = &cobra.Command{
	Use:   "committee",
	Short: "print the committee of the epoch",
	Run: func(cmd *cobra.Command, args []string) {
		s := initStorages()
		defer s.close()

		var committee flow.EpochCommittee
		err := s.db.View(operation.RetrieveCommittee(s.epoch, &committee))
		if err != nil {
			log.Fatal().Err(err).Uint64("epoch", s.epoch).Msg("could not read committee")
		}

		authorities := make([]authoritySummary, 0, len(committee.Authorities))
		for _, authority := range committee.Authorities {
			authorities = append(authorities, authoritySummary{NodeID: authority.NodeID.String(), Weight: authority.Weight})
		}
		log.Info().
			Uint64("epoch", committee.Epoch).
			Hex("committee_id", logging.ID(committee.ID())).
			Uint64("total_weight", committee.Authorities.TotalWeight()).
			Msg("read committee")
		prettyPrint(authorities)
	},
}
