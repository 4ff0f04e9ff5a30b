package cmd

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/storage"
)

var flagFromIndex uint64

func init() {
	rootCmd.AddCommand(commitsCmd)
	addCommitFlags(commitsCmd.Flags())
}

func addCommitFlags(flags *pflag.FlagSet) {
	flags.Uint64VarP(&flagFromIndex, "from", "f", 0, "index of the first committed sub-dag to print")
}

type subDagSummary struct {
	Index          uint64   `json:"index"`
	LeaderRound    uint64   `json:"leader_round"`
	LeaderID       string   `json:"leader_id"`
	Certificates   []string `json:"certificates"`
	SkippedLeaders []uint64 `json:"skipped_leader_rounds,omitempty"`
}

func summarizeSubDag(subDag *model.CommittedSubDag) subDagSummary {
	return subDagSummary{
		Index:          subDag.Index,
		LeaderRound:    subDag.LeaderRound,
		LeaderID:       subDag.LeaderID().String(),
		Certificates:   subDag.CertificateIDs().Strings(),
		SkippedLeaders: subDag.SkippedLeaderRounds,
	}
}

var commitsCmd = &cobra.Command{
	Use:   "commits",
	Short: "print the commit state and the committed sub-dags of the epoch",
	Run: func(cmd *cobra.Command, args []string) {
		s := initStorages()
		defer s.close()

		state, err := s.commits.State()
		if errors.Is(err, storage.ErrNotFound) {
			log.Info().Uint64("epoch", s.epoch).Msg("nothing committed in epoch")
			return
		}
		if err != nil {
			log.Fatal().Err(err).Msg("could not read commit state")
		}
		prettyPrint(state)

		subDags, err := s.commits.Since(flagFromIndex)
		if err != nil {
			log.Fatal().Err(err).Uint64("from", flagFromIndex).Msg("could not read commit log")
		}
		summaries := make([]subDagSummary, 0, len(subDags))
		for _, subDag := range subDags {
			summaries = append(summaries, summarizeSubDag(subDag))
		}
		prettyPrint(summaries)
	},
}
