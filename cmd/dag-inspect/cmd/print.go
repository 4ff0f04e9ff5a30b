package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// prettyPrint writes the value as indented JSON to stdout.
func prettyPrint(value interface{}) {
	bytes, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("could not encode output")
	}
	fmt.Println(string(bytes))
}
