package main

import (
	"github.com/prisms-center/gopbs/commands"
	"github.com/prisms-center/gopbs/log"
)

func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
	log.Debug("Exiting main...")
}
