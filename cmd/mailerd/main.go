package main

import (
	"flag"
	"os"

	log "github.com/golang/glog"

	"github.com/ylide/ylide-protocol-go/pkg/nodemain"
	"github.com/ylide/ylide-protocol-go/pkg/utils"
)

func main() {
	config := &utils.NodeConfig{}
	flag.Usage = func() {
		config.OutputUsage()
		os.Exit(0)
	}
	flag.Parse()

	err := config.PopulateFromEnv()
	if err != nil {
		config.OutputUsage()
		log.Errorf("Invalid mailer config: err: %v\n", err)
		os.Exit(2)
	}

	persisters, err := nodemain.InitPersisters(config)
	if err != nil {
		log.Errorf("Error initializing persisters: err: %v", err)
		os.Exit(2)
	}

	sink := nodemain.NewPersistingSink(persisters.MailEvent)
	node, err := nodemain.AssembleNode(config, sink)
	if err != nil {
		log.Errorf("Error assembling node: err: %v", err)
		os.Exit(2)
	}

	err = nodemain.RestoreState(node, persisters)
	if err != nil {
		log.Errorf("Error restoring state: err: %v", err)
		os.Exit(2)
	}

	nodemain.NodeCronMain(config, node, persisters)
}
