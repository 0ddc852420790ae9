package nodemain

import (
	"os"
	"runtime"
	"time"

	log "github.com/golang/glog"

	"github.com/robfig/cron"

	"github.com/ylide/ylide-protocol-go/pkg/utils"
)

const (
	checkRunSecs = 5
)

func checkCron(cr *cron.Cron) {
	entries := cr.Entries()
	for _, entry := range entries {
		log.Infof("Checkpoint run times: prev: %v, next: %v\n", entry.Prev, entry.Next)
	}
}

func runCheckpoint(node *AssembledNode, persisters *InitializedPersisters) {
	lastTs, err := persisters.Checkpoint.TimestampOfLastCheckpoint()
	if err != nil {
		log.Errorf("Error getting last checkpoint timestamp: %v", err)
		return
	}

	err = CheckpointState(node, persisters)
	if err != nil {
		log.Errorf("Error checkpointing state: err: %v", err)
		return
	}

	log.Infof("Done running checkpoint, last was %v: %v", lastTs, runtime.NumGoroutine())
}

// NodeCronMain contains the logic to checkpoint the node state using a cronjob
func NodeCronMain(config *utils.NodeConfig, node *AssembledNode, persisters *InitializedPersisters) {
	cr := cron.New()
	err := cr.AddFunc(config.CronConfig, func() { runCheckpoint(node, persisters) })
	if err != nil {
		log.Errorf("Error starting: err: %v", err)
		os.Exit(1)
	}
	cr.Start()

	// Blocks here while the cron process runs
	for range time.After(checkRunSecs * time.Second) {
		checkCron(cr)
	}
}
