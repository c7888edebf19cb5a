package main

import (
	"os"

	"github.com/ekisa-team/voskcore/internal/env"
	"github.com/ekisa-team/voskcore/internal/logger"
)

func main() {
	log := logger.New(env.FromEnv())

	if err := newRootCmd(log).Execute(); err != nil {
		os.Exit(1)
	}
}
