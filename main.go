package main

import (
	"github.com/mkopnsrc/plex-qbt-speed-limiter/cmd"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.SetVersion(version, buildTime)
	cmd.Execute()
}
