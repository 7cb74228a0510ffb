package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"

	"signaldesk/internal/delivery/cli"
)

func main() {
	defer glog.Flush()

	if err := cli.Execute(); err != nil {
		if !cli.Reported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		glog.Flush()
		os.Exit(1)
	}
}
