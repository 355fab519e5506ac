package main

import (
	"fmt"
	"os"

	"github.com/brimdata/car2pq/cmd/car2pq/convert"
	"github.com/brimdata/car2pq/cmd/car2pq/inspect"
	"github.com/brimdata/car2pq/cmd/car2pq/root"
	"github.com/brimdata/car2pq/cmd/car2pq/selection"
	"github.com/brimdata/car2pq/pkg/charm"
)

func main() {
	car2pq := root.Car2pq
	car2pq.Add(convert.Cmd)
	car2pq.Add(selection.Cmd)
	car2pq.Add(inspect.Cmd)
	car2pq.Add(charm.Help)
	if err := car2pq.ExecRoot(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
