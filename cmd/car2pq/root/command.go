package root

import (
	"flag"

	"github.com/brimdata/car2pq/cli"
	"github.com/brimdata/car2pq/pkg/charm"
)

var Car2pq = &charm.Spec{
	Name:  "car2pq",
	Usage: "car2pq <command> [options] [arguments...]",
	Short: "convert CAR archives to parquet",
	Long: `
car2pq converts a CAR archive of DAG-CBOR blocks into parquet files,
one file for each distinct record shape found in the archive.

Every file has a cid column holding each block's content identifier and
the columns of the block's data under the data prefix.  Files are named
schema_0.parquet, schema_1.parquet, and so on, from the most to the
least populous shape.`,
	New: New,
}

type Command struct {
	charm.Command
	cli.Flags
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{}
	c.SetFlags(f)
	return c, nil
}

func (c *Command) Run(args []string) error {
	_, cancel, err := c.Init()
	if err != nil {
		return err
	}
	defer cancel()
	if len(args) == 0 {
		return charm.NeedHelp
	}
	return charm.ErrNoRun
}
