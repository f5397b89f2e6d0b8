// Command admin drives the attendance dashboard's data layer from a terminal.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/store"
)

func main() {
	c := newContainer(core.NewConfig)

	var code int
	err := c.Invoke(func(conf *core.Config, logger core.Logger, s *store.Store) {
		logger.Debug(fmt.Sprintf("%s admin initializing : version %q", conf.AppName, conf.Build))

		cli := commandLine{store: s, out: os.Stdout}
		if err := cli.run(context.Background(), os.Args); err != nil {
			if err != errHelp {
				fmt.Fprintf(os.Stderr, "\nerror: %s\n", core.ErrorMessage(err))
			}
			code = 1
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		code = 1
	} else {
		_ = c.Invoke(closeTokenStore)
	}
	os.Exit(code)
}
