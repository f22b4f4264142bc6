// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0
//

package main

import (
	"os"

	"github.com/nemo-testbed/slice-manager/backend/logger"
	"github.com/nemo-testbed/slice-manager/backend/slicemgr_service"
	"github.com/urfave/cli"
)

var SLICEMGR = &slicemgr_service.SLICEMGR{}

func main() {
	app := cli.NewApp()
	app.Name = "slice-manager"
	logger.AppLog.Infoln(app.Name)
	app.Usage = "-cfg slice manager configuration file"
	app.Action = action
	app.Flags = SLICEMGR.GetCliCmd()
	if err := app.Run(os.Args); err != nil {
		logger.AppLog.Fatalf("error args: %v", err)
	}
}

func action(c *cli.Context) {
	if err := SLICEMGR.Initialize(c); err != nil {
		logger.AppLog.Fatalf("initialization failed: %v", err)
	}
	SLICEMGR.Start()
}
