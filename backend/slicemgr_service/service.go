// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0
//

package slicemgr_service

import (
	"context"
	"path/filepath"

	"github.com/gin-contrib/cors"
	utilLogger "github.com/omec-project/util/logger"
	"github.com/nemo-testbed/slice-manager/backend/factory"
	"github.com/nemo-testbed/slice-manager/backend/logger"
	"github.com/nemo-testbed/slice-manager/backend/metrics"
	"github.com/nemo-testbed/slice-manager/configapi"
	"github.com/nemo-testbed/slice-manager/dbadapter"
	"github.com/nemo-testbed/slice-manager/engine"
	"github.com/nemo-testbed/slice-manager/ran"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type SLICEMGR struct{}

type (
	// Config information.
	Config struct {
		cfg string
	}
)

var config Config

var sliceMgrCLi = []cli.Flag{
	cli.StringFlag{
		Name:     "cfg",
		Usage:    "slice manager config file",
		Required: true,
	},
}

func (*SLICEMGR) GetCliCmd() (flags []cli.Flag) {
	return sliceMgrCLi
}

func (s *SLICEMGR) Initialize(c *cli.Context) error {
	config = Config{
		cfg: c.String("cfg"),
	}

	absPath, err := filepath.Abs(config.cfg)
	if err != nil {
		logger.ConfigLog.Errorln(err)
		return err
	}

	if err := factory.InitConfigFactory(absPath); err != nil {
		logger.ConfigLog.Errorln(err)
		return err
	}

	s.setLogLevel()
	return nil
}

func (s *SLICEMGR) setLogLevel() {
	if factory.SliceMgrConfig.Logger == nil || factory.SliceMgrConfig.Logger.SliceMgr == nil {
		logger.InitLog.Warnln("config without log level setting, default set to [info] level")
		logger.SetLogLevel(zap.InfoLevel)
		return
	}
	debugLevel := factory.SliceMgrConfig.Logger.SliceMgr.DebugLevel
	if debugLevel == "" {
		logger.InitLog.Warnln("log level not set, default set to [info] level")
		logger.SetLogLevel(zap.InfoLevel)
		return
	}
	level, err := zapcore.ParseLevel(debugLevel)
	if err != nil {
		logger.InitLog.Warnf("log level [%s] is invalid, set to [info] level", debugLevel)
		logger.SetLogLevel(zap.InfoLevel)
		return
	}
	logger.InitLog.Infof("log level is set to [%s] level", level)
	logger.SetLogLevel(level)
}

func (s *SLICEMGR) Start() {
	cfg := factory.SliceMgrConfig.Configuration

	dbadapter.InitDB()
	configapi.SetRanCapabilities(ran.NewCapabilities(cfg.Ran))

	if err := configapi.ProvisionSeed(cfg.Seed); err != nil {
		logger.InitLog.Fatalf("seed provisioning failed: %v", err)
	}

	logger.InitLog.Infoln("slice manager server started")

	router := utilLogger.NewGinWithZap(logger.GinLog)
	configapi.AddApiService(router)

	router.Use(cors.New(cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS", "PUT", "PATCH", "DELETE"},
		AllowHeaders: []string{
			"Origin", "Content-Length", "Content-Type", "User-Agent",
			"Referrer", "Host", "Token", "X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowAllOrigins:  true,
		MaxAge:           86400,
	}))

	if cfg.MetricsPort > 0 {
		go metrics.InitMetrics(cfg.MetricsPort)
	}

	if cfg.Engine != nil && cfg.Engine.Enabled {
		params := engine.NewParams(cfg.Engine)
		baseURL := cfg.Engine.ApiBaseUrl
		if baseURL == "" {
			baseURL = "http://127.0.0.1:" + serverPort(cfg)
		}
		highThreshold := cfg.Engine.HighThreshold
		if highThreshold <= 0 {
			highThreshold = 100
		}
		client := engine.NewHTTPConfigClient(baseURL, params.RequestTimeout)
		loop := engine.New(params, client, engine.ThresholdClassifier(highThreshold))
		go loop.Run(context.Background())
	}

	httpAddr := ":" + serverPort(cfg)
	logger.InitLog.Infoln("slice manager HTTP addr", httpAddr)
	logger.InitLog.Infoln(router.Run(httpAddr))
	logger.InitLog.Infoln("webserver stopped/terminated/not-started")
}

func serverPort(cfg *factory.Configuration) string {
	if cfg.WebServer != nil && cfg.WebServer.Port != "" {
		return cfg.WebServer.Port
	}
	return "3000"
}
