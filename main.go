// Copyright © 2020 Attestant Limited.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"net/http"
	// #nosec G108
	_ "net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/attestantio/exportertls/cmd"
	"github.com/attestantio/exportertls/core"
	"github.com/attestantio/exportertls/services/customizer"
	standardcustomizer "github.com/attestantio/exportertls/services/customizer/standard"
	"github.com/attestantio/exportertls/services/locator"
	majordomolocator "github.com/attestantio/exportertls/services/locator/majordomo"
	"github.com/attestantio/exportertls/services/metrics"
	prometheusmetrics "github.com/attestantio/exportertls/services/metrics/prometheus"
	"github.com/attestantio/exportertls/util"
	"github.com/attestantio/exportertls/util/loggers"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	zerologger "github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"google.golang.org/grpc/grpclog"
)

// ReleaseVersion is the release version for the code.
var ReleaseVersion = "0.1.0"

// BuildNumber is the build number, set at link time.
var BuildNumber = ""

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := fetchConfig(); err != nil {
		zerologger.Fatal().Err(err).Msg("Failed to fetch configuration")
	}

	if err := initLogging(); err != nil {
		zerologger.Fatal().Err(err).Msg("Failed to initialise logging")
	}

	majordomo, err := util.InitMajordomo(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise majordomo")
	}

	locator, err := majordomolocator.New(ctx,
		majordomolocator.WithLogLevel(util.LogLevel("locator")),
		majordomolocator.WithMajordomo(majordomo),
		majordomolocator.WithResourceBase(viper.GetString(core.KeyResourceBase)),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise resource locator")
	}

	// runCommands will not return if a command is run.
	exit, exitCode := runCommands(ctx, locator)
	if exit {
		os.Exit(exitCode)
	}

	logModules()
	log.Info().Str("version", ReleaseVersion).Msg("Starting exportertls")

	if err := initProfiling(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise profiling")
	}

	grpclog.SetLoggerV2(loggers.NewGRPCLoggerV2(zerologger.Logger.Level(util.LogLevel("grpc"))))

	monitor, err := startMonitor(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to start metrics service")
		return
	}
	setBuild(monitor)
	setReady(monitor, false)

	customizer, err := startCustomizer(ctx, locator, monitor)
	if err != nil {
		log.Error().Err(err).Msg("Failed to start exporter customizer")
		return
	}

	telemetry, err := startPipeline(ctx, customizer)
	if err != nil {
		log.Error().Err(err).Msg("Failed to start telemetry pipeline")
		return
	}
	setReady(monitor, true)

	log.Info().Msg("All services operational")

	// Wait for signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sigCh

	log.Info().Msg("Stopping exportertls")
	setReady(monitor, false)
	cancel()

	// Give exporters a chance to flush before we exit.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Failed to shut down telemetry pipeline cleanly")
	}
	if stopper, isStopper := monitor.(interface{ Stop(context.Context) error }); isStopper {
		if err := stopper.Stop(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Failed to stop metrics service cleanly")
		}
	}
}

// fetchConfig fetches configuration from various sources.
func fetchConfig() error {
	pflag.String("base-dir", "", "base directory for configuration files")
	pflag.String("log-level", "info", "minimum level of messages to log")
	pflag.String("log-file", "", "redirect log output to a file")
	pflag.String("profile-address", "", "Address on which to run Go profile server")
	pflag.String("service-name", "exportertls", "service name reported with telemetry")
	pflag.StringSlice("signals", []string{"traces", "metrics", "logs"}, "telemetry signals to export")
	pflag.Bool("show-certificates", false, "show exporter TLS material and exit")
	pflag.Bool("version", false, "show version and exit")
	pflag.Parse()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return errors.Wrap(err, "failed to bind pflags to viper")
	}

	if viper.GetString("base-dir") != "" {
		// User-defined base directory.
		viper.AddConfigPath(viper.GetString("base-dir"))
		viper.SetConfigName("exportertls")
	} else {
		// Home directory.
		home, err := homedir.Dir()
		if err != nil {
			return errors.Wrap(err, "failed to obtain home directory")
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".exportertls")
	}

	// Environment settings.
	viper.SetEnvPrefix("EXPORTERTLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// Defaults.
	viper.SetDefault(core.KeyWatchFiles, true)

	if err := viper.ReadInConfig(); err != nil {
		switch {
		case errors.As(err, &viper.ConfigFileNotFoundError{}):
			// Configuration can come entirely from the environment.
		case errors.As(err, &viper.ConfigParseError{}):
			return errors.Wrap(err, "could not parse the configuration file")
		default:
			return errors.Wrap(err, "failed to obtain configuration")
		}
	}

	return nil
}

// initProfiling initialises the profiling server.
//
//nolint:unparam
func initProfiling() error {
	profileAddress := viper.GetString("profile-address")
	if profileAddress != "" {
		go func() {
			log.Info().Str("profile_address", profileAddress).Msg("Starting profile server")
			server := &http.Server{
				Addr:              profileAddress,
				ReadHeaderTimeout: 5 * time.Second,
			}
			runtime.SetMutexProfileFraction(1)
			if err := server.ListenAndServe(); err != nil {
				log.Warn().Str("profile_address", profileAddress).Err(err).Msg("Failed to run profile server")
			}
		}()
	}
	return nil
}

func runCommands(ctx context.Context, locator locator.Service) (bool, int) {
	if viper.GetBool("version") {
		fmt.Printf("%s\n", ReleaseVersion)
		return true, 0
	}

	if viper.GetBool("show-certificates") {
		err := cmd.ShowCertificates(ctx, os.Stdout, core.NewViperProperties(nil), locator)
		if err != nil {
			fmt.Fprintf(os.Stderr, "show-certificates failed: %v\n", err)
			return true, 1
		}
		return true, 0
	}

	// No command run so no need to exit.
	return false, 0
}

func startMonitor(ctx context.Context) (metrics.Service, error) {
	log.Trace().Msg("Starting metrics service")
	if viper.GetString("metrics.listen-address") == "" {
		log.Debug().Msg("No metrics listen address supplied; monitor not starting")
		return nil, nil
	}
	monitor, err := prometheusmetrics.New(ctx,
		prometheusmetrics.WithLogLevel(util.LogLevel("metrics")),
		prometheusmetrics.WithAddress(viper.GetString("metrics.listen-address")),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to start metrics service")
	}
	return monitor, nil
}

func startCustomizer(ctx context.Context,
	locator locator.Service,
	monitor metrics.Service,
) (
	customizer.Service,
	error,
) {
	var customizerMonitor metrics.CustomizerMonitor
	if monitor, isMonitor := monitor.(metrics.CustomizerMonitor); isMonitor {
		customizerMonitor = monitor
	}
	var providerMonitor metrics.TLSProviderMonitor
	if monitor, isMonitor := monitor.(metrics.TLSProviderMonitor); isMonitor {
		providerMonitor = monitor
	}

	customizer, err := standardcustomizer.New(ctx,
		standardcustomizer.WithLogLevel(util.LogLevel("customizer")),
		standardcustomizer.WithMonitor(customizerMonitor),
		standardcustomizer.WithProviderMonitor(providerMonitor),
		standardcustomizer.WithLocator(locator),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create customizer service")
	}

	return customizer, nil
}

func setBuild(monitor metrics.Service) {
	if BuildNumber == "" {
		return
	}
	build, err := strconv.ParseUint(BuildNumber, 10, 64)
	if err != nil {
		log.Warn().Str("build", BuildNumber).Msg("Invalid build number")
		return
	}
	if monitor, isMonitor := monitor.(metrics.BaseMonitor); isMonitor {
		monitor.Build(build)
	}
}

func setReady(monitor metrics.Service, ready bool) {
	if monitor, isMonitor := monitor.(metrics.ReadyMonitor); isMonitor {
		monitor.Ready(ready)
	}
}

func logModules() {
	buildInfo, ok := debug.ReadBuildInfo()
	if ok {
		log.Trace().Str("path", buildInfo.Path).Msg("Main package")
		for _, dep := range buildInfo.Deps {
			log := log.Trace()
			if dep.Replace == nil {
				log = log.Str("path", dep.Path).Str("version", dep.Version)
			} else {
				log = log.Str("path", dep.Replace.Path).Str("version", dep.Replace.Version)
			}
			log.Msg("Dependency")
		}
	}
}
