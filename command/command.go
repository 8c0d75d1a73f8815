// MIT License

// Copyright (c) 2023 wetrycode

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package command

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/wetrycode/httpd"
	"github.com/wetrycode/httpd/api"
	"github.com/wetrycode/httpd/distributed"
)

var logger = httpd.GetLogger("command")

const helpTextVerbose = `Prints debugging messages.`

const helpTextDir = `Specifies the directory that the server will use to read requested files.
Default is the server.root setting, the current directory unless configured.`

const helpTextPort = `Specifies the port number that the server will listen and serve at. Default is 8080.`

// serveFlags flags of the serve command
type serveFlags struct {
	port      int
	dir       string
	verbose   bool
	workers   int
	rateLimit int
	adminAddr string
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "httpd",
	Short: "httpd is a minimal static file server speaking HTTP/1.1",
}

func newServeCmd() *cobra.Command {
	flags := &serveFlags{}
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the files of a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}
	serveCmd.Flags().IntVarP(&flags.port, "port", "p", 8080, helpTextPort)
	serveCmd.Flags().StringVarP(&flags.dir, "dir", "d", ".", helpTextDir)
	serveCmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, helpTextVerbose)
	serveCmd.Flags().IntVar(&flags.workers, "workers", 1, "Connections handled concurrently, 1 handles one connection at a time.")
	serveCmd.Flags().IntVar(&flags.rateLimit, "rate", 0, "Accepted connections per second, 0 disables the limit.")
	serveCmd.Flags().StringVar(&flags.adminAddr, "admin", "", "Address of the admin api, empty disables it.")
	return serveCmd
}

// applyFlags overrides settings with the flags set on the command line
func applyFlags(cmd *cobra.Command, flags *serveFlags, settings *httpd.ServerSettings) {
	if cmd.Flags().Changed("port") {
		settings.Port = flags.port
	}
	if cmd.Flags().Changed("dir") {
		settings.Root = flags.dir
	}
	if cmd.Flags().Changed("workers") {
		settings.Workers = flags.workers
	}
	if cmd.Flags().Changed("rate") {
		settings.RateLimit = flags.rateLimit
	}
	if cmd.Flags().Changed("admin") {
		settings.AdminAddr = flags.adminAddr
	}
}

func runServe(cmd *cobra.Command, flags *serveFlags) error {
	if flags.verbose {
		httpd.SetLogLevel(logrus.DebugLevel)
	}
	settings, err := httpd.LoadServerSettings()
	if err != nil {
		return err
	}
	applyFlags(cmd, flags, settings)

	var statistic httpd.StatisticInterface
	if addr := httpd.Config.GetString("redis.addr"); addr != "" {
		rdb := distributed.NewRdbClient(distributed.NewRedisConfigFromSettings())
		defer rdb.Close()
		statistic = distributed.NewRedisStatistic(rdb, settings.Name)
		logger.Infof("sharing statistics through redis %s", addr)
	}
	server := httpd.NewServerFromSettings(settings, statistic)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if settings.AdminAddr != "" {
		admin := api.NewAPI(server)
		go func() {
			if err := admin.Run(ctx, settings.AdminAddr); err != nil {
				logger.Errorf("admin api error %s", err.Error())
			}
		}()
	}
	logger.Infof("serving %s on %s", settings.Root, settings.Addr())
	err = server.ListenAndServe(ctx)
	logger.Infof("stats %s", httpd.Map2String(server.GetStatistic().GetAllStats()))
	return err
}

func init() {
	RootCmd.AddCommand(newServeCmd())
}

// ExecuteContext runs the command line until ctx is done
func ExecuteContext(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := ExecuteContext(context.Background())
	if err != nil {
		os.Exit(1)
	}
}
