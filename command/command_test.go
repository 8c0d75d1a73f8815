package command

import (
	"context"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
	"github.com/spf13/cobra"
	"github.com/wetrycode/httpd"
)

func TestServeCommand(t *testing.T) {
	convey.Convey("test serve until context done", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		RootCmd.SetArgs([]string{"serve", "-p", "0", "-d", t.TempDir(), "--workers", "2"})
		err := ExecuteContext(ctx)
		convey.So(err, convey.ShouldBeNil)
	})
	convey.Convey("test serve rejects arguments", t, func() {
		RootCmd.SetArgs([]string{"serve", "extra"})
		err := ExecuteContext(context.Background())
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestApplyFlags(t *testing.T) {
	convey.Convey("test only changed flags override settings", t, func() {
		cmd := &cobra.Command{Use: "serve"}
		flags := &serveFlags{}
		cmd.Flags().IntVarP(&flags.port, "port", "p", 8080, helpTextPort)
		cmd.Flags().StringVarP(&flags.dir, "dir", "d", ".", helpTextDir)
		cmd.Flags().IntVar(&flags.workers, "workers", 1, "")
		err := cmd.Flags().Parse([]string{"-p", "9000"})
		convey.So(err, convey.ShouldBeNil)
		settings := &httpd.ServerSettings{Port: 8080, Root: "/srv/www", Workers: 3}
		applyFlags(cmd, flags, settings)
		convey.So(settings.Port, convey.ShouldEqual, 9000)
		convey.So(settings.Root, convey.ShouldEqual, "/srv/www")
		convey.So(settings.Workers, convey.ShouldEqual, 3)
	})
}
