package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/minikastronot/minik/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Serve the game state and narration over HTTP",
	Long:    paragraph(fmt.Sprintf("\n%s a single play session over HTTP. Narration is returned as WAV instead of being played.", keyword("Serve"))),
	Example: paragraph("minik serve\nminik serve --addr :9000"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		logToStderr()

		envCfg, err := loadEnv()
		if err != nil {
			return err
		}
		rt, err := newRuntime(opts, envCfg, runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx, cancel := signalContext()
		defer cancel()
		if opts.Preload.Enabled {
			go rt.sess.Preload(ctx, opts.preloadPlan())
		}

		return server.New(rt.sess, rt.images).ListenAndServe(ctx, opts.Serve.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "address to listen on")
	_ = viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
}
