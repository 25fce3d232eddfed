package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/minikastronot/minik/internal/speech"
)

var preloadCmd = &cobra.Command{
	Use:     "preload",
	Short:   "Fetch every standard narration line into the speech cache",
	Long:    paragraph(fmt.Sprintf("\n%s greetings, planet intros and feedback lines so the game starts talking at once. Needs the speech cache enabled to be useful across runs.", keyword("Synthesize"))),
	Example: paragraph("minik preload\nMINIK_SPEECH_CACHE_ENABLED=true minik preload"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		logToStderr()

		envCfg, err := loadEnv()
		if err != nil {
			return err
		}
		if envCfg.Key() == "" {
			return speech.ErrMissingAPIKey
		}
		rt, err := newRuntime(opts, envCfg, runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx, cancel := signalContext()
		defer cancel()

		report := rt.sess.Preload(ctx, opts.preloadPlan())
		fmt.Println(report.String())
		if rt.cache != nil {
			st := rt.cache.Stats()
			fmt.Printf("cache: %s items, %s on disk\n", humanize.Comma(st.ItemCount), humanize.Bytes(uint64(st.Size)))
		}
		if report.Failed > 0 {
			return errors.New(humanize.Comma(int64(report.Failed)) + " lines failed")
		}
		return nil
	},
}
