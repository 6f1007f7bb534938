package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"amplog-go/diag"
	"amplog-go/platform"
	"amplog-go/services/datalogger"
	"amplog-go/types"
)

var simCmd = &cobra.Command{
	Use:          "sim",
	Short:        "Run a logging session against the simulation board",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile := platform.DefaultProfile()
		if path := viper.GetString("sim.profile"); path != "" {
			var err error
			profile, err = platform.LoadProfile(path)
			if err != nil {
				return err
			}
		}
		if dir := viper.GetString("sim.data_dir"); dir != "" {
			profile.DataDir = dir
		}

		board, err := platform.NewSimBoard(profile)
		if err != nil {
			return err
		}

		cfg := types.SessionConfig{
			SampleInterval:       viper.GetDuration("sim.interval"),
			Averaging:            viper.GetBool("sim.averaging"),
			DatapointsPerAverage: viper.GetInt("sim.datapoints"),
			RevalidateEachCycle:  viper.GetBool("sim.revalidate"),
		}.Sanitize()

		s := datalogger.New(cfg, datalogger.Peripherals{
			Clock:  board.Clock,
			Sensor: board.Sensor,
			Store:  board.Store,
			Status: board.Status,
		})
		s.Diag = diag.New(board.DiagSinks...)
		s.OnState = func(st types.SessionState) {
			logger.Info("session state",
				zap.String("level", st.Level),
				zap.String("status", st.Status),
				zap.Int64("ts", st.TS),
			)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if d := viper.GetDuration("sim.duration"); d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}

		logger.Info("sim starting",
			zap.Duration("interval", cfg.SampleInterval),
			zap.Bool("averaging", cfg.Averaging),
			zap.String("data_dir", profile.DataDir),
		)
		if err := s.Run(ctx); err != nil {
			return err
		}
		logger.Info("sim finished",
			zap.String("file", s.Filename()),
			zap.Int("rows", s.Rows()),
		)
		return nil
	},
}

func init() {
	simCmd.Flags().String("sim.profile", "", "YAML board profile")
	simCmd.Flags().String("sim.data_dir", "", "directory for session files (overrides the profile)")
	simCmd.Flags().Duration("sim.interval", time.Second, "sample interval")
	simCmd.Flags().Bool("sim.averaging", false, "average N samples into each row")
	simCmd.Flags().Int("sim.datapoints", 10, "samples per averaged row")
	simCmd.Flags().Bool("sim.revalidate", false, "re-probe peripherals every cycle")
	simCmd.Flags().Duration("sim.duration", 0, "stop after this long (0 runs until interrupt)")

	cobra.CheckErr(viper.BindPFlags(simCmd.Flags()))

	rootCmd.AddCommand(simCmd)
}
