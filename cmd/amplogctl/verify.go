package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"amplog-go/logfile"
	"amplog-go/x/mathx"
)

// With only H:M:S in each row, a backwards jump is either a midnight
// wrap or disorder. Treat late-evening to early-morning as a wrap and
// everything else as a fault.
const (
	wrapEveningFloor = 23 * 3600
	wrapMorningCeil  = 1 * 3600
)

var verifyCmd = &cobra.Command{
	Use:          "verify <file.csv> [more files...]",
	Short:        "Check pulled session files for format and ordering trouble",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		bad := 0
		for _, path := range args {
			if err := verifyFile(cmd.OutOrStdout(), path); err != nil {
				logger.Warn("verification failed", zap.String("file", path), zap.Error(err))
				bad++
			}
		}
		if bad > 0 {
			return fmt.Errorf("%d of %d files failed verification", bad, len(args))
		}
		return nil
	},
}

func verifyFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	recs, hasHeader, err := logfile.ReadAll(f)
	if err != nil {
		return err
	}
	if !hasHeader {
		return errors.New("missing header")
	}

	base := filepath.Base(path)
	if !logfile.IsSessionName(base) {
		fmt.Fprintf(w, "%s: warning: name not in session form\n", base)
	}
	if len(recs) == 0 {
		fmt.Fprintf(w, "%s: header only, no rows\n", base)
		return nil
	}

	var (
		lo    = recs[0].MilliAmps
		hi    = recs[0].MilliAmps
		sum   float64
		wraps int
	)
	prev := recs[0].SecondOfDay()
	for i, r := range recs {
		if i > 0 {
			cur := r.SecondOfDay()
			switch {
			case cur >= prev:
			case prev >= wrapEveningFloor && cur < wrapMorningCeil:
				wraps++
			default:
				return fmt.Errorf("row %d out of order: %d:%d:%d after %d:%d:%d",
					i+1, r.Hour, r.Minute, r.Second,
					recs[i-1].Hour, recs[i-1].Minute, recs[i-1].Second)
			}
			prev = cur
		}
		lo = mathx.Min(lo, r.MilliAmps)
		hi = mathx.Max(hi, r.MilliAmps)
		sum += r.MilliAmps
	}

	fmt.Fprintf(w, "%s: %d rows, %d midnight wraps, min %.2f mA, mean %.2f mA, max %.2f mA\n",
		base, len(recs), wraps, lo, sum/float64(len(recs)), hi)
	return nil
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
