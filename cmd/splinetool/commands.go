package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tsanim/splinecore/spline"
	"github.com/tsanim/splinecore/splinediff"
	"github.com/tsanim/splinecore/splineio"
)

// zerologAdapter implements [spline.Logger] over a zerolog.Logger, so the
// core's coding-error reporting (spec §7) lands on the CLI's structured
// log stream instead of being silently dropped or panicking.
type zerologAdapter struct {
	l zerolog.Logger
}

func (z zerologAdapter) Warn(err *spline.CodingError) {
	z.l.Warn().Str("op", err.Op).Str("field", err.Field).Msg(err.Reason)
}

func newLogger() spline.Logger { return zerologAdapter{l: log.Logger} }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "splinetool",
		Short: "Inspect and manipulate splinecore CBOR spline files",
	}
	root.AddCommand(
		newEvalCmd(),
		newSampleCmd(),
		newRangeCmd(),
		newDiffCmd(),
		newRedundantCmd(),
		newBreakdownCmd(),
	)
	return root
}

func loadSpline(path string) (*spline.Spline[float64], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	s, _, err := splineio.Decode(data, spline.Float64Ops{}, newLogger())
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return s, nil
}

func saveSpline(path string, s *spline.Spline[float64]) error {
	data, err := splineio.Encode(s, splineio.ValueTypeFloat64)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

func parseSide(s string) (spline.Side, error) {
	switch s {
	case "left":
		return spline.Left, nil
	case "right", "":
		return spline.Right, nil
	default:
		return 0, fmt.Errorf("side must be left or right, got %q", s)
	}
}

func newEvalCmd() *cobra.Command {
	var side string
	cmd := &cobra.Command{
		Use:   "eval <file> <time>",
		Short: "Evaluate a spline's value at a given time",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSpline(args[0])
			if err != nil {
				return err
			}
			t, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("parsing time: %w", err)
			}
			sd, err := parseSide(side)
			if err != nil {
				return err
			}
			v, ok := s.EvalValue(t, sd)
			if !ok {
				return fmt.Errorf("spline has no knots to evaluate")
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.Flags().StringVar(&side, "side", "right", "evaluation side: left or right")
	return cmd
}

func newSampleCmd() *cobra.Command {
	var timeScale, valueScale, tol float64
	cmd := &cobra.Command{
		Use:   "sample <file> <start> <end>",
		Short: "Produce adaptive piecewise-linear samples over an interval",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSpline(args[0])
			if err != nil {
				return err
			}
			start, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("parsing start: %w", err)
			}
			end, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("parsing end: %w", err)
			}
			for _, sm := range s.Sample(start, end, timeScale, valueScale, tol) {
				fmt.Fprintf(cmd.OutOrStdout(), "%g\t%g\t%g\t%g\n", sm.T0, sm.V0, sm.T1, sm.V1)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&timeScale, "time-scale", 1, "time-axis scale for the flatness test")
	cmd.Flags().Float64Var(&valueScale, "value-scale", 1, "value-axis scale for the flatness test")
	cmd.Flags().Float64Var(&tol, "tol", 1e-3, "flatness tolerance")
	return cmd
}

func newRangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range <file> <start> <end>",
		Short: "Compute a spline's value range over an interval",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSpline(args[0])
			if err != nil {
				return err
			}
			start, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("parsing start: %w", err)
			}
			end, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("parsing end: %w", err)
			}
			lo, hi, ok := s.Range(start, end)
			if !ok {
				return fmt.Errorf("spline has no knots in range")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%g\t%g\n", lo, hi)
			return nil
		},
	}
	return cmd
}

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <fileA> <fileB>",
		Short: "Compute the changed time interval between two splines",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadSpline(args[0])
			if err != nil {
				return err
			}
			b, err := loadSpline(args[1])
			if err != nil {
				return err
			}
			interval := splinediff.FindChangedInterval(a, b)
			if interval.Empty {
				fmt.Fprintln(cmd.OutOrStdout(), "no change")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatInterval(interval))
			return nil
		},
	}
	return cmd
}

func formatInterval(iv splinediff.Interval) string {
	var lo, hi string
	if iv.MinUnbounded {
		lo = "(-inf"
	} else if iv.MinClosed {
		lo = fmt.Sprintf("[%g", iv.Min)
	} else {
		lo = fmt.Sprintf("(%g", iv.Min)
	}
	if iv.MaxUnbounded {
		hi = "+inf)"
	} else if iv.MaxClosed {
		hi = fmt.Sprintf("%g]", iv.Max)
	} else {
		hi = fmt.Sprintf("%g)", iv.Max)
	}
	return lo + ", " + hi
}

func newRedundantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redundant <file> <time>",
		Short: "Report whether the knot at a given time is redundant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSpline(args[0])
			if err != nil {
				return err
			}
			t, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("parsing time: %w", err)
			}
			k, ok := s.KnotAt(t)
			if !ok {
				return fmt.Errorf("no knot at time %g", t)
			}
			var loop *spline.LoopParams
			if lp, ok := s.InnerLoop(); ok {
				loop = &lp
			}
			redundant := splinediff.IsKnotRedundant(s, k, loop, nil)
			fmt.Fprintln(cmd.OutOrStdout(), redundant)
			return nil
		},
	}
	return cmd
}

func newBreakdownCmd() *cobra.Command {
	var value float64
	cmd := &cobra.Command{
		Use:   "breakdown <file> <t1> <t2> <t3>",
		Short: "Insert a breakdown knot at t2 between t1 and t3, preserving shape",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSpline(args[0])
			if err != nil {
				return err
			}
			times := make([]float64, 3)
			for i, a := range args[1:] {
				t, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("parsing time %d: %w", i+1, err)
				}
				times[i] = t
			}
			k1, ok := s.KnotAt(times[0])
			if !ok {
				return fmt.Errorf("no knot at time %g", times[0])
			}
			k3, ok := s.KnotAt(times[2])
			if !ok {
				return fmt.Errorf("no knot at time %g", times[2])
			}
			if !cmd.Flags().Changed("value") {
				value, _ = s.EvalValue(times[1], spline.Right)
			}
			k2 := spline.NewKnot(s.Ops(), times[1], value, spline.KnotBezier)
			s.InsertKnot(k2)

			splinediff.Breakdown(s.Ops(), [3]*spline.Knot[float64]{k1, k2, k3}, newLogger())
			return saveSpline(args[0], s)
		},
	}
	cmd.Flags().Float64Var(&value, "value", 0, "value of the new breakdown knot at t2 (default: the spline's current value at t2)")
	return cmd
}
