package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hed1ad/negsel/pkg/plot"
)

// run is the whole experiment: fit on train, save, evaluate on test, plot.
func run(cmd *cobra.Command) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	cfg := s.cfg
	fmt.Fprintln(s.out, "parameters")
	fmt.Fprintf(s.out, "  classes: %s (+), %s (-)\n", cfg.Classes.Positive, strings.Join(cfg.Classes.Negative, ", "))
	fmt.Fprintf(s.out, "  features: %s, %s\n", cfg.Features.X, cfg.Features.Y)
	fmt.Fprintf(s.out, "  radius: %g\n", cfg.Radius)
	fmt.Fprintf(s.out, "  detectors: %d\n", cfg.Detectors)

	bounds, err := s.bounds()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "  %s: min=%g max=%g\n", cfg.Features.X, bounds.Min[0], bounds.Max[0])
	fmt.Fprintf(s.out, "  %s: min=%g max=%g\n", cfg.Features.Y, bounds.Min[1], bounds.Max[1])

	model, positives, report, err := s.fit()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "fit: %d detectors from %d self samples\n", report.Detectors, len(positives))
	printReport(s, report)

	if err := model.SaveFile(cfg.Model); err != nil {
		return err
	}

	// --input only replaces the training set here.
	test, err := s.readSamples(cfg.Data.Test, "")
	if err != nil {
		return err
	}
	e, err := model.EvaluateReport(s.labels().Labeled(test))
	if err != nil {
		return err
	}
	printEvaluation(s, e)

	if err := plot.ModelFile(cfg.Plot, model.Detectors(), positives, model.Bounds()); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "model saved to %s, plot saved to %s\n", cfg.Model, cfg.Plot)
	return nil
}

func runCMD() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "fit, evaluate and plot",
		Long:  "fit a model on the training set, evaluate it on the test set and plot the detectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd)
		},
	}
	attachFlags(runCmd, []string{"radius", "detectors", "seed", "max-attempts", "grid-resolution", "model", "plot", "input"})
	return runCmd
}
