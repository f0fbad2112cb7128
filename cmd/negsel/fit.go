package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hed1ad/negsel/pkg/detectors"
)

func fit(cmd *cobra.Command) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	model, positives, report, err := s.fit()
	if err != nil {
		return err
	}
	if err := model.SaveFile(s.cfg.Model); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "model %s: %d detectors from %d self samples, saved to %s\n",
		report.ID, report.Detectors, len(positives), s.cfg.Model)
	printReport(s, report)
	return nil
}

func printReport(s *session, r detectors.FitReport) {
	fmt.Fprintf(s.out, "attempts: %d (rejected %d, grid %d), per detector p50=%d p99=%d max=%d, %s\n",
		r.Attempts, r.Rejected, r.FromGrid, r.AttemptsP50, r.AttemptsP99, r.AttemptsMax, r.Duration)
}

func fitCMD() *cobra.Command {
	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "generate detectors",
		Long:  "generate detectors from the self samples of the training set and save the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return fit(cmd)
		},
	}
	attachFlags(fitCmd, []string{"radius", "detectors", "seed", "max-attempts", "grid-resolution", "model", "input"})
	return fitCmd
}
