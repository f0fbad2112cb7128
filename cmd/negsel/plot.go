package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hed1ad/negsel/pkg/plot"
)

func plotModel(cmd *cobra.Command) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	model, err := s.loadModel()
	if err != nil {
		return err
	}

	samples, err := s.readSamples(inputOr(s.cfg.Data.Train), s.cfg.Classes.Positive)
	if err != nil {
		return err
	}
	positives := s.labels().Positives(samples)

	if err := plot.ModelFile(s.cfg.Plot, model.Detectors(), positives, model.Bounds()); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "plot saved to %s\n", s.cfg.Plot)
	return nil
}

func plotCMD() *cobra.Command {
	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "draw detectors",
		Long:  "draw a saved model's detectors over the normalized self samples as a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return plotModel(cmd)
		},
	}
	attachFlags(plotCmd, []string{"model", "plot", "input"})
	return plotCmd
}
