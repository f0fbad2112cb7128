package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	negio "github.com/hed1ad/negsel/pkg/io"
	"github.com/hed1ad/negsel/pkg/io/csv"
)

func classify(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	var samples []negio.Sample
	switch {
	case len(args) > 0:
		for _, arg := range args {
			p, err := parsePoint(arg)
			if err != nil {
				return err
			}
			samples = append(samples, negio.Sample{Point: p})
		}
	case inputFlag != "":
		samples, err = s.readSamples(inputFlag, "")
		if err != nil {
			return err
		}
	default:
		return errors.New("nothing to classify: pass x,y points or --input")
	}

	model, err := s.loadModel()
	if err != nil {
		return err
	}

	bounds := model.Bounds()
	labels := s.labels()
	w := csv.NewStreamWriter(s.out)
	for i, sample := range samples {
		class, err := model.Classify(sample.Point)
		if err != nil {
			return errors.Wrapf(err, "sample %d", i)
		}

		result := negio.Result{
			Point:      sample.Point,
			Normalized: bounds.Normalize(sample.Point),
			Class:      class,
		}
		if expected, ok := labels.Class(sample.Class); ok {
			result.Expected = &expected
		}
		if err := w.Write(result); err != nil {
			return err
		}
	}
	return w.Close()
}

func classifyCMD() *cobra.Command {
	classifyCmd := &cobra.Command{
		Use:   "classify [x,y ...]",
		Short: "classify points",
		Long:  "classify raw points given as arguments or read from --input, writing CSV results to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return classify(cmd, args)
		},
	}
	attachFlags(classifyCmd, []string{"model", "input"})
	return classifyCmd
}
