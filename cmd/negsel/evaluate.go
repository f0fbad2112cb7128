package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hed1ad/negsel/pkg/detectors"
	"github.com/hed1ad/negsel/pkg/detectors/negsel"
)

// evaluateSet scores model against the labeled samples of the test file.
func evaluateSet(s *session, model *negsel.Model) (detectors.Evaluation, error) {
	samples, err := s.readSamples(inputOr(s.cfg.Data.Test), "")
	if err != nil {
		return detectors.Evaluation{}, err
	}
	return model.EvaluateReport(s.labels().Labeled(samples))
}

func printEvaluation(s *session, e detectors.Evaluation) {
	fmt.Fprintf(s.out, "samples: %d\n", e.Total)
	fmt.Fprintf(s.out, "accuracy: %g (%d/%d)\n", e.Accuracy, e.Correct, e.Total)
	fmt.Fprintf(s.out, "confusion: tp=%d fp=%d tn=%d fn=%d\n",
		e.TruePositive, e.FalsePositive, e.TrueNegative, e.FalseNegative)
}

func evaluate(cmd *cobra.Command) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	model, err := s.loadModel()
	if err != nil {
		return err
	}

	e, err := evaluateSet(s, model)
	if err != nil {
		return err
	}
	printEvaluation(s, e)
	return nil
}

func evaluateCMD() *cobra.Command {
	evaluateCmd := &cobra.Command{
		Use:   "evaluate",
		Short: "measure accuracy",
		Long:  "classify the labeled test set with a saved model and report accuracy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return evaluate(cmd)
		},
	}
	attachFlags(evaluateCmd, []string{"model", "input"})
	return evaluateCmd
}
