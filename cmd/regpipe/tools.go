package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/scorpio-su/2023-IMDB/config"
	"github.com/scorpio-su/2023-IMDB/linear"
	"github.com/scorpio-su/2023-IMDB/pkg/errors"
	"github.com/scorpio-su/2023-IMDB/table"
)

func (a *app) olsCommand() *cobra.Command {
	var file, xCol, yCol string
	cmd := &cobra.Command{
		Use:   "ols",
		Short: "Print coefficient statistics of one column regressed on another",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			df, err := table.Load(file)
			if err != nil {
				return err
			}
			x, err := table.Floats(df, xCol)
			if err != nil {
				return err
			}
			y, err := table.Floats(df, yCol)
			if err != nil {
				return err
			}
			if err := errors.CheckNumericalStability("ols", append(append([]float64{}, x...), y...)); err != nil {
				return errors.NewInputError(file, errors.InputMalformed, err)
			}

			X := mat.NewDense(len(x), 1, x)
			Y := mat.NewDense(len(y), 1, y)
			lr := linear.NewLinearRegression(linear.WithFitIntercept(a.opts.FitIntercept))
			if err := lr.Fit(X, Y); err != nil {
				return err
			}
			s, err := lr.Summary(X, Y, []string{xCol})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Dep. Variable: %s\n", yCol)
			fmt.Fprint(a.stdout, s.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "CSV file holding both columns")
	cmd.Flags().StringVar(&xCol, "x", "id", "regressor column")
	cmd.Flags().StringVar(&yCol, "y", "", "response column")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("y")
	return cmd
}

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the regpipe configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		// The file being written may not load yet.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(_ *cobra.Command, args []string) error {
			path := config.DefaultConfigName + ".yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.Newf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(config.Defaults(), path); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			b, err := yaml.Marshal(a.opts)
			if err != nil {
				return errors.Wrap(err, "marshal yaml")
			}
			_, err = a.stdout.Write(b)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
