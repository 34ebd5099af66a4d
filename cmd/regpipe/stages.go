package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scorpio-su/2023-IMDB/pipeline"
	"github.com/scorpio-su/2023-IMDB/report"
)

func (a *app) runCommand() *cobra.Command {
	var normalize bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Regress every folder, combine the results and draw the charts",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			rep := a.newReport()
			if normalize {
				if err := a.normalize(rep); err != nil {
					return err
				}
			}
			if _, err := a.regress(rep); err != nil {
				return err
			}
			if err := a.combine(rep); err != nil {
				return err
			}
			if err := a.charts(rep); err != nil {
				return err
			}
			return a.finish(rep)
		},
	}
	cmd.Flags().BoolVar(&normalize, "normalize", false, "normalize the raw files before regressing")
	return cmd
}

func (a *app) regressCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "regress",
		Short: "Fit the per-target models of every folder and dataset file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			rep := a.newReport()
			if _, err := a.regress(rep); err != nil {
				return err
			}
			return a.finish(rep)
		},
	}
}

func (a *app) combineCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "combine",
		Short: "Stack the per-folder results tables of each dataset label",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			rep := a.newReport()
			if err := a.combine(rep); err != nil {
				return err
			}
			return a.finish(rep)
		},
	}
}

func (a *app) chartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chart",
		Short: "Draw the MSE and R-squared trend charts from the combined tables",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			rep := a.newReport()
			if err := a.charts(rep); err != nil {
				return err
			}
			return a.finish(rep)
		},
	}
}

func (a *app) normalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Z-score the configured columns of the raw files",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			rep := a.newReport()
			if err := a.normalize(rep); err != nil {
				return err
			}
			return a.finish(rep)
		},
	}
}

func (a *app) movingAverageCommand() *cobra.Command {
	var window int
	cmd := &cobra.Command{
		Use:     "movingavg",
		Aliases: []string{"ma"},
		Short:   "Plot every column of the raw files against its trailing moving average",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("window") {
				a.opts.MovingAverage.Window = window
				if err := a.opts.Validate(); err != nil {
					return err
				}
			}
			rep := a.newReport()
			res, err := pipeline.NewMovingAverageJob(a.opts, a.logger).Run()
			if err != nil {
				return err
			}
			rep.Add(pipeline.StageMovingAverage, res)
			return a.finish(rep)
		},
	}
	cmd.Flags().IntVar(&window, "window", 0, "moving-average window (overrides config)")
	return cmd
}

// regress runs the aggregator and draws the cross-dataset comparison chart.
func (a *app) regress(rep *pipeline.Report) (*pipeline.AggregateResult, error) {
	agg, err := pipeline.NewAggregator(a.opts, a.logger)
	if err != nil {
		return nil, err
	}
	res, err := agg.Aggregate()
	if err != nil {
		return nil, err
	}
	rep.Add(pipeline.StageRegress, res.StageResult)

	path, err := pipeline.RenderComparisonChart(a.opts, res)
	if err != nil {
		return nil, err
	}
	rep.Written = append(rep.Written, path)
	return res, nil
}

// combine writes the combined tables and, when enabled, the workbook.
func (a *app) combine(rep *pipeline.Report) error {
	res, err := pipeline.NewCombiner(a.opts, a.logger).Combine()
	if err != nil {
		return err
	}
	rep.Add(pipeline.StageCombine, res.StageResult)

	if !a.opts.Workbook {
		return nil
	}
	path := filepath.Join(a.opts.CombineRoot(), report.WorkbookFileName)
	ok, err := report.WriteWorkbook(path, res.Labels, res.Tables)
	if err != nil {
		return err
	}
	if ok {
		rep.Written = append(rep.Written, path)
	}
	return nil
}

func (a *app) charts(rep *pipeline.Report) error {
	res, err := pipeline.RenderTrendCharts(a.opts, a.logger)
	if err != nil {
		return err
	}
	rep.Add(pipeline.StageChart, res)
	return nil
}

func (a *app) normalize(rep *pipeline.Report) error {
	res, err := pipeline.NewNormalizer(a.opts, a.logger).Run()
	if err != nil {
		return err
	}
	rep.Add(pipeline.StageNormalize, res)
	return nil
}
