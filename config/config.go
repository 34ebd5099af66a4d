// Package config holds the pipeline options: the folder range, the dataset
// files, the target columns and the output layout. Nothing downstream reads
// a hard-coded enumeration; every command receives an *Options.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/scorpio-su/2023-IMDB/pkg/errors"
)

// EnvPrefix prefixes every environment override, e.g. REGPIPE_BASE_DIR.
const EnvPrefix = "REGPIPE"

// DefaultConfigName is the file looked up in the working directory when no
// --config flag is given.
const DefaultConfigName = "regpipe"

// Dataset maps a dataset label to the source file read in every folder.
type Dataset struct {
	Label string `mapstructure:"label" yaml:"label" validate:"required"`
	File  string `mapstructure:"file" yaml:"file" validate:"required"`
}

// Normalize configures the z-score step that produces the regression inputs.
type Normalize struct {
	InputDir    string   `mapstructure:"input_dir" yaml:"input_dir" validate:"required"`
	OutputDir   string   `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`
	Files       []string `mapstructure:"files" yaml:"files" validate:"min=1,dive,required"`
	StartColumn int      `mapstructure:"start_column" yaml:"start_column" validate:"min=0"`
	EndColumn   int      `mapstructure:"end_column" yaml:"end_column" validate:"gtfield=StartColumn"`
	// Headers replaces the whole header row of the output. Empty keeps the input names.
	Headers []string `mapstructure:"headers" yaml:"headers"`
	DDoF    int      `mapstructure:"ddof" yaml:"ddof" validate:"min=0"`
}

// MovingAverage configures the moving-average plots.
type MovingAverage struct {
	InputDir  string   `mapstructure:"input_dir" yaml:"input_dir" validate:"required"`
	OutputDir string   `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`
	Files     []string `mapstructure:"files" yaml:"files" validate:"min=1,dive,required"`
	Window    int      `mapstructure:"window" yaml:"window" validate:"min=1"`
}

// Logging selects the log backend.
type Logging struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json console"`
}

// Options is the full pipeline configuration.
type Options struct {
	BaseDir      string    `mapstructure:"base_dir" yaml:"base_dir" validate:"required"`
	Feature      string    `mapstructure:"feature" yaml:"feature" validate:"required"`
	Targets      []string  `mapstructure:"targets" yaml:"targets" validate:"min=1,unique,dive,required"`
	Folders      []int     `mapstructure:"folders" yaml:"folders" validate:"min=1,unique,dive,min=1"`
	Datasets     []Dataset `mapstructure:"datasets" yaml:"datasets" validate:"min=1,unique=Label,dive"`
	Precision    int       `mapstructure:"precision" yaml:"precision" validate:"min=0,max=15"`
	FitIntercept bool      `mapstructure:"fit_intercept" yaml:"fit_intercept"`
	ModelFormat  string    `mapstructure:"model_format" yaml:"model_format" validate:"oneof=gob json both"`
	CombineDir   string    `mapstructure:"combine_dir" yaml:"combine_dir" validate:"required"`
	Workbook     bool      `mapstructure:"workbook" yaml:"workbook"`
	Report       bool      `mapstructure:"report" yaml:"report"`

	Normalize     Normalize     `mapstructure:"normalize" yaml:"normalize"`
	MovingAverage MovingAverage `mapstructure:"moving_average" yaml:"moving_average"`
	Logging       Logging       `mapstructure:"logging" yaml:"logging"`
}

// DefaultTargets returns y01_Normalize .. y10_Normalize.
func DefaultTargets() []string {
	targets := make([]string, 10)
	for i := range targets {
		targets[i] = fmt.Sprintf("y%02d_Normalize", i+1)
	}
	return targets
}

// Defaults returns the options used when nothing overrides them.
func Defaults() *Options {
	folders := make([]int, 13)
	for i := range folders {
		folders[i] = i + 1
	}
	rawFiles := []string{"a.csv", "b.csv", "c.csv", "d.csv"}
	datasets := make([]Dataset, len(rawFiles))
	for i, f := range rawFiles {
		datasets[i] = Dataset{
			Label: "Regression_" + strings.TrimSuffix(f, ".csv"),
			File:  "normalized_" + f,
		}
	}

	return &Options{
		BaseDir:      ".",
		Feature:      "id",
		Targets:      DefaultTargets(),
		Folders:      folders,
		Datasets:     datasets,
		Precision:    4,
		FitIntercept: true,
		ModelFormat:  "gob",
		CombineDir:   "combine",
		Workbook:     true,
		Report:       true,
		Normalize: Normalize{
			InputDir:    "raw",
			OutputDir:   ".",
			Files:       rawFiles,
			StartColumn: 1,
			EndColumn:   11,
			Headers:     append([]string{"id"}, DefaultTargets()...),
			DDoF:        1,
		},
		MovingAverage: MovingAverage{
			InputDir:  "raw",
			OutputDir: ".",
			Files:     rawFiles,
			Window:    50,
		},
		Logging: Logging{Level: "info", Format: "json"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("base_dir", d.BaseDir)
	v.SetDefault("feature", d.Feature)
	v.SetDefault("targets", d.Targets)
	v.SetDefault("folders", d.Folders)
	datasets := make([]map[string]interface{}, len(d.Datasets))
	for i, ds := range d.Datasets {
		datasets[i] = map[string]interface{}{"label": ds.Label, "file": ds.File}
	}
	v.SetDefault("datasets", datasets)
	v.SetDefault("precision", d.Precision)
	v.SetDefault("fit_intercept", d.FitIntercept)
	v.SetDefault("model_format", d.ModelFormat)
	v.SetDefault("combine_dir", d.CombineDir)
	v.SetDefault("workbook", d.Workbook)
	v.SetDefault("report", d.Report)

	v.SetDefault("normalize.input_dir", d.Normalize.InputDir)
	v.SetDefault("normalize.output_dir", d.Normalize.OutputDir)
	v.SetDefault("normalize.files", d.Normalize.Files)
	v.SetDefault("normalize.start_column", d.Normalize.StartColumn)
	v.SetDefault("normalize.end_column", d.Normalize.EndColumn)
	v.SetDefault("normalize.headers", d.Normalize.Headers)
	v.SetDefault("normalize.ddof", d.Normalize.DDoF)

	v.SetDefault("moving_average.input_dir", d.MovingAverage.InputDir)
	v.SetDefault("moving_average.output_dir", d.MovingAverage.OutputDir)
	v.SetDefault("moving_average.files", d.MovingAverage.Files)
	v.SetDefault("moving_average.window", d.MovingAverage.Window)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// LoadDotenv loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error.
func LoadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "load %s", path)
	}
	return nil
}

// Load reads the configuration. Precedence: environment > config file > defaults.
// With an empty cfgFile, ./regpipe.yaml is read when present.
func Load(cfgFile string) (*Options, error) {
	if err := LoadDotenv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", cfgFile)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}

	var o Options
	if err := v.Unmarshal(&o); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

// Validate checks the struct tags of o.
func (o *Options) Validate() error {
	err := validator.New().Struct(o)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validate config")
	}
	reasons := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		reasons[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
	}
	return errors.NewValidationError(fieldErrs[0].Namespace(), strings.Join(reasons, "; "), fieldErrs[0].Value())
}

// Save writes o to path as YAML, creating the parent directory.
func Save(o *Options, path string) error {
	b, err := yaml.Marshal(o)
	if err != nil {
		return errors.Wrap(err, "marshal yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	return nil
}

// Resolve returns p unchanged when absolute, otherwise joined to BaseDir.
func (o *Options) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(o.BaseDir, p)
}

// CombineRoot is the directory combined tables are written to.
func (o *Options) CombineRoot() string {
	return o.Resolve(o.CombineDir)
}

// DatasetLabels returns the dataset labels in configuration order.
func (o *Options) DatasetLabels() []string {
	labels := make([]string, len(o.Datasets))
	for i, d := range o.Datasets {
		labels[i] = d.Label
	}
	return labels
}
