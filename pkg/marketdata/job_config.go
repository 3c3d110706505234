package marketdata

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/internal/version"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
	"github.com/rxtech-lab/argo-bars/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-bars/pkg/marketdata/writer"
	"gopkg.in/yaml.v3"
)

// JobConfig is a batch run described in a YAML file.
type JobConfig struct {
	Version    string   `yaml:"version" json:"version" jsonschema:"title=Version,description=Job file format version,required" validate:"required"`
	Provider   string   `yaml:"provider,omitempty" json:"provider,omitempty" jsonschema:"title=Provider,enum=alpaca,enum=polygon,enum=binance,default=alpaca" validate:"omitempty,oneof=alpaca polygon binance"`
	Tickers    []string `yaml:"tickers" json:"tickers" jsonschema:"title=Tickers,description=Symbols to process (e.g. AAPL),required,minItems=1" validate:"required,min=1,dive,required"`
	Start      string   `yaml:"start" json:"start" jsonschema:"title=Start Date,description=First date to export (YYYY-MM-DD),required" validate:"required"`
	End        string   `yaml:"end,omitempty" json:"end,omitempty" jsonschema:"title=End Date,description=Last date to fetch; open-ended when empty"`
	Timeframe  string   `yaml:"timeframe,omitempty" json:"timeframe,omitempty" jsonschema:"title=Timeframe,description=Bar size such as 1Day or 15Min,default=1Day"`
	Indicators []string `yaml:"indicators,omitempty" json:"indicators,omitempty" jsonschema:"title=Indicators,description=Indicator specifiers such as SMA_50 or RSI"`
	OutputDir  string   `yaml:"outputDir,omitempty" json:"outputDir,omitempty" jsonschema:"title=Output Directory,default=data"`
	Format     string   `yaml:"format,omitempty" json:"format,omitempty" jsonschema:"title=Format,enum=csv,enum=parquet,default=csv" validate:"omitempty,oneof=csv parquet"`
	Calendar   string   `yaml:"calendar,omitempty" json:"calendar,omitempty" jsonschema:"title=Warm-up Calendar,enum=fixed,enum=weekday,default=fixed" validate:"omitempty,oneof=fixed weekday"`
	Holidays   []string `yaml:"holidays,omitempty" json:"holidays,omitempty" jsonschema:"title=Holidays,description=Dates skipped by the weekday calendar" validate:"dive,datetime=2006-01-02"`
	PageLimit  int      `yaml:"pageLimit,omitempty" json:"pageLimit,omitempty" jsonschema:"title=Page Limit,default=10000" validate:"gte=0"`
	Precision  *int     `yaml:"precision,omitempty" json:"precision,omitempty" jsonschema:"title=Precision,description=Decimal places of written numbers" validate:"omitempty,gte=0"`
	ArchiveRaw bool     `yaml:"archiveRaw,omitempty" json:"archiveRaw,omitempty" jsonschema:"title=Archive Raw Bars"`
}

// LoadJobConfig reads and validates a job file.
func LoadJobConfig(path string) (*JobConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read job file %s", path)
	}

	return ParseJobConfig(data)
}

// ParseJobConfig parses YAML into a JobConfig, fills defaults and validates it.
func ParseJobConfig(data []byte) (*JobConfig, error) {
	var config JobConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse job file", err)
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ApplyDefaults fills unset optional fields.
func (c *JobConfig) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = string(provider.ProviderAlpaca)
	}

	if c.Timeframe == "" {
		c.Timeframe = "1Day"
	}

	if c.OutputDir == "" {
		c.OutputDir = "data"
	}

	if c.Format == "" {
		c.Format = string(writer.WriterCSV)
	}

	if c.Calendar == "" {
		c.Calendar = string(CalendarFixed)
	}
}

// Validate checks field constraints, the job version, the timeframe and the dates.
func (c *JobConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid job config", err)
	}

	if err := version.CheckJobCompatibility(version.JobSchemaVersion, c.Version); err != nil {
		return err
	}

	if _, err := types.ParseTimeframe(c.Timeframe); err != nil {
		return err
	}

	if _, err := ParseDate(c.Start); err != nil {
		return err
	}

	if c.End != "" {
		if _, err := ParseDate(c.End); err != nil {
			return err
		}
	}

	return nil
}

// ToBatchParams converts the job to batch parameters.
func (c *JobConfig) ToBatchParams() (BatchParams, error) {
	timeframe, err := types.ParseTimeframe(c.Timeframe)
	if err != nil {
		return BatchParams{}, err
	}

	end := optional.None[string]()
	if c.End != "" {
		end = optional.Some(c.End)
	}

	return BatchParams{
		Tickers:    SplitTickers(strings.Join(c.Tickers, ",")),
		Timeframe:  timeframe,
		StartDate:  c.Start,
		EndDate:    end,
		Indicators: SplitIndicators(strings.Join(c.Indicators, ",")),
	}, nil
}

// ToClientConfig converts the job to a client configuration using the given credentials.
func (c *JobConfig) ToClientConfig(credentials provider.Credentials) ClientConfig {
	precision := optional.None[int]()
	if c.Precision != nil {
		precision = optional.Some(*c.Precision)
	}

	return ClientConfig{
		ProviderType: provider.ProviderType(c.Provider),
		WriterType:   writer.WriterType(c.Format),
		DataPath:     c.OutputDir,
		Credentials:  credentials,
		PageLimit:    c.PageLimit,
		Precision:    precision,
		Calendar:     CalendarType(c.Calendar),
		Holidays:     c.Holidays,
		ArchiveRaw:   c.ArchiveRaw,
	}
}

// JobConfigSchema returns the JSON schema of the job file.
func JobConfigSchema() (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	//nolint:exhaustruct // Empty struct is intentional for schema generation
	schema := r.Reflect(JobConfig{})

	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUnknown, "failed to encode job schema", err)
	}

	return string(schemaBytes), nil
}
