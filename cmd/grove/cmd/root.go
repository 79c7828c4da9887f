// Package cmd contains the grove command line tool.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // location names resolve without a host zoneinfo database

	"github.com/phanxgames/grove"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// dateLayout is the layout of the --date flag.
const dateLayout = "2006-01-02"

// options holds the persistent flags shared by every subcommand.
type options struct {
	cfgFile     string
	catalogFile string
	eventsFile  string
	verbose     bool
	v           *viper.Viper
	// bindErr is reported by the first command run.
	bindErr     error
}

// envKeys are the config keys GROVE_ variables override directly.
var envKeys = []string{"tileSize", "weekStart", "location", "seed", "screenshotDir"}

// Execute runs the grove command with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree. Each call returns independent flag
// and configuration state.
func NewRootCmd() *cobra.Command {
	o := &options{v: viper.New()}

	root := &cobra.Command{
		Use:   "grove",
		Short: "Grow a 3D forest from a calendar of emotion events",
		Long: `grove places each emotion event as a tree on a 6x6 grid of ground tiles.

The tile comes from the event's timestamp and the view granularity:
  - day:   every event of the date along one row
  - week:  one column per weekday, one row per four hours
  - month: a calendar starting at the month's first weekday

Events are read as a JSON array of {createdAt, emotion, emailSubject} records.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.initConfig()
		},
	}

	root.PersistentFlags().StringVar(&o.cfgFile, "config", "", "YAML config file (defaults are used when empty)")
	root.PersistentFlags().StringVar(&o.catalogFile, "catalog", "", "YAML model catalog (built-in catalog when empty)")
	root.PersistentFlags().StringVarP(&o.eventsFile, "events", "e", "-", "JSON events file, - for stdin")
	root.PersistentFlags().BoolVar(&o.verbose, "verbose", false, "verbose output")
	o.bindErr = bindFlag(o.v, "debug", root.PersistentFlags().Lookup("verbose"))

	root.AddCommand(newViewCmd(o), newMapCmd(o), newSummaryCmd(o), newRangeCmd(o))
	return root
}

// initConfig reads the config file and GROVE_ environment variables.
func (o *options) initConfig() error {
	if o.bindErr != nil {
		return o.bindErr
	}
	o.v.SetEnvPrefix("GROVE")
	o.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	o.v.AutomaticEnv()
	if err := bindEnv(o.v, envKeys...); err != nil {
		return err
	}
	if o.cfgFile == "" {
		return nil
	}
	o.v.SetConfigFile(o.cfgFile)
	o.v.SetConfigType("yaml")
	if err := o.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func bindFlag(v *viper.Viper, key string, f *pflag.Flag) error {
	if err := v.BindPFlag(key, f); err != nil {
		return fmt.Errorf("bind flag %s: %w", key, err)
	}
	return nil
}

func bindEnv(v *viper.Viper, keys ...string) error {
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

// config overlays the file and environment settings on DefaultConfig.
func (o *options) config() (grove.Config, error) {
	cfg := grove.DefaultConfig()
	if err := o.v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (o *options) catalog() (*grove.Catalog, error) {
	if o.catalogFile == "" {
		return grove.DefaultCatalog(), nil
	}
	return grove.LoadCatalog(o.catalogFile)
}

func (o *options) events(stdin io.Reader) ([]grove.EmotionEvent, error) {
	var (
		data []byte
		err  error
	)
	if o.eventsFile == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(o.eventsFile)
	}
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return grove.DecodeEvents(data)
}

func (o *options) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// viewFlags are the view selectors shared by view, map and range.
type viewFlags struct {
	granularity string
	date        string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.granularity, "granularity", "g", "week", "view granularity: day, week or month")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "reference date as YYYY-MM-DD (today when empty)")
}

// parse reads the granularity and the reference date in loc.
func (f *viewFlags) parse(loc *time.Location) (grove.Granularity, time.Time, error) {
	g, err := grove.ParseGranularity(f.granularity)
	if err != nil {
		return g, time.Time{}, err
	}
	if f.date == "" {
		return g, time.Now().In(loc), nil
	}
	ref, err := time.ParseInLocation(dateLayout, f.date, loc)
	if err != nil {
		return g, time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", f.date)
	}
	return g, ref, nil
}
