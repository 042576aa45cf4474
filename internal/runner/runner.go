package runner

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
	errorutil "github.com/projectdiscovery/utils/errors"
	fileutil "github.com/projectdiscovery/utils/file"
	updateutils "github.com/projectdiscovery/utils/update"

	frm "github.com/steenrotsman/frm-miner"
)

// DefaultFormat renders one motif per output line.
const DefaultFormat = "{{pattern}} support={{support}} length={{length}} naed={{naed}}"

type Options struct {
	Input              goflags.StringSlice // dataset files, one series per line
	Output             string
	ExportYaml         string
	Format             string
	Config             string
	MinSup             float64
	SegLen             int
	Alphabet           int
	MinLen             int
	MaxLen             int
	MaxOverlap         float64
	TopK               int
	DisableUpdateCheck bool
	Verbose            bool
	Silent             bool
	// internal/unexported fields
	minsup     string
	maxOverlap string
}

func ParseFlags() *Options {
	opts := &Options{}
	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`Mine frequent representative motifs of variable length from time series databases.`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringSliceVarP(&opts.Input, "input", "i", nil, "dataset files with one series per line (comma, semicolon, tab or space separated values)", goflags.CommaSeparatedStringSliceOptions),
	)

	flagSet.CreateGroup("mining", "Mining",
		flagSet.StringVarP(&opts.minsup, "minsup", "ms", strconv.FormatFloat(frm.DefaultOptions.MinSup, 'f', -1, 64), "minimum fraction of series a motif has to occur in, in (0,1]"),
		flagSet.IntVarP(&opts.SegLen, "seglen", "w", frm.DefaultOptions.SegLen, "segment length for Piecewise Aggregate Approximation"),
		flagSet.IntVarP(&opts.Alphabet, "alphabet", "a", frm.DefaultOptions.Alphabet, "SAX alphabet size (2-10)"),
		flagSet.IntVar(&opts.MinLen, "min-len", frm.DefaultOptions.MinLen, "minimal symbolic pattern length"),
		flagSet.IntVar(&opts.MaxLen, "max-len", frm.DefaultOptions.MaxLen, "maximal symbolic pattern length (0 = unbounded)"),
		flagSet.StringVarP(&opts.maxOverlap, "max-overlap", "mo", strconv.FormatFloat(frm.DefaultOptions.MaxOverlap, 'f', -1, 64), "maximal LCS overlap fraction before a pattern is pruned (1 disables pruning)"),
		flagSet.IntVarP(&opts.TopK, "top-k", "k", frm.DefaultOptions.TopK, "number of motifs to return (0 = all)"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&opts.Output, "output", "o", "", "output file to write discovered motifs"),
		flagSet.StringVarP(&opts.Format, "format", "f", DefaultFormat, "per-motif output line format ({{pattern}}, {{support}}, {{length}}, {{naed}}, {{series}})"),
		flagSet.StringVarP(&opts.ExportYaml, "export-yaml", "ey", "", "export motifs with prototypes and matches to a yaml file"),
		flagSet.BoolVarP(&opts.Verbose, "verbose", "v", false, "display verbose output"),
		flagSet.BoolVar(&opts.Silent, "silent", false, "display results only"),
		flagSet.CallbackVar(printVersion, "version", "display frm-miner version"),
	)

	flagSet.CreateGroup("config", "Config",
		flagSet.StringVar(&opts.Config, "config", "", `frm-miner cli config file (default '$HOME/.config/frm-miner/config.yaml')`),
	)

	flagSet.CreateGroup("update", "Update",
		flagSet.CallbackVarP(GetUpdateCallback(), "update", "up", "update frm-miner to latest version"),
		flagSet.BoolVarP(&opts.DisableUpdateCheck, "disable-update-check", "duc", false, "disable automatic frm-miner update check"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("Could not read flags: %s\n", err)
	}

	if opts.Config != "" {
		if err := flagSet.MergeConfigFile(opts.Config); err != nil {
			gologger.Error().Msgf("failed to read config file got %v", err)
		}
	}

	if opts.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	} else if opts.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	showBanner()

	if !opts.DisableUpdateCheck {
		latestVersion, err := updateutils.GetVersionCheckCallback("frm-miner")()
		if err != nil {
			if opts.Verbose {
				gologger.Error().Msgf("frm-miner version check failed: %v", err.Error())
			}
		} else {
			gologger.Info().Msgf("Current frm-miner version %v %v", version, updateutils.GetVersionDescription(version, latestVersion))
		}
	}

	var err error
	if opts.MinSup, err = strconv.ParseFloat(opts.minsup, 64); err != nil {
		gologger.Fatal().Msgf("Could not parse minsup: %s\n", err)
	}
	if opts.MaxOverlap, err = strconv.ParseFloat(opts.maxOverlap, 64); err != nil {
		gologger.Fatal().Msgf("Could not parse max-overlap: %s\n", err)
	}

	if len(opts.Input) == 0 && !fileutil.HasStdin() {
		gologger.Fatal().Msgf("frm-miner: no input found")
	}

	return opts
}

// Runner mines a dataset end to end and writes the ranked motifs.
type Runner struct {
	options *Options
	miner   *frm.Miner
}

func New(opts *Options) (*Runner, error) {
	miner, err := frm.New(&frm.Options{
		MinSup:     opts.MinSup,
		SegLen:     opts.SegLen,
		Alphabet:   opts.Alphabet,
		MinLen:     opts.MinLen,
		MaxLen:     opts.MaxLen,
		MaxOverlap: opts.MaxOverlap,
		TopK:       opts.TopK,
	})
	if err != nil {
		return nil, err
	}
	return &Runner{options: opts, miner: miner}, nil
}

func (r *Runner) Run() error {
	db, err := r.readDataset()
	if err != nil {
		return err
	}
	gologger.Info().Msgf("Loaded %d series", len(db))

	started := time.Now()
	motifs, err := r.miner.Mine(db)
	if err != nil {
		return err
	}
	gologger.Info().Msgf("Mined %d motifs in %v", len(motifs), time.Since(started))

	output, closer, err := getOutputWriter(r.options.Output)
	if err != nil {
		return err
	}
	defer closer()

	for _, motif := range motifs {
		line := frm.Replace(r.options.Format, motifValues(motif))
		if _, err := output.Write([]byte(line + "\n")); err != nil {
			return errorutil.NewWithErr(err).Msgf("failed to write motif output")
		}
	}

	if r.options.ExportYaml != "" {
		if err := exportYaml(motifs, r.options.ExportYaml); err != nil {
			return err
		}
		gologger.Info().Msgf("Exported %d motifs to %s", len(motifs), r.options.ExportYaml)
	}
	return nil
}

// readDataset reads one series per non-empty line from the input files, or
// from stdin when no files were given. Lines starting with '#' are skipped.
func (r *Runner) readDataset() ([][]float64, error) {
	var readers []io.Reader
	var closers []func() error
	for _, path := range r.options.Input {
		if !fileutil.FileExists(path) {
			return nil, errorutil.NewWithTag("frm", "dataset file %v does not exist", path)
		}
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		readers = append(readers, file)
		closers = append(closers, file.Close)
	}
	if len(readers) == 0 && fileutil.HasStdin() {
		readers = append(readers, os.Stdin)
	}
	defer func() {
		for _, close := range closers {
			_ = close()
		}
	}()

	var db [][]float64
	for _, reader := range readers {
		scanner := bufio.NewScanner(reader)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			series, err := parseSeries(line)
			if err != nil {
				return nil, err
			}
			db = append(db, series)
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// parseSeries splits one dataset line into float values. Commas,
// semicolons, tabs and spaces all work as separators so csv/tsv exports
// load without conversion.
func parseSeries(line string) ([]float64, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || r == '\t' || r == ' '
	})
	series := make([]float64, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errorutil.NewWithTag("frm", "invalid value %v in dataset: %v", field, err)
		}
		series = append(series, value)
	}
	return series, nil
}

func motifValues(motif *frm.Motif) map[string]interface{} {
	series := motif.Series()
	parts := make([]string, len(series))
	for x, i := range series {
		parts[x] = strconv.Itoa(i)
	}
	return map[string]interface{}{
		"pattern": motif.Pattern,
		"support": motif.Support(),
		"length":  motif.Length,
		"naed":    strconv.FormatFloat(motif.NAED, 'f', 6, 64),
		"series":  strings.Join(parts, ","),
	}
}

// motifExport is the yaml document written for downstream tooling.
type motifExport struct {
	Pattern     string      `yaml:"pattern"`
	Support     int         `yaml:"support"`
	Length      int         `yaml:"length"`
	NAED        float64     `yaml:"naed"`
	Prototype   []float64   `yaml:"prototype"`
	BestMatches map[int]int `yaml:"best_matches"`
	Indexes     map[int][]int `yaml:"indexes"`
}

func exportYaml(motifs []*frm.Motif, path string) error {
	exports := make([]motifExport, len(motifs))
	for x, motif := range motifs {
		exports[x] = motifExport{
			Pattern:     motif.Pattern,
			Support:     motif.Support(),
			Length:      motif.Length,
			NAED:        motif.NAED,
			Prototype:   motif.Prototype,
			BestMatches: motif.BestMatches,
			Indexes:     motif.Indexes,
		}
	}
	bin, err := yaml.Marshal(exports)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bin, 0644)
}

// getOutputWriter returns the destination for motif lines and a closer
// that is a no-op for stdout.
func getOutputWriter(outputPath string) (io.Writer, func(), error) {
	if outputPath == "" {
		return os.Stdout, func() {}, nil
	}
	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, nil, errorutil.NewWithErr(err).Msgf("failed to open output file %v", outputPath)
	}
	return file, func() { _ = file.Close() }, nil
}

func printVersion() {
	gologger.Info().Msgf("Current version: %s", version)
	os.Exit(0)
}
