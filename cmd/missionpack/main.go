package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/nexusfield/missionpack/internal/batch"
	"github.com/nexusfield/missionpack/internal/config"
	"github.com/nexusfield/missionpack/internal/constraint"
	"github.com/nexusfield/missionpack/internal/logging"
	"github.com/nexusfield/missionpack/internal/manifest"
	"github.com/nexusfield/missionpack/internal/metrics"
	"github.com/nexusfield/missionpack/internal/optimizer"
)

func main() {
	app := kingpin.New("missionpack", "Mission-Packing Optimizer - selects the item subset maximizing mission utility under packing limits")
	configFile := app.Flag("config", "Path to YAML configuration file").String()
	itemsFile := app.Flag("items", "Path to a candidate-item manifest (YAML or JSON)").String()
	presetName := app.Flag("preset", "Constraint preset name").String()
	durationHours := app.Flag("duration", "Mission duration in hours, used to select a preset").Default("0").Int()
	maxWeight := app.Flag("max-weight", "Override the preset's weight budget in kg").Default("-1").Float64()
	maxVolume := app.Flag("max-volume", "Override the preset's volume budget in liters").Default("-1").Float64()
	maxItems := app.Flag("max-items", "Override the preset's item count limit (0 for unbounded)").Default("-1").Int()
	required := app.Flag("require", "Category that must appear in the selection (repeatable)").Strings()
	deadline := app.Flag("deadline", "Optional solve deadline; the exact path falls back to the heuristic when exceeded").Duration()
	batchFile := app.Flag("batch", "Path to a YAML batch-jobs file; overrides --items").String()
	listPresets := app.Flag("list-presets", "Print the registered constraint presets and exit").Bool()
	pretty := app.Flag("pretty", "Indent the JSON output").Bool()
	exactPoolLimit := app.Flag("exact-pool-limit", "Largest remaining pool solved exactly").Default("-1").Int()
	weightBuckets := app.Flag("weight-buckets", "DP weight discretization bucket count").Default("-1").Int()
	swapBudget := app.Flag("swap-budget", "Local-search swap budget for the heuristic").Default("-1").Int()
	concurrency := app.Flag("batch-concurrency", "Concurrent solves in batch mode").Default("-1").Int()
	rateLimitRPS := app.Flag("rate-limit-rps", "Batch solve starts per second (0 to disable)").Default("-1").Float64()
	rateLimitBurst := app.Flag("rate-limit-burst", "Burst capacity for the batch throttle").Default("-1").Int()
	debug := app.Flag("debug", "Enable debug logging").Bool()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{ConfigFile: *configFile}
	if *exactPoolLimit >= 0 {
		overrides.ExactPoolLimit = exactPoolLimit
	}
	if *weightBuckets >= 0 {
		overrides.WeightBuckets = weightBuckets
	}
	if *swapBudget >= 0 {
		overrides.SwapBudget = swapBudget
	}
	if *concurrency >= 0 {
		overrides.Concurrency = concurrency
	}
	if *rateLimitRPS >= 0 {
		overrides.RateLimitRPS = rateLimitRPS
	}
	if *rateLimitBurst >= 0 {
		overrides.RateLimitBurst = rateLimitBurst
	}
	if *debug {
		overrides.Debug = debug
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		app.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		app.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	registry := constraint.NewRegistry()
	if *listPresets {
		if err := printPresets(registry, *pretty); err != nil {
			logger.Fatal("failed to print presets", zap.Error(err))
		}
		return
	}

	opt := optimizer.New(registry,
		optimizer.WithLogger(logger),
		optimizer.WithMetrics(metrics.New(prometheus.NewRegistry())),
		optimizer.WithWeights(cfg.Scoring),
		optimizer.WithSolverOptions(cfg.Solver),
	)

	ctx := context.Background()
	if *deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *deadline)
		defer cancel()
	}

	if *batchFile != "" {
		if err := runBatch(ctx, *batchFile, opt, cfg, logger, *pretty); err != nil {
			logger.Fatal("batch run failed", zap.Error(err))
		}
		return
	}

	if *itemsFile == "" {
		app.Fatalf("either --items or --batch is required")
	}

	items, err := manifest.LoadFile(*itemsFile)
	if err != nil {
		logger.Fatal("failed to load manifest", zap.Error(err))
	}

	req := optimizer.Request{
		Items:         items,
		Preset:        *presetName,
		DurationHours: *durationHours,
		Overrides:     constraintOverrides(*maxWeight, *maxVolume, *maxItems, *required),
	}
	if req.Preset == "" && req.Overrides != nil {
		// Explicit bounds without a preset form a standalone constraints
		// object.
		req.Constraints = explicitConstraints(*maxWeight, *maxVolume, *maxItems, *required, *durationHours)
		req.Overrides = nil
		req.DurationHours = 0
	}

	result, err := opt.Optimize(ctx, req)
	if err != nil {
		logger.Fatal("optimization failed", zap.Error(err))
	}
	if err := writeJSON(os.Stdout, result, *pretty); err != nil {
		logger.Fatal("failed to encode result", zap.Error(err))
	}
}

// constraintOverrides converts set CLI bound flags into a partial override,
// or nil when no bound flag was given.
func constraintOverrides(maxWeight, maxVolume float64, maxItems int, required []string) *constraint.Overrides {
	overrides := &constraint.Overrides{}
	touched := false
	if maxWeight >= 0 {
		overrides.MaxWeight = &maxWeight
		touched = true
	}
	if maxVolume >= 0 {
		overrides.MaxVolume = &maxVolume
		touched = true
	}
	if maxItems >= 0 {
		overrides.MaxItems = &maxItems
		touched = true
	}
	if len(required) > 0 {
		for _, name := range required {
			overrides.RequiredCategories = append(overrides.RequiredCategories, manifest.Category(name))
		}
		touched = true
	}
	if !touched {
		return nil
	}
	return overrides
}

func explicitConstraints(maxWeight, maxVolume float64, maxItems int, required []string, durationHours int) *constraint.Constraints {
	c := &constraint.Constraints{
		MaxWeight:            maxWeight,
		MaxVolume:            maxVolume,
		MissionDurationHours: durationHours,
	}
	if maxItems >= 0 {
		c.MaxItems = maxItems
	}
	for _, name := range required {
		c.RequiredCategories = append(c.RequiredCategories, manifest.Category(name))
	}
	return c
}

// batchJobsFile is the on-disk shape of a batch run.
type batchJobsFile struct {
	Jobs []batchJobSpec `yaml:"jobs"`
}

type batchJobSpec struct {
	ID            string `yaml:"id"`
	Preset        string `yaml:"preset"`
	DurationHours int    `yaml:"duration_hours"`
	ItemsFile     string `yaml:"items_file"`
}

// batchOutcome is the JSON shape of one batch job result.
type batchOutcome struct {
	JobID  string            `json:"job_id"`
	Error  string            `json:"error,omitempty"`
	Result *optimizer.Result `json:"result,omitempty"`
}

func runBatch(ctx context.Context, path string, opt *optimizer.Optimizer, cfg config.Config, logger *zap.Logger, pretty bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read batch file: %w", err)
	}
	var file batchJobsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse batch file: %w", err)
	}
	if len(file.Jobs) == 0 {
		return fmt.Errorf("batch file %s contains no jobs", path)
	}

	jobs := make([]batch.Job, 0, len(file.Jobs))
	for _, spec := range file.Jobs {
		items, err := manifest.LoadFile(spec.ItemsFile)
		if err != nil {
			return fmt.Errorf("job %q: %w", spec.ID, err)
		}
		jobs = append(jobs, batch.Job{
			ID: spec.ID,
			Request: optimizer.Request{
				Items:         items,
				Preset:        spec.Preset,
				DurationHours: spec.DurationHours,
			},
		})
	}

	runner := batch.NewRunner(opt,
		batch.WithConcurrency(cfg.Concurrency),
		batch.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		batch.WithLogger(logger),
	)
	start := time.Now()
	outcomes, err := runner.Run(ctx, jobs)
	if err != nil {
		return err
	}
	logger.Info("batch complete",
		zap.Int("jobs", len(outcomes)),
		zap.Duration("elapsed", time.Since(start)),
	)

	output := make([]batchOutcome, 0, len(outcomes))
	for i := range outcomes {
		entry := batchOutcome{JobID: outcomes[i].ID}
		if outcomes[i].Err != nil {
			entry.Error = outcomes[i].Err.Error()
		} else {
			entry.Result = &outcomes[i].Result
		}
		output = append(output, entry)
	}
	return writeJSON(os.Stdout, output, pretty)
}

// presetListing is the JSON shape of --list-presets output.
type presetListing struct {
	Name        string              `json:"name"`
	Constraints presetBoundsListing `json:"constraints"`
}

type presetBoundsListing struct {
	MaxWeight            float64                     `json:"max_weight"`
	MaxVolume            float64                     `json:"max_volume"`
	MaxItems             int                         `json:"max_items"`
	RequiredCategories   []manifest.Category         `json:"required_categories,omitempty"`
	CategoryMinimums     map[manifest.Category]int   `json:"category_minimums,omitempty"`
	CategoryMaximums     map[manifest.Category]int   `json:"category_maximums,omitempty"`
	MissionDurationHours int                         `json:"mission_duration_hours"`
}

func printPresets(registry *constraint.Registry, pretty bool) error {
	listings := make([]presetListing, 0)
	for _, name := range registry.Names() {
		preset, err := registry.Resolve(name)
		if err != nil {
			return err
		}
		listings = append(listings, presetListing{
			Name: name,
			Constraints: presetBoundsListing{
				MaxWeight:            preset.MaxWeight,
				MaxVolume:            preset.MaxVolume,
				MaxItems:             preset.MaxItems,
				RequiredCategories:   preset.SortedRequiredCategories(),
				CategoryMinimums:     preset.CategoryMinimums,
				CategoryMaximums:     preset.CategoryMaximums,
				MissionDurationHours: preset.MissionDurationHours,
			},
		})
	}
	return writeJSON(os.Stdout, listings, pretty)
}

func writeJSON(w *os.File, payload any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(payload)
}
