package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"suspensim/internal/analysis"
	"suspensim/internal/batch"
	"suspensim/internal/config"
	"suspensim/internal/control"
	"suspensim/internal/integrators"
	"suspensim/internal/metrics"
	"suspensim/internal/optim"
	"suspensim/internal/qcar"
	"suspensim/internal/road"
	"suspensim/internal/signal"
	"suspensim/internal/sim"
	"suspensim/internal/store"
	"suspensim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	dt         float64
	delaySteps int
	integrator string
	controller string

	// road source
	csvPath  string
	column   string
	roadKind string
	duration float64
	height   float64
	freq     float64

	// plot
	plotField    string
	plotSpectrum bool

	// score
	outPath string

	showPlot bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "suspensim",
		Short: "semi-active quarter-car suspension simulator and scorer",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".suspensim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate one road profile",
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	addRoadFlags(runCmd)
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot body displacement after the run")

	scoreCmd := &cobra.Command{
		Use:   "score [road_profiles.csv]",
		Short: "score every profile in a file, write a submission",
		Args:  cobra.ExactArgs(1),
		RunE:  scoreProfiles,
	}
	addConfigFlags(scoreCmd)
	scoreCmd.Flags().StringVar(&outPath, "out", "submission.csv", "submission output path")

	tuneCmd := &cobra.Command{
		Use:   "tune [road_profiles.csv]",
		Short: "grid-search controller gains against a profile set",
		Args:  cobra.ExactArgs(1),
		RunE:  tuneGains,
	}
	addConfigFlags(tuneCmd)

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotField, "field", "disp", "trace field: disp, accel, force, jerk")
	plotCmd.Flags().BoolVar(&plotSpectrum, "spectrum", false, "plot the acceleration power spectrum")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "simulate with a live terminal view",
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	addRoadFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, scoreCmd, tuneCmd, plotCmd, liveCmd, listCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset configuration name")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step (s)")
	cmd.Flags().IntVar(&delaySteps, "delay", config.DefaultDelaySteps, "actuator delay (steps)")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator: euler, heun, rk4")
	cmd.Flags().StringVar(&controller, "controller", config.DefaultController, "controller: skyhook, passive")
}

func addRoadFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&csvPath, "csv", "", "road profile csv path")
	cmd.Flags().StringVar(&column, "column", "", "profile column to simulate (default: first)")
	cmd.Flags().StringVar(&roadKind, "road", "step", "synthetic road: step, sine, bump, flat")
	cmd.Flags().Float64Var(&duration, "time", 10.0, "synthetic road duration (s)")
	cmd.Flags().Float64Var(&height, "height", 0.05, "step/bump height or sine amplitude (m)")
	cmd.Flags().Float64Var(&freq, "freq", 1.5, "sine frequency (Hz)")
}

// resolveConfig applies preset, then config file, then explicit flags,
// in increasing precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("delay") {
		cfg.DelaySteps = delaySteps
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("controller") {
		cfg.Controller = controller
	}

	return cfg, nil
}

func buildSimulator(cfg *config.Config) (*sim.Simulator, error) {
	model, err := qcar.NewModel(cfg.Params())
	if err != nil {
		return nil, err
	}

	integ, err := integrators.ByName(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	ctrl, err := buildController(cfg)
	if err != nil {
		return nil, err
	}

	filter, err := signal.NewBandPass(cfg.Filter.AccelLowHz, cfg.Filter.AccelHighHz, cfg.Dt)
	if err != nil {
		return nil, fmt.Errorf("acceleration filter: %w", err)
	}

	s := sim.New(model, integ, ctrl, filter)
	s.AddMetric(metrics.NewControlEffort())
	s.AddMetric(metrics.NewSuspensionTravel())
	s.AddMetric(metrics.NewRoadHolding())
	return s, nil
}

func buildController(cfg *config.Config) (control.Controller, error) {
	switch cfg.Controller {
	case "skyhook":
		return control.NewSkyhook(cfg.Params(), cfg.ControlGains(),
			cfg.Filter.BodyCutoffHz, cfg.Filter.WheelCutoffHz, cfg.Dt)
	case "passive":
		return control.NewPassive(cfg.Gains.Passive, cfg.Params())
	default:
		return nil, fmt.Errorf("unknown controller: %s (skyhook, passive)", cfg.Controller)
	}
}

func buildProfile(cfg *config.Config) (string, road.Profile, error) {
	if csvPath != "" {
		named, err := road.LoadCSV(csvPath, cfg.Dt)
		if err != nil {
			return "", nil, err
		}
		if column == "" {
			return named[0].Name, named[0].Profile, nil
		}
		for _, n := range named {
			if n.Name == column {
				return n.Name, n.Profile, nil
			}
		}
		return "", nil, fmt.Errorf("column %q not found in %s", column, csvPath)
	}

	n := int(duration / cfg.Dt)
	switch roadKind {
	case "step":
		return "step", road.StepInput(n, cfg.Dt, height, 1.0), nil
	case "sine":
		return "sine", road.Sine(n, cfg.Dt, height, freq), nil
	case "bump":
		return "bump", road.Bump(n, cfg.Dt, height, 1.0, 0.5), nil
	case "flat":
		return "flat", road.Flat(n, cfg.Dt, 0), nil
	default:
		return "", nil, fmt.Errorf("unknown road kind: %s (step, sine, bump, flat)", roadKind)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	name, profile, err := buildProfile(cfg)
	if err != nil {
		return err
	}

	s, err := buildSimulator(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %s (%d steps, dt=%g)...\n", name, len(profile), cfg.Dt)
	start := time.Now()

	result, err := s.Run(context.Background(), nil, profile, cfg.SimConfig())
	if err != nil {
		return err
	}

	score, err := metrics.ScoreTrace(result.Records, cfg.MetricWeights())
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(name, cfg.Dt, cfg.Integrator, cfg.Controller, result, score)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("run id: %s\n\n", runID)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "comfort score\t%.6f\n", score.Total)
	for _, key := range []string{"rms_zs", "max_zs", "rms_jerk", "max_jerk"} {
		fmt.Fprintf(w, "%s\t%.6f\n", key, score.Components[key])
	}
	for metric, val := range result.Metrics {
		fmt.Fprintf(w, "%s\t%.6f\n", metric, val)
	}
	w.Flush()

	if showPlot {
		fmt.Println()
		printTracePlot(result.Records, "disp")
	}

	return nil
}

func scoreProfiles(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	named, err := road.LoadCSV(args[0], cfg.Dt)
	if err != nil {
		return err
	}

	jobs := make([]batch.Job, len(named))
	for i, n := range named {
		jobs[i] = batch.Job{Name: n.Name, Profile: n.Profile}
	}

	runner := batch.New(func() (*sim.Simulator, error) {
		return buildSimulator(cfg)
	}, cfg.SimConfig(), cfg.MetricWeights())

	outcomes, err := runner.Run(context.Background(), jobs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "profile\tcomfort score")
	for _, o := range outcomes {
		fmt.Fprintf(w, "%s\t%.4f\n", o.Name, o.Score.Total)
	}
	w.Flush()

	if err := store.WriteSubmission(outPath, outcomes); err != nil {
		return err
	}
	fmt.Printf("\nwrote %s\n", outPath)
	return nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	named, err := road.LoadCSV(args[0], cfg.Dt)
	if err != nil {
		return err
	}
	jobs := make([]batch.Job, len(named))
	for i, n := range named {
		jobs[i] = batch.Job{Name: n.Name, Profile: n.Profile}
	}

	base := cfg.ControlGains()
	scales := []float64{0.6, 0.8, 1.0, 1.2, 1.4}
	grid := func(v float64) []float64 {
		out := make([]float64, len(scales))
		for i, s := range scales {
			out[i] = v * s
		}
		return out
	}

	search := optim.NewGridSearch(
		[]string{"skyhook_lf", "skyhook_hf", "ground", "accel"},
		[][]float64{grid(base.SkyhookLF), grid(base.SkyhookHF), grid(base.Ground), grid(base.Accel)},
	)

	evaluate := func(ctx context.Context, params map[string]float64) (float64, error) {
		trial := *cfg
		trial.Gains.SkyhookLF = params["skyhook_lf"]
		trial.Gains.SkyhookHF = params["skyhook_hf"]
		trial.Gains.Ground = params["ground"]
		trial.Gains.Accel = params["accel"]

		runner := batch.New(func() (*sim.Simulator, error) {
			return buildSimulator(&trial)
		}, trial.SimConfig(), trial.MetricWeights())

		outcomes, err := runner.Run(ctx, jobs)
		if err != nil {
			return 0, err
		}

		total := 0.0
		for _, o := range outcomes {
			total += o.Score.Total
		}
		return total, nil
	}

	fmt.Printf("searching %d combinations over %d profiles...\n",
		len(scales)*len(scales)*len(scales)*len(scales), len(jobs))

	bestParams, bestCost, err := search.Search(context.Background(), evaluate)
	if err != nil {
		return err
	}
	if bestParams == nil {
		return fmt.Errorf("no gain combination produced a valid score")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "total cost\t%.4f\n", bestCost)
	for _, name := range []string{"skyhook_lf", "skyhook_hf", "ground", "accel"} {
		fmt.Fprintf(w, "%s\t%.1f\n", name, bestParams[name])
	}
	w.Flush()
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\tprofile\tintegrator\tcontroller\tsteps\tscore\ttimestamp")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.4f\t%s\n",
			r.ID, r.Profile, r.Integrator, r.Controller, r.Steps, r.Score,
			r.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	records, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("run %s has an empty trace", args[0])
	}

	fmt.Printf("%s (%s, %s/%s, score %.4f)\n\n",
		meta.ID, meta.Profile, meta.Integrator, meta.Controller, meta.Score)

	if plotSpectrum {
		accel := make([]float64, len(records))
		for i, rec := range records {
			accel[i] = rec.SprungAccel
		}
		ps := analysis.PowerSpectrum(accel)
		freqs := analysis.Frequencies(len(accel), meta.Dt)

		// ride comfort lives below ~25 Hz; crop the plot there
		cut := len(ps)
		for i, f := range freqs {
			if f > 25 {
				cut = i
				break
			}
		}
		fmt.Println(asciigraph.Plot(ps[:cut], asciigraph.Height(14), asciigraph.Width(76),
			asciigraph.Caption("sprung acceleration spectrum (0–25 Hz)")))
		return nil
	}

	printTracePlot(records, plotField)
	return nil
}

func printTracePlot(records []sim.StepRecord, field string) {
	series := make([]float64, len(records))
	caption := ""
	for i, rec := range records {
		switch field {
		case "accel":
			series[i] = rec.SprungAccel
			caption = "sprung acceleration (m/s²)"
		case "force":
			series[i] = rec.Force
			caption = "damper force (N)"
		case "jerk":
			series[i] = rec.Jerk
			caption = "jerk (m/s³)"
		default:
			series[i] = rec.SprungDisp * 1000
			caption = "body displacement (mm)"
		}
	}
	fmt.Println(asciigraph.Plot(series, asciigraph.Height(14), asciigraph.Width(76),
		asciigraph.Caption(caption)))
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	_, profile, err := buildProfile(cfg)
	if err != nil {
		return err
	}

	s, err := buildSimulator(cfg)
	if err != nil {
		return err
	}

	feed := viz.NewFeed()
	s.AddObserver(feed)
	// pace the run so the view animates instead of finishing instantly
	s.AddObserver(&pacedObserver{interval: time.Second / 200})

	go func() {
		_, err := s.Run(context.Background(), nil, profile, cfg.SimConfig())
		feed.Finish(err)
	}()

	p := tea.NewProgram(viz.NewModel(feed))
	_, err = p.Run()
	return err
}

// pacedObserver sleeps a little each step so a short run remains watchable.
type pacedObserver struct {
	interval time.Duration
}

func (p *pacedObserver) OnStep(sim.StepRecord) {
	time.Sleep(p.interval)
}
