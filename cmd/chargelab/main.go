package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/rmalhotra/chargelab/internal/config"
	"github.com/rmalhotra/chargelab/internal/engine"
	"github.com/rmalhotra/chargelab/internal/store"
	"github.com/rmalhotra/chargelab/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	particles   int
	duration    float64
	rate        float64
	seed        int64
	forceScale  float64
	damping     float64
	restitution float64
	timeScale   float64
	positive    float64
	negative    float64
	neutral     float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chargelab",
		Short: "electrostatic particle simulation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, []string{"gas"})
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".chargelab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a headless simulation and record statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  runScene,
	}
	addSimFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "time", 10.0, "simulated duration (seconds)")
	runCmd.Flags().Float64Var(&rate, "rate", 60.0, "tick rate (ticks per second)")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run's energy series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run statistics to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return store.New(dataDir).ExportCSV(args[0], os.Stdout)
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run statistics to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return store.New(dataDir).ExportJSON(args[0], os.Stdout)
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "particle count (electrons for the atom scene)")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().Float64Var(&forceScale, "force-scale", config.DefaultForceScale, "Coulomb force constant k")
	cmd.Flags().Float64Var(&damping, "damping", config.DefaultDamping, "per-tick velocity damping")
	cmd.Flags().Float64Var(&restitution, "restitution", config.DefaultRestitution, "boundary bounce restitution")
	cmd.Flags().Float64Var(&timeScale, "time-scale", config.DefaultTimeScale, "simulated time multiplier")
	cmd.Flags().Float64Var(&positive, "positive", -1, "probability of +1 charge (overrides preset)")
	cmd.Flags().Float64Var(&negative, "negative", -1, "probability of -1 charge (overrides preset)")
	cmd.Flags().Float64Var(&neutral, "neutral", -1, "probability of 0 charge (overrides preset)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "named preset configuration")
}

// buildConfig merges preset, config file, and flags, in that order of
// increasing precedence (matching how the run command resolves its inputs).
func buildConfig(cmd *cobra.Command, scene string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := preset
	if name == "" {
		if p := config.GetPreset(scene); p != nil {
			cfg = p
		}
	} else {
		p := config.GetPreset(name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("particles") {
		cfg.Particles = particles
	}
	if cmd.Flags().Changed("force-scale") {
		cfg.ForceScale = forceScale
	}
	if cmd.Flags().Changed("damping") {
		cfg.Damping = damping
	}
	if cmd.Flags().Changed("restitution") {
		cfg.Restitution = restitution
	}
	if cmd.Flags().Changed("time-scale") {
		cfg.TimeScale = timeScale
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("positive") {
		cfg.Mix.Positive = positive
	}
	if cmd.Flags().Changed("negative") {
		cfg.Mix.Negative = negative
	}
	if cmd.Flags().Changed("neutral") {
		cfg.Mix.Neutral = neutral
	}

	return cfg, cfg.Validate()
}

func setupScene(eng *engine.Engine, cfg *config.Config, scene string) error {
	if scene == "atom" {
		return eng.InitializeAtom(cfg.Particles)
	}
	return eng.Initialize(cfg.Particles, cfg.Mix)
}

func runScene(cmd *cobra.Command, args []string) error {
	scene := args[0]

	cfg, err := buildConfig(cmd, scene)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}
	if err := setupScene(eng, cfg, scene); err != nil {
		return err
	}

	fmt.Printf("running %s scene (%d particles, k=%.0f)...\n", scene, eng.Count(), cfg.ForceScale)
	start := time.Now()

	// Synthetic clock: a fixed tick rate stands in for the display loop.
	step := 1.0 / rate
	ticks := int(duration / step)
	series := make([]store.Sample, 0, ticks)

	eng.Start(0)
	now := 0.0
	for i := 0; i < ticks; i++ {
		now += step
		eng.Tick(now)
		series = append(series, store.Sample{Time: now, Summary: eng.Stats()})
	}
	elapsed := time.Since(start)

	runID, err := st.Save(scene, cfg.Seed, eng.Count(), cfg.ForceScale, duration, series)
	if err != nil {
		return err
	}

	fmt.Printf("completed %d ticks in %v\n", ticks, elapsed)
	fmt.Printf("run id: %s\n\n", runID)

	s := eng.Stats()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tKINETIC\tPOTENTIAL\tTOTAL\tAVG SPEED")
	fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\t%.4f\n",
		s.ParticleCount, s.KineticEnergy, s.PotentialEnergy, s.TotalEnergy, s.AverageSpeed)
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	scene := "gas"
	if len(args) > 0 {
		scene = args[0]
	}

	cfg, err := buildConfig(cmd, scene)
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}
	if err := setupScene(eng, cfg, scene); err != nil {
		return err
	}

	m := viz.NewModel(eng, scene, cfg.Particles)
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tPARTICLES\tDURATION\tK")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1fs\t%.0f\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Duration,
			run.ForceScale,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(series))

	curves := []struct {
		name string
		pick func(store.Sample) float64
	}{
		{"kinetic energy", func(s store.Sample) float64 { return s.Summary.KineticEnergy }},
		{"potential energy", func(s store.Sample) float64 { return s.Summary.PotentialEnergy }},
		{"total energy", func(s store.Sample) float64 { return s.Summary.TotalEnergy }},
		{"average speed", func(s store.Sample) float64 { return s.Summary.AverageSpeed }},
	}

	for _, c := range curves {
		data := make([]float64, len(series))
		for i, smp := range series {
			data[i] = c.pick(smp)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(c.name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}
