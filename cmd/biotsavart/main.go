package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vuthalab/biot-savart/internal/coilgen"
	"github.com/vuthalab/biot-savart/internal/coilio"
	"github.com/vuthalab/biot-savart/internal/config"
	"github.com/vuthalab/biot-savart/internal/geometry"
	"github.com/vuthalab/biot-savart/internal/grid"
	"github.com/vuthalab/biot-savart/internal/plotting"
	"github.com/vuthalab/biot-savart/internal/server"
	"github.com/vuthalab/biot-savart/internal/solver"
	"github.com/vuthalab/biot-savart/internal/storage"
	"github.com/vuthalab/biot-savart/internal/tui"
	"github.com/vuthalab/biot-savart/internal/viz"
)

var log = logrus.New()

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	// solve
	coilFiles []string
	coilRes   float64
	volRes    float64
	boxSize   []float64
	startPt   []float64
	workers   int

	// coil generation
	genCenter   []float64
	genRadius   float64
	genWidth    float64
	genHeight   float64
	genSpacing  float64
	genCurrent  float64
	genSegments int
	genAxis     string
	genOut      string

	// probe / plot / serve
	probeAt   []float64
	probeClmp bool
	plotAxis  string
	plotIndex int
	plotComp  string
	plotPNG   string
	plotLine  bool
	serveAddr string
	exportOut string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "biotsavart",
		Short: "magnetostatic field solver for arbitrary coil geometries",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	solveCmd := &cobra.Command{
		Use:   "solve [name]",
		Short: "solve the field of one or more coils",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	solveCmd.Flags().StringSliceVar(&coilFiles, "coil", nil, "coil geometry file (repeatable)")
	solveCmd.Flags().Float64Var(&coilRes, "coil-res", config.DefaultCoilResolution, "target subsegment length (cm)")
	solveCmd.Flags().Float64Var(&volRes, "vol-res", config.DefaultVolumeResolution, "grid spacing (cm)")
	solveCmd.Flags().Float64SliceVar(&boxSize, "box", []float64{config.DefaultBoxSize, config.DefaultBoxSize, config.DefaultBoxSize}, "box size x,y,z (cm)")
	solveCmd.Flags().Float64SliceVar(&startPt, "start", []float64{-config.DefaultBoxSize / 2, -config.DefaultBoxSize / 2, -config.DefaultBoxSize / 2}, "volume offset x,y,z (cm)")
	solveCmd.Flags().IntVar(&workers, "workers", 0, "kernel goroutines (0 = all cpus)")
	solveCmd.Flags().StringVar(&configFile, "config", "", "solve config file (yaml)")
	solveCmd.Flags().StringVar(&preset, "preset", "", "named solve preset ("+strings.Join(config.ListPresets(), "|")+")")

	coilCmd := &cobra.Command{
		Use:   "coil [rectangle|loop|helmholtz|antihelmholtz]",
		Short: "generate a canonical coil geometry file",
		Args:  cobra.ExactArgs(1),
		RunE:  runCoil,
	}
	coilCmd.Flags().Float64SliceVar(&genCenter, "center", []float64{0, 0, 0}, "coil center x,y,z (cm)")
	coilCmd.Flags().Float64Var(&genRadius, "radius", 5, "loop radius (cm)")
	coilCmd.Flags().Float64Var(&genWidth, "width", 10, "rectangle width (cm)")
	coilCmd.Flags().Float64Var(&genHeight, "height", 10, "rectangle height (cm)")
	coilCmd.Flags().Float64Var(&genSpacing, "spacing", 5, "pair spacing (cm)")
	coilCmd.Flags().Float64Var(&genCurrent, "current", 1, "current (A)")
	coilCmd.Flags().IntVar(&genSegments, "segments", 90, "polygon segments per loop")
	coilCmd.Flags().StringVar(&genAxis, "axis", "z", "coil normal axis")
	coilCmd.Flags().StringVar(&genOut, "out", "coil", "output file prefix")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored solves",
		RunE:  runList,
	}

	probeCmd := &cobra.Command{
		Use:   "probe [run_id]",
		Short: "look up the field vector at a physical point",
		Args:  cobra.ExactArgs(1),
		RunE:  runProbe,
	}
	probeCmd.Flags().Float64SliceVar(&probeAt, "at", nil, "coordinate x,y,z (cm)")
	probeCmd.Flags().BoolVar(&probeClmp, "clamp", false, "clamp out-of-box coordinates to the volume edge")
	probeCmd.MarkFlagRequired("at")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a slice of a stored field",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlot,
	}
	plotCmd.Flags().StringVar(&plotAxis, "axis", "z", "slice normal axis")
	plotCmd.Flags().IntVar(&plotIndex, "index", -1, "slice index (-1 = middle)")
	plotCmd.Flags().StringVar(&plotComp, "component", "mag", "field component (bx|by|bz|mag)")
	plotCmd.Flags().StringVar(&plotPNG, "png", "", "write a png instead of terminal output")
	plotCmd.Flags().BoolVar(&plotLine, "profile", false, "plot a line profile through the slice center")

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "browse a stored field interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  runView,
	}

	serveCmd := &cobra.Command{
		Use:   "serve [run_id]",
		Short: "serve field slices over websocket",
		Args:  cobra.ExactArgs(1),
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8847", "listen address")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored field as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")

	rootCmd.AddCommand(solveCmd, coilCmd, listCmd, probeCmd, plotCmd, viewCmd, serveCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func solveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (have %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("coil") {
		cfg.Coils = coilFiles
	}
	if cmd.Flags().Changed("coil-res") {
		cfg.CoilResolution = coilRes
	}
	if cmd.Flags().Changed("vol-res") {
		cfg.VolumeResolution = volRes
	}
	if cmd.Flags().Changed("box") {
		if err := copyVec(cfg.BoxSize[:], boxSize, "box"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("start") {
		if err := copyVec(cfg.StartPoint[:], startPt, "start"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	return cfg, cfg.Validate()
}

func copyVec(dst []float64, src []float64, name string) error {
	if len(src) != 3 {
		return fmt.Errorf("--%s needs 3 components, got %d", name, len(src))
	}
	copy(dst, src)
	return nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := solveConfig(cmd)
	if err != nil {
		return err
	}
	if len(cfg.Coils) == 0 {
		return fmt.Errorf("no coil files given (use --coil or a config file)")
	}

	coils := make([]geometry.Coil, 0, len(cfg.Coils))
	for _, path := range cfg.Coils {
		coil, err := coilio.ParseFile(path)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"file":     path,
			"vertices": len(coil),
			"length":   fmt.Sprintf("%.2f cm", coil.Length()),
		}).Info("loaded coil")
		coils = append(coils, coil)
	}

	g, err := cfg.Grid()
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"grid":    fmt.Sprintf("%dx%dx%d", g.Nx, g.Ny, g.Nz),
		"spacing": cfg.VolumeResolution,
	}).Info("evaluation grid built")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := &solver.Solver{CoilResolution: cfg.CoilResolution, Workers: cfg.Workers}
	res, err := s.SolveAll(ctx, coils, g)
	if err != nil {
		return err
	}

	if res.Stats.Suppressed > 0 {
		log.WithField("samples", res.Stats.Suppressed).
			Warn("grid points coincided with the wire; contributions suppressed")
	}

	store := storage.New(cfg.DataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(args[0], cfg.Coils, cfg.CoilResolution, res)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"run":      runID,
		"elements": res.Stats.FineElements,
		"elapsed":  res.Stats.Elapsed.Round(time.Millisecond),
		"peak":     fmt.Sprintf("%.4g T", res.Field.MaxNorm()),
	}).Info("field solved")
	return nil
}

func runCoil(cmd *cobra.Command, args []string) error {
	axis, ok := geometry.ParseAxis(genAxis)
	if !ok {
		return fmt.Errorf("bad axis %q", genAxis)
	}
	var center [3]float64
	if err := copyVec(center[:], genCenter, "center"); err != nil {
		return err
	}
	c := geometry.Vec3{X: center[0], Y: center[1], Z: center[2]}

	write := func(path string, coil geometry.Coil) error {
		if err := coilio.WriteFile(path, coil); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"file": path, "vertices": len(coil)}).Info("wrote coil")
		return nil
	}

	switch args[0] {
	case "rectangle":
		return write(genOut+".txt", coilgen.Rectangle(c, genWidth, genHeight, axis, genCurrent))
	case "loop":
		return write(genOut+".txt", coilgen.Loop(c, genRadius, axis, genCurrent, genSegments))
	case "helmholtz":
		a, b := coilgen.HelmholtzPair(c, genRadius, genSpacing, axis, genCurrent, genSegments)
		if err := write(genOut+"_a.txt", a); err != nil {
			return err
		}
		return write(genOut+"_b.txt", b)
	case "antihelmholtz":
		a, b := coilgen.AntiHelmholtzPair(c, genRadius, genSpacing, axis, genCurrent, genSegments)
		if err := write(genOut+"_a.txt", a); err != nil {
			return err
		}
		return write(genOut+"_b.txt", b)
	default:
		return fmt.Errorf("unknown coil type %q", args[0])
	}
}

func runList(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tGRID\tCOIL RES\tELEMENTS\tSOLVED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%dx%dx%d\t%g\t%d\t%s\n",
			r.ID, r.Grid.Nx, r.Grid.Ny, r.Grid.Nz,
			r.CoilResolution, r.FineElements,
			r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func runProbe(cmd *cobra.Command, args []string) error {
	var at [3]float64
	if err := copyVec(at[:], probeAt, "at"); err != nil {
		return err
	}
	p := geometry.Vec3{X: at[0], Y: at[1], Z: at[2]}

	field, _, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}

	var b geometry.Vec3
	if probeClmp {
		b = field.VectorAtClamped(p)
	} else {
		b, err = field.VectorAt(p)
		if err != nil {
			return err
		}
	}

	fmt.Printf("B(%g, %g, %g) = (%.6g, %.6g, %.6g) T  |B| = %.6g T\n",
		p.X, p.Y, p.Z, b.X, b.Y, b.Z, b.Norm())
	return nil
}

func plotTarget() (geometry.Axis, grid.Component, error) {
	axis, ok := geometry.ParseAxis(plotAxis)
	if !ok {
		return 0, 0, fmt.Errorf("bad axis %q", plotAxis)
	}
	comp, ok := grid.ParseComponent(plotComp)
	if !ok {
		return 0, 0, fmt.Errorf("bad component %q", plotComp)
	}
	return axis, comp, nil
}

func middleIndex(g *grid.Grid, axis geometry.Axis) int {
	switch axis {
	case geometry.AxisX:
		return g.Nx / 2
	case geometry.AxisY:
		return g.Ny / 2
	default:
		return g.Nz / 2
	}
}

func runPlot(cmd *cobra.Command, args []string) error {
	axis, comp, err := plotTarget()
	if err != nil {
		return err
	}

	field, _, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}

	idx := plotIndex
	if idx < 0 {
		idx = middleIndex(field.Grid, axis)
	}

	if plotPNG != "" {
		if err := plotting.SavePNG(plotPNG, field, axis, idx, comp); err != nil {
			return err
		}
		log.WithField("file", plotPNG).Info("wrote plot")
		return nil
	}

	if plotLine {
		fmt.Println(viz.RenderProfile(field, axis,
			field.Grid.Nx/2, field.Grid.Ny/2, field.Grid.Nz/2, comp, 12))
		return nil
	}

	out, err := viz.RenderSlice(field, axis, idx, comp)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	field, meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	return tui.Run(field, meta)
}

func runServe(cmd *cobra.Command, args []string) error {
	field, meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	return server.New(serveAddr, field, meta, log).Serve()
}

func runExport(cmd *cobra.Command, args []string) error {
	field, _, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}

	if exportOut == "" {
		return storage.ExportCSV(os.Stdout, field)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := storage.ExportCSV(f, field); err != nil {
		return err
	}
	log.WithField("file", exportOut).Info("exported field")
	return nil
}
