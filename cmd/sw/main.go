package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/sitework/internal/datasource"
	"github.com/vanderheijden86/sitework/pkg/config"
	"github.com/vanderheijden86/sitework/pkg/export"
	"github.com/vanderheijden86/sitework/pkg/loader"
	"github.com/vanderheijden86/sitework/pkg/schedule"
	"github.com/vanderheijden86/sitework/pkg/ui"
	"github.com/vanderheijden86/sitework/pkg/version"
	"github.com/vanderheijden86/sitework/pkg/watcher"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	dir := flag.String("dir", "", "Project root (defaults to the current directory)")
	exportPath := flag.String("export", "", "Render a snapshot to this path and exit")
	exportFormat := flag.String("format", "", "Snapshot format: svg or png (default: inferred from path)")
	exportTitle := flag.String("title", "", "Snapshot title (default: project name)")
	exportPreset := flag.String("preset", "compact", "Snapshot layout preset: compact or roomy")
	noWatch := flag.Bool("no-watch", false, "Disable live reload")
	flag.Parse()

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: sw [options]")
		fmt.Println("\nA Gantt viewer for construction schedules.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("sw %s\n", version.Version)
		os.Exit(0)
	}

	siteDir, err := loader.GetSiteDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error locating project: %v\n", err)
		fmt.Fprintln(os.Stderr, "Make sure a .sitework directory with project.json or project.db exists.")
		os.Exit(1)
	}

	// Headless snapshot export: no TUI, no watcher.
	if *exportPath != "" {
		if err := runExport(siteDir, *exportPath, *exportFormat, *exportTitle, *exportPreset); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *exportPath)
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "stdout is not a terminal; use --export to render a snapshot instead")
		os.Exit(1)
	}

	// Config is advisory; missing or broken files fall back to defaults.
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = config.DefaultConfig()
	}

	var w *watcher.Watcher
	if !*noWatch {
		w, err = watcher.NewProjectWatcher(siteDir)
		if err == nil {
			if err := w.Start(); err != nil {
				w = nil
			}
		} else {
			w = nil
		}
	}
	if w != nil {
		defer w.Stop()
	}

	m := ui.NewModel(siteDir, w).WithConfig(cfg)
	if err := runTUIProgram(m); err != nil {
		fmt.Printf("Error running sitework viewer: %v\n", err)
		os.Exit(1)
	}
}

func runExport(siteDir, path, format, title, preset string) error {
	project, warnings, err := datasource.LoadProject(siteDir)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %v\n", w)
	}

	sched, err := schedule.Compute(project.WorkItems, project.Dependencies)
	if err != nil {
		return fmt.Errorf("scheduling: %w", err)
	}

	return export.SaveGanttSnapshot(export.GanttSnapshotOptions{
		Path:     path,
		Format:   format,
		Title:    title,
		Preset:   preset,
		Project:  project,
		Schedule: sched,
	})
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set SW_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("SW_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
			return nil
		}
	}
	return err
}
