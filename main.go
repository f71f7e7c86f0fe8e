package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/schollz/multitake/internal/config"
	"github.com/schollz/multitake/internal/controller"
	"github.com/schollz/multitake/internal/framestore"
	"github.com/schollz/multitake/internal/input"
	"github.com/schollz/multitake/internal/kinds"
	"github.com/schollz/multitake/internal/model"
	"github.com/schollz/multitake/internal/storage"
	"github.com/schollz/multitake/internal/views"
)

var (
	Version = "dev"

	// Environment defaults, overridden by flags
	cfg = config.Load()

	// Command-line only settings
	opts struct {
		debug      string
		dump       string // Path to file for periodic terminal dumps
		noAutoSave bool
		noColor    bool
	}
)

// DumpTickMsg triggers periodic dumps to file
type DumpTickMsg struct{}

var rootCmd = &cobra.Command{
	Use:   "multitake",
	Short: "Record and replay layered takes of timestamped data",
	Long: `Multitake records timestamped streams into takes on disk and plays
them back in sync against a shared clock, the way a multitrack recorder
layers audio.

Features:
• Points, audio, levels, MIDI, image and OSC takes
• Groups with nested time offsets
• Loop marker with complete-on-loop overdubs
• Preview takes that monitor without writing
• Session manifest restored on startup`,
	Version: Version,
	Run:     runMultitake,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfg.Dir, "dir", "p", cfg.Dir,
		"Directory for takes and the session manifest")
	pf.StringVarP(&cfg.Kind, "kind", "k", cfg.Kind,
		fmt.Sprintf("Kind of new takes (%v)", kinds.Names()))
	pf.IntVar(&cfg.FPS, "fps", cfg.FPS,
		"Update/draw ticks per second")
	pf.Float64Var(&cfg.Loop, "loop", cfg.Loop,
		"Loop marker in seconds (0 disables)")
	pf.BoolVar(&cfg.CompleteOnLoop, "complete-on-loop", cfg.CompleteOnLoop,
		"Complete pending takes each time the loop marker fires")
	pf.IntVar(&cfg.OSCPort, "osc-port", cfg.OSCPort,
		"UDP port to capture OSC messages from (0 disables)")
	pf.StringVar(&cfg.OSCForward, "osc-forward", cfg.OSCForward,
		"host:port to send played back OSC messages to")
	pf.StringVarP(&opts.debug, "log", "l", "",
		"Write debug logs to specified file (empty disables)")
	pf.BoolVar(&opts.noAutoSave, "no-autosave", false,
		"Do not write the session manifest")

	rootCmd.Flags().StringVarP(&opts.dump, "dump", "d", "",
		"Write terminal frames to specified file every 10 seconds (empty disables)")
	rootCmd.Flags().BoolVar(&opts.noColor, "no-color", false,
		"Render without colours")

	rootCmd.AddCommand(recordCmd, playCmd, inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging sends the standard logger to path, or discards it.
func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "debug")
	if err != nil {
		return nil, err
	}
	// Set log flags to include file and line number for clickable links
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	return func() { f.Close() }, nil
}

// session is everything one run of the program works on.
type session struct {
	ctl     *controller.Controller
	reg     *kinds.Registry
	sources *kinds.Sources
}

// openSession builds the controller over cfg.Dir and restores the manifest
// found there. Flags given explicitly win over the restored settings.
func openSession(cmd *cobra.Command) (*session, error) {
	sources, err := kinds.NewSources(cfg)
	if err != nil {
		return nil, fmt.Errorf("sources: %w", err)
	}
	ctl := controller.New(framestore.NewFS(cfg.Dir),
		controller.WithLoopMarker(cfg.Loop),
		controller.WithCompleteOnLoop(cfg.CompleteOnLoop))
	s := &session{ctl: ctl, reg: kinds.NewRegistry(sources), sources: sources}

	m, err := storage.Load(cfg.Dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("No session manifest in %s", cfg.Dir)
	case err != nil:
		log.Printf("Error loading session manifest: %v", err)
	default:
		if err := ctl.Restore(m, s.reg.Open); err != nil {
			log.Printf("Error restoring takes: %v", err)
		}
		if cmd.Flags().Changed("loop") {
			ctl.Clock().SetLoopMarker(cfg.Loop)
		}
		if cmd.Flags().Changed("complete-on-loop") {
			ctl.SetCompleteOnLoop(cfg.CompleteOnLoop)
		}
	}
	return s, nil
}

func (s *session) close() {
	if err := s.sources.Close(); err != nil {
		log.Printf("Error closing sources: %v", err)
	}
}

func runMultitake(cmd *cobra.Command, args []string) {
	closeLog, err := setupLogging(opts.debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	log.Println("Debug logging enabled")

	if opts.noColor || opts.dump != "" {
		views.DisableColor()
	}

	s, err := openSession(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(1)
	}
	defer s.close()

	tm := initialModel(s, opts.dump)
	if tm.dumpFile != nil {
		defer func() {
			if err := tm.dumpFile.Close(); err != nil {
				log.Printf("Error closing dump file: %v", err)
			}
		}()
	}
	p := tea.NewProgram(tm, tea.WithAltScreen())
	setupCleanupOnExit(p)
	if _, err := p.Run(); err != nil {
		log.Printf("Error: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	tm.model.Flush()
}

func initialModel(s *session, dumpPath string) *TrackerModel {
	m := model.NewModel(s.ctl, s.reg, cfg.Dir, cfg.Kind, cfg.FPS, !opts.noAutoSave)
	m.Status = fmt.Sprintf("%d takes in %s", len(m.Tracks()), cfg.Dir)
	tm := &TrackerModel{model: m}

	// Open dump file if path is provided
	if dumpPath != "" {
		f, err := os.Create(dumpPath)
		if err != nil {
			log.Printf("Error opening dump file %s: %v", dumpPath, err)
		} else {
			tm.dumpFile = f
			log.Printf("Terminal dump enabled: writing to %s every 10 seconds", dumpPath)
		}
	}
	return tm
}

// TrackerModel wraps the model and implements the tea.Model interface
type TrackerModel struct {
	model    *model.Model
	dumpFile *os.File
}

// tickDump schedules the next DumpTickMsg for periodic dumps
func tickDump() tea.Cmd {
	return tea.Tick(10*time.Second, func(time.Time) tea.Msg {
		return DumpTickMsg{}
	})
}

func (tm *TrackerModel) Init() tea.Cmd {
	cmds := []tea.Cmd{input.StartTicking(tm.model)}
	if tm.dumpFile != nil {
		cmds = append(cmds, tickDump())
	}
	return tea.Batch(cmds...)
}

func (tm *TrackerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		tm.model.TermHeight = msg.Height
		tm.model.TermWidth = msg.Width
		return tm, nil

	case input.TickMsg:
		// One controller frame, then schedule the next against the start time
		return tm, input.AdvancePlayback(tm.model)

	case DumpTickMsg:
		if tm.dumpFile != nil {
			timestamp := time.Now().Format("2006-01-02 15:04:05")
			fmt.Fprintf(tm.dumpFile, "\n=== Frame at %s ===\n", timestamp)
			fmt.Fprintf(tm.dumpFile, "%s\n", tm.View())
			tm.dumpFile.Sync()
		}
		return tm, tickDump()

	case tea.KeyMsg:
		return tm, input.HandleKeyInput(tm.model, msg)
	}

	return tm, nil
}

func (tm *TrackerModel) View() string {
	return views.Render(tm.model)
}

// setupCleanupOnExit asks the program to quit on SIGTERM/SIGQUIT so the
// session is flushed from the main goroutine after Run returns.
func setupCleanupOnExit(p *tea.Program) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-c
		log.Printf("Signal received, quitting")
		p.Quit()
	}()
}
