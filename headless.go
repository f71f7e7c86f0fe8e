package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/schollz/multitake/internal/framestore"
	"github.com/schollz/multitake/internal/model"
	"github.com/schollz/multitake/internal/storage"
)

var recordCmd = &cobra.Command{
	Use:   "record [seconds]",
	Short: "Record one take without the interface",
	Long: `Record a take of --kind for the given number of seconds (default 5)
while the existing takes play along, then save the session. Interrupt
to stop early; the take is kept.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecord,
}

var playCmd = &cobra.Command{
	Use:   "play [seconds]",
	Short: "Play the session back without the interface",
	Long: `Play every take in the session for the given number of seconds,
printing what each take presents once per second. Without an argument
playback runs to the end of the longest take.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List the takes stored in --dir",
	Args:  cobra.NoArgs,
	RunE:  runInspect,
}

func seconds(args []string, fallback float64) (float64, error) {
	if len(args) == 0 {
		return fallback, nil
	}
	d, err := strconv.ParseFloat(args[0], 64)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid duration %q", args[0])
	}
	return d, nil
}

// headlessLogging logs to stderr unless --log names a file.
func headlessLogging() (func(), error) {
	if opts.debug != "" {
		return setupLogging(opts.debug)
	}
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags)
	return func() {}, nil
}

// runFrames ticks the session at cfg.FPS for d seconds or until ctx ends.
// every is called once per wall second.
func runFrames(ctx context.Context, s *session, d float64, every func()) {
	interval := time.Second / time.Duration(max(cfg.FPS, 1))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.After(time.Duration(d * float64(time.Second)))
	lastReport := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			return
		case now := <-ticker.C:
			if err := s.ctl.Update(); err != nil {
				log.Printf("Error: %v", err)
			}
			if err := s.ctl.Draw(); err != nil {
				log.Printf("Error: %v", err)
			}
			if every != nil && now.Sub(lastReport) >= time.Second {
				lastReport = now
				every()
			}
		}
	}
}

func runRecord(cmd *cobra.Command, args []string) error {
	d, err := seconds(args, 5)
	if err != nil {
		return err
	}
	closeLog, err := headlessLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.ctl.Start()
	tr, err := s.reg.Record(s.ctl, cfg.Kind, false)
	if err != nil {
		return err
	}
	log.Printf("Recording %s (%s) for %.1fs", tr.Name(), tr.Kind(), d)
	runFrames(ctx, s, d, func() {
		log.Printf("%s: %d frames at %.2fs", tr.Name(), tr.FrameCount(), s.ctl.Playhead())
	})

	frames := tr.FrameCount()
	if dr, ok := tr.(interface{ Dropped() int }); ok && dr.Dropped() > 0 {
		log.Printf("%d frames dropped after the loop, use --complete-on-loop to keep every lap", dr.Dropped())
	}
	if err := s.ctl.CompleteRecorder(); err != nil {
		return err
	}
	s.ctl.Stop()
	if frames == 0 {
		log.Printf("Nothing captured, take discarded")
	} else {
		log.Printf("Recorded %s: %d frames", tr.Name(), frames)
	}
	if !opts.noAutoSave {
		return storage.Save(cfg.Dir, s.ctl.Snapshot())
	}
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	closeLog, err := headlessLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	tracks := s.ctl.Tracks()
	if len(tracks) == 0 {
		return fmt.Errorf("no takes in %s", cfg.Dir)
	}
	end := 0.0
	for _, t := range tracks {
		if _, e, ok := model.Span(t); ok {
			end = max(end, e)
		}
	}
	if marker, ok := s.ctl.Clock().LoopMarker(); ok {
		end = marker
	}
	d, err := seconds(args, end+1/float64(max(cfg.FPS, 1)))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	s.ctl.Start()
	runFrames(ctx, s, d, func() {
		fmt.Fprintf(out, "%6.2fs\n", s.ctl.Playhead())
		for _, t := range s.ctl.Tracks() {
			summary := "-"
			if mon := s.reg.Monitor(t.Name()); mon != nil {
				if text, n := mon.Summary(); n > 0 {
					summary = text
				}
			}
			fmt.Fprintf(out, "  %-10s %-6s %s\n", t.Name(), t.Kind(), summary)
		}
	})
	s.ctl.Stop()
	return nil
}

// takesTable summarises the index of every take on disk.
func takesTable(store framestore.Store, names []string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TAKE", "FRAMES", "START", "END")
	for _, name := range names {
		entries, err := store.ReadIndex(name)
		switch {
		case err != nil:
			t.Row(name, "-", "-", err.Error())
		case len(entries) == 0:
			t.Row(name, "0", "-", "-")
		default:
			t.Row(name, strconv.Itoa(len(entries)),
				fmt.Sprintf("%.3f", entries[0].Timestamp),
				fmt.Sprintf("%.3f", entries[len(entries)-1].Timestamp))
		}
	}
	return t.String()
}

func runInspect(cmd *cobra.Command, args []string) error {
	closeLog, err := headlessLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	store := framestore.NewFS(cfg.Dir)
	names, err := store.Tracks()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, takesTable(store, names))

	m, err := storage.Load(cfg.Dir)
	if err != nil {
		fmt.Fprintf(out, "\nno session manifest: %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "\nsession saved %s: %d groups, %d takes",
		m.SavedAt.Format(time.DateTime), len(m.Groups), m.TrackCount())
	if m.LoopMarker > 0 {
		fmt.Fprintf(out, ", loop %.2fs", m.LoopMarker)
	}
	fmt.Fprintln(out)
	for _, g := range m.Groups {
		fmt.Fprintf(out, "  %s %+.2fs\n", g.Name, g.Offset)
		for _, t := range g.Tracks {
			fmt.Fprintf(out, "    %-10s %-6s %+.2fs %d frames\n", t.Name, t.Kind, t.Offset, t.Frames)
		}
	}
	return nil
}
