package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pbaille/calmday/internal/api"
	"github.com/pbaille/calmday/internal/classifier"
	"github.com/pbaille/calmday/internal/config"
	"github.com/pbaille/calmday/internal/domain"
	"github.com/pbaille/calmday/internal/explain"
	"github.com/pbaille/calmday/internal/fetcher"
	"github.com/pbaille/calmday/internal/logging"
	"github.com/pbaille/calmday/internal/render"
	"github.com/pbaille/calmday/internal/scheduler"
	"github.com/pbaille/calmday/internal/sensory"
	"github.com/pbaille/calmday/internal/session"
	"github.com/pbaille/calmday/internal/speech"
	"github.com/pbaille/calmday/internal/store"
	"github.com/pbaille/calmday/internal/templates"
	"github.com/pbaille/calmday/internal/tui"
	"github.com/pbaille/calmday/internal/watcher"
)

var (
	cfgPath string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "calmday",
		Short: "Visual daily schedules for neurodivergent children",
		Long: `calmday turns a caregiver's plain-text day plan into an ordered set of
visual cards, with a sensory balance summary and a short explanation of why
the order helps.

Run without arguments to start the interactive shell.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			cfg = c

			// The interactive shell owns the terminal; only log to files.
			if isInteractive(cmd) && !logsToFile(cfg.Logging) {
				logger = zap.NewNop()
				return nil
			}
			logger, err = logging.New(cfg.Logging, verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", config.FileName, "config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(generateCmd())
	root.AddCommand(classifyCmd())
	root.AddCommand(templatesCmd())
	root.AddCommand(reorderCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(watchCmd())
	root.AddCommand(tuiCmd())
	root.AddCommand(sayCmd())
	root.AddCommand(exportCmd())

	return root
}

func isInteractive(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "tui"
}

func logsToFile(c config.LoggingConfig) bool {
	for _, p := range c.OutputPaths {
		if p != "stderr" && p != "stdout" {
			return true
		}
	}
	return false
}

// inputFlags selects where the day plan text comes from
type inputFlags struct {
	file     string
	url      string
	stdin    bool
	template string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read the plan from a file")
	cmd.Flags().StringVar(&f.url, "url", "", "extract the plan from a web page")
	cmd.Flags().BoolVar(&f.stdin, "stdin", false, "read the plan from stdin")
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "start from a template (name or number)")
}

// read resolves the plan text. Arguments are one activity each.
func (f *inputFlags) read(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case f.template != "":
		t, ok := templates.Find(f.template)
		if !ok {
			return "", fmt.Errorf("unknown template: %s", f.template)
		}
		return t.Activities, nil
	case f.stdin:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case f.file != "":
		data, err := os.ReadFile(f.file)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return string(data), nil
	case f.url != "":
		return fetchPlan(f.url)
	case len(args) == 1 && fetcher.IsURL(args[0]):
		return fetchPlan(args[0])
	}
	return strings.Join(args, "\n"), nil
}

func fetchPlan(url string) (string, error) {
	logger.Debug("fetching plan", zap.String("url", url))
	text, err := fetcher.Fetch(url)
	if err != nil {
		return "", fmt.Errorf("fetch plan: %w", err)
	}
	return text, nil
}

// profileFlags override the configured caregiver profile
type profileFlags struct {
	age     string
	day     string
	sensory string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.age, "age", "", "child age range (e.g. 6-8)")
	cmd.Flags().StringVar(&f.day, "day", "", "day type (e.g. School Day)")
	cmd.Flags().StringVar(&f.sensory, "sensory", "", "sensory profile (e.g. Low Stimulation)")
}

func (f *profileFlags) profile() domain.CaregiverProfile {
	p := cfg.Profile
	if f.age != "" {
		p.AgeRange = f.age
	}
	if f.day != "" {
		p.DayType = f.day
	}
	if f.sensory != "" {
		p.SensoryProfile = f.sensory
	}
	return p
}

// outputFlags select how a schedule is printed
type outputFlags struct {
	json       bool
	plain      bool
	reflection bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.json, "json", false, "print JSON")
	cmd.Flags().BoolVar(&f.plain, "plain", false, "print plain cards without styling")
	cmd.Flags().BoolVar(&f.reflection, "reflection", false, "include the end-of-day reflection")
}

func (f *outputFlags) print(w io.Writer, s domain.Schedule, p domain.CaregiverProfile, clf *classifier.Classifier) error {
	r := render.Report{
		Schedule:     s,
		Summary:      sensory.Summarize(s, clf),
		Explanations: explain.Explain(s, p, clf),
		Reflection:   f.reflection,
	}

	switch {
	case f.json:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode schedule: %w", err)
		}
	case f.plain:
		fmt.Fprint(w, render.Cards(s, func(e domain.ActivityEntry) float64 { return sensory.EntryLoad(e, clf) }))
	default:
		fmt.Fprint(w, render.Terminal(render.Markdown(r), 80))
	}
	return nil
}

func generateCmd() *cobra.Command {
	var (
		in  inputFlags
		pf  profileFlags
		out outputFlags
	)

	cmd := &cobra.Command{
		Use:   "generate [activity...]",
		Short: "Build a visual schedule from a day plan",
		Example: `  calmday generate "Wake up, Breakfast, School, Play time, Homework"
  calmday generate --template "Low-Spoon Day" --plain
  calmday generate --file plan.txt --age 9-12 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := in.read(cmd, args)
			if err != nil {
				return err
			}

			clf := classifier.New()
			s := scheduler.Parse(text, clf)
			logger.Debug("schedule generated", zap.Int("entries", len(s)))
			return out.print(cmd.OutOrStdout(), s, pf.profile(), clf)
		},
	}

	in.register(cmd)
	pf.register(cmd)
	out.register(cmd)
	return cmd
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [label...]",
		Short: "Show the icon and sensory load for activity labels",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clf := classifier.New()
			for _, label := range args {
				r := clf.Classify(label)
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-24s %.1f  %s\n", r.Icon, label, r.SensoryLoad, sensory.BandFor(r.SensoryLoad))
			}
			return nil
		},
	}
}

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates [name]",
		Short: "List schedule templates or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 1 {
				t, ok := templates.Find(args[0])
				if !ok {
					return fmt.Errorf("unknown template: %s", args[0])
				}
				fmt.Fprintf(w, "%s\n\n%s\n", t.Name, t.Activities)
				return nil
			}

			for i, t := range templates.All() {
				fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, t.Name, templates.Preview(t))
			}
			return nil
		},
	}
}

func reorderCmd() *cobra.Command {
	var (
		in       inputFlags
		out      outputFlags
		from, to string
	)

	cmd := &cobra.Command{
		Use:   "reorder [activity...]",
		Short: "Move one card onto another card's position",
		Example: `  calmday reorder --from task-4 --to task-1 "Wake up, Breakfast, School, Homework, Play time"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := in.read(cmd, args)
			if err != nil {
				return err
			}

			clf := classifier.New()
			s := scheduler.Parse(text, clf)
			if s.Index(from) < 0 {
				return fmt.Errorf("unknown card: %s", from)
			}
			if s.Index(to) < 0 {
				return fmt.Errorf("unknown card: %s", to)
			}

			s = scheduler.Reorder(s, from, to)
			return out.print(cmd.OutOrStdout(), s, cfg.Profile, clf)
		},
	}

	in.register(cmd)
	out.register(cmd)
	cmd.Flags().StringVar(&from, "from", "", "id of the card to move")
	cmd.Flags().StringVar(&to, "to", "", "id of the card whose position it takes")
	for _, name := range []string{"from", "to"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Server.Addr
			}

			s, err := store.New(cfg.Store.Name)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.New(s, classifier.New(), logger, addr)
			server.SetShutdownTimeout(cfg.ShutdownTimeout())
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "server address (default from config)")
	return cmd
}

func watchCmd() *cobra.Command {
	var (
		pf  profileFlags
		out outputFlags
	)

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-render the schedule whenever a plan file is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clf := classifier.New()
			p := pf.profile()
			w := cmd.OutOrStdout()

			fw, err := watcher.New(args[0], cfg.DebounceDelay(), logger, func(text string) {
				if !out.json && !out.plain {
					fmt.Fprint(w, "\033[H\033[2J")
				}
				if err := out.print(w, scheduler.Parse(text, clf), p, clf); err != nil {
					logger.Warn("render failed", zap.Error(err))
				}
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return fw.Run(ctx)
		},
	}

	pf.register(cmd)
	out.register(cmd)
	return cmd
}

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}
}

func runTUI() error {
	m := tui.New(classifier.New(), newPlayer(), logger)
	if cfg.Profile != (domain.CaregiverProfile{}) {
		m = m.WithProfile(cfg.Profile)
	}
	return tui.Run(m)
}

func newPlayer() *speech.Player {
	sp, err := speech.NewCommandSpeaker(cfg.Speech.Command, cfg.Speech.Args...)
	if err != nil {
		logger.Debug("speech disabled", zap.Error(err))
		return speech.NewPlayer(nil, logger)
	}
	return speech.NewPlayer(sp, logger)
}

func sayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "say [text...]",
		Short: "Read text aloud with the configured speech program",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, err := speech.NewCommandSpeaker(cfg.Speech.Command, cfg.Speech.Args...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return sp.Speak(ctx, strings.Join(args, " "))
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export a printable schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), session.NoticeExport)
			return nil
		},
	}
}
