package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"relicpanel/internal/app"
	"relicpanel/internal/db"
	"relicpanel/internal/models"
	"relicpanel/internal/speech"
	"relicpanel/internal/voices"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the speech engine's voices and the panel assignment",
	RunE:  runVoices,
}

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Print the feature cards",
	RunE:  runCards,
}

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show past discussion runs",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "number of runs to show (0 for all)")
	rootCmd.AddCommand(voicesCmd, cardsCmd, runsCmd)
}

func runVoices(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := app.NewEngine(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	if err := engine.Probe(ctx); err != nil {
		return fmt.Errorf("%w: %v", speech.ErrUnsupported, err)
	}
	list, err := engine.Voices(ctx)
	if err != nil {
		return err
	}

	roster := cfg.Roster()
	assigner := voices.New(cfg.Speech.Language, cfg.Discussion.Preferences, zerolog.Nop())
	assigner.Assign(roster, list)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICIPANT\tVOICE\tLANG")
	for _, p := range roster.All() {
		v := assigner.VoiceFor(p.Name)
		if v == nil {
			fmt.Fprintf(w, "%s\t(engine default)\t%s\n", p.Name, cfg.Speech.Language)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, v.Name, v.Lang)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d voices, %d matching %s\n", len(list), countMatching(list, cfg.Speech.Language), cfg.Speech.Language)
	return nil
}

func countMatching(list []speech.Voice, lang string) int {
	n := 0
	for _, v := range list {
		if speech.MatchesLanguage(v.Lang, lang) {
			n++
		}
	}
	return n
}

func runCards(cmd *cobra.Command, args []string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", models.ProjectTitle)
	for i, f := range models.DefaultFeatures() {
		fmt.Fprintf(&sb, "## %d. %s\n\n%s\n\n", i+1, f.Title, f.Summary)
		for _, d := range f.Details {
			fmt.Fprintf(&sb, "- %s\n", d)
		}
		sb.WriteString("\n")
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	out, err := r.Render(sb.String())
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store.Disabled {
		return app.ErrNoStore
	}
	path, err := cfg.StorePath()
	if err != nil {
		return err
	}
	store, err := db.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No discussions yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tTOPIC\tLINES\tDURATION\tEND")
	for _, r := range runs {
		reason := r.EndReason
		if r.Running() {
			reason = "running"
		}
		topic := r.Topic
		if topic == "" {
			topic = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), topic, r.Lines, r.Duration().Round(time.Second), reason)
	}
	return w.Flush()
}
