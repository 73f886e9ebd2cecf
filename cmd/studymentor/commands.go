package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeanpaul/studymentor/internal/config"
	"github.com/jeanpaul/studymentor/internal/export"
	"github.com/jeanpaul/studymentor/internal/health"
	"github.com/jeanpaul/studymentor/internal/provider"
	"github.com/jeanpaul/studymentor/internal/tui"
	"github.com/jeanpaul/studymentor/internal/types"
)

func askCmd() *cobra.Command {
	var providerName string
	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask one question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap()
			if err != nil {
				return err
			}
			defer e.Close()

			sess := e.openSession()
			defer sess.Close()

			if providerName != "" {
				kind, ok := types.ParseProviderKind(providerName)
				if !ok {
					return fmt.Errorf("unknown provider %q (want openai or gemini)", providerName)
				}
				sess.Provider = e.newProvider(kind)
			}

			question := strings.Join(args, " ")
			answer, err := tui.Wait(os.Stderr, "🤖 Thinking...", func() (string, error) {
				return sess.Ask(cmd.Context(), question)
			})
			if err != nil {
				return err
			}
			render := tui.NewRenderer(e.cfg.RenderMarkdown && tui.IsTerminal(os.Stdout), 80)
			fmt.Fprintln(cmd.OutOrStdout(), render.Render(answer))
			return nil
		},
	}
	cmd.Flags().StringVarP(&providerName, "provider", "p", "", "Provider to use for this question (openai, gemini)")
	return cmd
}

func exportCmd() *cobra.Command {
	var format, dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the conversation history to a text or Excel file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			e, err := bootstrap()
			if err != nil {
				return err
			}
			defer e.Close()

			if dir == "" {
				dir = e.cfg.ExportDir
			}
			path, err := export.Export(e.store.LoadHistory(), dir, f, time.Now())
			if errors.Is(err, export.ErrEmptyHistory) {
				fmt.Fprintln(cmd.OutOrStdout(), tui.WarnStyle.Render("⚠️ No history."))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.SuccessStyle.Render("Saved → "+path))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "txt", "Export format (txt, xlsx)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory for the export (default: export_dir)")
	return cmd
}

func exportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exports",
		Short: "List earlier history exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := bootstrap()
			if err != nil {
				return err
			}
			defer e.Close()

			files, err := export.List(e.cfg.ExportDir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), tui.HelpStyle.Render("No exports in "+e.cfg.ExportDir))
				return nil
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the counters saved by the last session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := bootstrap()
			if err != nil {
				return err
			}
			defer e.Close()

			st, ok := e.store.LoadStats()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), tui.HelpStyle.Render("No statistics saved yet."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.StatsView(st))
			return nil
		},
	}
}

func doctorCmd() *cobra.Command {
	var (
		probe        bool
		openaiModels []string
		geminiModels []string
	)
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the AI providers answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := bootstrap()
			if err != nil {
				return err
			}
			defer e.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tui.TitleStyle.Render("  Provider Health Check"))
			fmt.Fprintln(out)

			defaultKind := e.cfg.DefaultKind()
			defaultOK := false
			for _, kind := range types.Kinds() {
				label := kind.String()
				if kind == defaultKind {
					label += " (default)"
				}
				fmt.Fprintf(out, "  %s ... ", label)

				s := health.Check(cmd.Context(), e.newProvider(kind))
				printStatus(out, s)
				if s.Reachable && kind == defaultKind {
					defaultOK = true
				}

				if probe && s.Available {
					models := openaiModels
					if kind == types.Gemini {
						models = geminiModels
					}
					pc := e.cfg.ProviderFor(kind)
					results := health.ProbeModels(cmd.Context(), kind, provider.ResolveKey(kind), models,
						provider.WithBaseURL(pc.BaseURL))
					for _, r := range results {
						fmt.Fprintf(out, "      %s ... ", r.Model)
						printStatus(out, r)
					}
					if w, ok := health.Working(results); ok {
						fmt.Fprintf(out, "      %s\n", tui.SuccessStyle.Render("use model: "+w.Model))
					} else {
						fmt.Fprintf(out, "      %s\n", tui.WarnStyle.Render("no probed model answered"))
					}
				}
			}

			fmt.Fprintln(out)
			if !defaultOK {
				return fmt.Errorf("default provider %s is not answering", defaultKind)
			}
			fmt.Fprintln(out, tui.SuccessStyle.Render("  Default provider is ready."))
			return nil
		},
	}
	cmd.Flags().BoolVar(&probe, "probe", false, "Also try a list of models with each configured key")
	cmd.Flags().StringSliceVar(&openaiModels, "openai-models", nil, "OpenAI models to probe (default: a built-in list)")
	cmd.Flags().StringSliceVar(&geminiModels, "gemini-models", nil, "Gemini models to probe (default: a built-in list)")
	return cmd
}

func printStatus(out io.Writer, s health.Status) {
	switch {
	case s.Reachable:
		fmt.Fprintf(out, "%s %s\n", tui.SuccessStyle.Render("ok"),
			tui.HelpStyle.Render(fmt.Sprintf("(%s, %s) %s", s.Model, s.Latency.Round(time.Millisecond), s.Answer)))
	default:
		fmt.Fprintf(out, "%s %s\n", tui.ErrorStyle.Render("failed"), tui.HelpStyle.Render(s.Error))
	}
}

func configCmd() *cobra.Command {
	var (
		write bool
		force bool
		path  string
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration, or write it to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loadEnvFiles()
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			if !write {
				data, err := cfg.YAML()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if path == "" {
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			if err := cfg.WriteFile(path, force); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.SuccessStyle.Render("Wrote "+path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "Write the configuration instead of printing it")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.Flags().StringVar(&path, "path", "", "Destination for --write (default: user config dir)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "studymentor %s (%s)\n", version, commit)
		},
	}
}
