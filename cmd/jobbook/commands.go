package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/jobbook/internal/app"
	"github.com/MrJamesThe3rd/jobbook/internal/config"
	"github.com/MrJamesThe3rd/jobbook/internal/http/auth"
	"github.com/MrJamesThe3rd/jobbook/internal/importer"
)

const flushTimeout = 30 * time.Second

var errNoSecret = errors.New("AUTH_JWT_SECRET is not set")

type opener func(ctx context.Context) (*app.App, error)

// session opens and loads the App before a command runs and saves whatever
// the command changed afterwards.
type session struct {
	open opener
	app  *app.App
}

func (s *session) start(cmd *cobra.Command, _ []string) error {
	a, err := s.open(cmd.Context())
	if err != nil {
		return fmt.Errorf("opening collections: %w", err)
	}

	a.Load(cmd.Context())
	s.app = a

	return nil
}

func (s *session) finish(_ *cobra.Command, _ []string) error {
	if s.app == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	return errors.Join(s.app.Flush(ctx), s.app.Close())
}

func newRootCmd(open opener) *cobra.Command {
	s := &session{open: open}

	root := &cobra.Command{
		Use:                "jobbook",
		Short:              "Manage clients, jobs and invoices from the command line",
		SilenceUsage:       true,
		PersistentPreRunE:  s.start,
		PersistentPostRunE: s.finish,
	}

	root.AddCommand(
		newStatusCmd(s),
		newImportCmd(s),
		newExportCmd(s),
		newLearnCmd(s),
		newSuggestCmd(s),
		newTokenCmd(),
	)

	return root
}

func newStatusCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show record counts and sync state of each collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := s.app.Status()

			for _, c := range []app.StoreStatus{st.Clients, st.Jobs, st.Descriptions} {
				fmt.Fprintf(cmd.OutOrStdout(), "%-13s %4d records  loaded=%t saved=%t\n", c.Name, c.Records, c.Loaded, c.Saved)
			}

			return nil
		},
	}
}

func newImportCmd(s *session) *cobra.Command {
	var opts importer.Options

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import jobs from a spreadsheet export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			res, err := s.app.Imports.Import(data, opts)
			if err != nil {
				return err
			}

			for _, c := range res.CreatedClients {
				fmt.Fprintf(cmd.OutOrStdout(), "created client %q\n", c.Name)
			}

			for _, sk := range res.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "skipped line %d (%s): %s\n", sk.Line, sk.ClientName, sk.Reason)
			}

			verb := "imported"
			if opts.DryRun {
				verb = "would import"
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %d jobs\n", verb, len(res.Jobs))

			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.CreateClients, "create-clients", false, "add unknown clients instead of skipping their rows")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report what would be imported without saving")

	return cmd
}

func newExportCmd(s *session) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a zip archive with the collections and pending invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				output = fmt.Sprintf("export_%s.zip", time.Now().Format("20060102"))
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}

			summary, err := s.app.Exports.Write(f)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}

			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d clients, %d jobs, %d invoices\n",
				output, summary.Clients, summary.Jobs, len(summary.Items))

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "archive path (default export_YYYYMMDD.zip)")

	return cmd
}

func newLearnCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "learn PATTERN PREFERRED",
		Short: "Rewrite descriptions containing PATTERN to PREFERRED on import",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := s.app.Matching.Learn(args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "mapping %d: %q -> %q\n", m.ID, m.Pattern, m.Preferred)

			return nil
		},
	}
}

func newSuggestCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest RAW",
		Short: "Show the preferred description for RAW",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preferred := s.app.Matching.Suggest(args[0])
			if preferred == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no match")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), preferred)

			return nil
		},
	}
}

// newTokenCmd issues a bearer token for the API. It only needs the
// configured secret, so it skips opening the collections.
func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	noop := func(*cobra.Command, []string) error { return nil }

	cmd := &cobra.Command{
		Use:                "token",
		Short:              "Print a signed API bearer token",
		Args:               cobra.NoArgs,
		PersistentPreRunE:  noop,
		PersistentPostRunE: noop,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if cfg.Auth.JWTSecret == "" {
				return errNoSecret
			}

			tok, err := auth.GenerateToken(subject, []byte(cfg.Auth.JWTSecret), ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), tok)

			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "jobbook", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
