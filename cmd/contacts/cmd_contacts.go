package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jask/contacts/internal/config"
	"github.com/jask/contacts/internal/database"
	"github.com/jask/contacts/internal/database/repository"
	"github.com/jask/contacts/internal/tui"
)

// listCmd prints contacts matching an optional query, in sidebar order.
var listCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "Print contacts, optionally filtered",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		contacts, err := st.svc.List(cmd.Context(), query)
		if err != nil {
			return err
		}
		return writeContacts(cmd.OutOrStdout(), contacts)
	},
}

func writeContacts(out io.Writer, contacts []repository.Contact) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTWITTER\tFAVORITE")
	for _, c := range contacts {
		name := strings.TrimSpace(c.First + " " + c.Last)
		if name == "" {
			name = tui.NoNameLabel
		}
		fav := ""
		if c.Favorite {
			fav = "★"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, name, c.Twitter, fav)
	}
	return w.Flush()
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.svc.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

var seedFile string

// seedCmd upserts a roster file, or the built-in roster when the table is empty.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load contacts from a .yaml or .toml roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		if seedFile == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "default roster ensured")
			return nil
		}
		contacts, err := database.LoadSeedFile(seedFile)
		if err != nil {
			return err
		}
		n, err := database.Seed(cmd.Context(), st.db, contacts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d contacts from %s\n", n, seedFile)
		return nil
	},
}

var configWrite bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the config file path, or write the effective config with --write",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !configWrite {
			fmt.Fprintln(cmd.OutOrStdout(), config.Path())
			return nil
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", config.Path())
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Roster file (.yaml, .yml or .toml)")
	configCmd.Flags().BoolVar(&configWrite, "write", false, "Write the effective config to the config path")
}
