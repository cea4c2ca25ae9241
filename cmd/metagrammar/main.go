// Command metagrammar parses and validates textual grammars against the
// meta-parser engine, and manages grammars persisted in the registry.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/cmr/meta/internal/config"
	"github.com/cmr/meta/internal/metagrammar"
	"github.com/cmr/meta/internal/registry"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metagrammar",
		Short: "Parse, validate and persist data-driven grammars",
	}
	cmd.AddCommand(parseCommand())
	cmd.AddCommand(validateCommand())
	cmd.AddCommand(registryCommand())
	return cmd
}

func loadTable(grammarFile string) (*metagrammar.Table, error) {
	src, err := os.ReadFile(grammarFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar file %s: %w", grammarFile, err)
	}
	table, err := metagrammar.CompileText(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to compile grammar %s: %w", grammarFile, err)
	}
	return table, nil
}

func parseCommand() *cobra.Command {
	var (
		grammarFile string
		root        string
	)

	cmd := &cobra.Command{
		Use:   "parse <input-file>",
		Short: "Parse an input file against a grammar and print its event stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if grammarFile == "" {
				return fmt.Errorf("--grammar is required")
			}
			if root == "" {
				return fmt.Errorf("--root is required")
			}

			table, err := loadTable(grammarFile)
			if err != nil {
				return err
			}

			inputBytes, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read input file %s: %w", args[0], err)
			}

			events, err := metagrammar.Parse(table, root, []rune(string(inputBytes)))
			if err != nil {
				return fmt.Errorf("parse failed: %w", err)
			}

			for _, e := range events {
				printEvent(e)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&grammarFile, "grammar", "", "path to the textual grammar definition")
	cmd.Flags().StringVar(&root, "root", "", "name of the root rule to parse from")
	return cmd
}

func validateCommand() *cobra.Command {
	var grammarFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Compile and resolve a grammar without parsing any input",
		RunE: func(cmd *cobra.Command, args []string) error {
			if grammarFile == "" {
				return fmt.Errorf("--grammar is required")
			}
			if _, err := loadTable(grammarFile); err != nil {
				return err
			}
			fmt.Printf("%s: ok\n", grammarFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&grammarFile, "grammar", "", "path to the textual grammar definition")
	return cmd
}

func registryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Persist and inspect grammars stored in the registry",
	}
	cmd.AddCommand(registrySaveCommand())
	cmd.AddCommand(registryListCommand())
	cmd.AddCommand(registryGetCommand())
	return cmd
}

func openRegistryService() (*registry.Service, *sqlx.DB, error) {
	cfg := config.GetRegistryConfig()
	if cfg.Type != config.PostgresStore {
		return nil, nil, fmt.Errorf("registry commands require METAGRAMMAR_STORE_TYPE=postgres (or unset)")
	}

	db, err := sqlx.Open("postgres", cfg.ConnectionString)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to reach database: %w", err)
	}

	repo := registry.NewPostgresRepository(db)
	return registry.NewService(repo), db, nil
}

func registrySaveCommand() *cobra.Command {
	var version string

	cmd := &cobra.Command{
		Use:   "save <name> <file>",
		Short: "Compile and persist a grammar under name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, file := args[0], args[1]

			src, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read grammar file %s: %w", file, err)
			}

			svc, db, err := openRegistryService()
			if err != nil {
				return err
			}
			defer db.Close()

			rec, err := svc.Save(context.Background(), name, string(src), version)
			if err != nil {
				return err
			}
			fmt.Printf("saved %q (version %s, id %s)\n", rec.Name, rec.Version, rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "1", "version label for the saved grammar")
	return cmd
}

func registryListCommand() *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List grammars stored in the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, db, err := openRegistryService()
			if err != nil {
				return err
			}
			defer db.Close()

			recs, err := svc.List(context.Background(), activeOnly)
			if err != nil {
				return fmt.Errorf("failed to list grammars: %w", err)
			}
			for _, r := range recs {
				fmt.Printf("%s\tv%s\tactive=%t\t%s\n", r.Name, r.Version, r.Active, r.ID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active-only", true, "only list active grammars")
	return cmd
}

func registryGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Print the stored source of a grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, db, err := openRegistryService()
			if err != nil {
				return err
			}
			defer db.Close()

			rec, err := svc.GetByName(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(rec.Source)
			return nil
		},
	}
	return cmd
}

func printEvent(e metagrammar.Event) {
	switch e.Kind {
	case metagrammar.StartNode:
		fmt.Printf("StartNode %s %s\n", e.Name, e.Range)
	case metagrammar.EndNode:
		fmt.Printf("EndNode %s\n", e.Range)
	case metagrammar.BoolProp:
		fmt.Printf("Bool %s=%t %s\n", e.Property, e.Bool, e.Range)
	case metagrammar.F64Prop:
		fmt.Printf("F64 %s=%g %s\n", e.Property, e.F64, e.Range)
	case metagrammar.StringProp:
		fmt.Printf("String %s=%q %s\n", e.Property, e.Str, e.Range)
	}
}
