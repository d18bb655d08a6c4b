package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/app/services"
	"github.com/yigit/campusrecords/internal/bootstrap"
	"github.com/yigit/campusrecords/internal/pkg/spreadsheet"
)

func migrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(opts.configPath)
			if err != nil {
				return err
			}
			database, err := bootstrap.OpenDatabase(cfg, lgr)
			if err != nil {
				return err
			}
			defer database.Close()

			return bootstrap.Migrate(cmd.Context(), database, lgr)
		},
	}
}

func exportCmd(opts *globalOptions) *cobra.Command {
	var (
		out    string
		tables []string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tables to an xlsx workbook",
		Long: `Export writes one sheet per table, named after the table.
Tables: courses, student, books, books_lended. All tables are exported when none is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := a.services.Exchange.Export(cmd.Context(), f, tables); err != nil {
				f.Close()
				os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully exported the data to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "campusrecords.xlsx", "Output workbook path")
	cmd.Flags().StringSliceVarP(&tables, "tables", "t", nil, "Tables to export (comma separated)")
	return cmd
}

func importCmd(opts *globalOptions) *cobra.Command {
	var (
		file  string
		table string
		sheet string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import rows from an xlsx workbook",
		Long: `Import loads one sheet into one table. Without --table every sheet named
after a table is imported, parents first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open %s: %w", file, err)
			}
			defer f.Close()

			var reports []dto.ImportReport
			if table == "" {
				reports, err = a.services.Exchange.ImportWorkbook(cmd.Context(), f)
			} else {
				var report *dto.ImportReport
				report, err = a.services.Exchange.Import(cmd.Context(), f, table, sheet)
				if report != nil {
					reports = append(reports, *report)
				}
			}
			if err != nil {
				return err
			}

			printReports(cmd, reports)
			for _, r := range reports {
				if r.Error != "" {
					return errors.New("some sheets were not imported")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Workbook to import")
	cmd.Flags().StringVar(&table, "table", "", "Target table (courses, student, books, books_lended)")
	cmd.Flags().StringVar(&sheet, "sheet", spreadsheet.DefaultSheet, "Sheet to read when --table is set")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func printReports(cmd *cobra.Command, reports []dto.ImportReport) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tSHEET\tIMPORTED\tSKIPPED\tERROR")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", r.Table, r.Sheet, r.Imported, r.Skipped, r.Error)
	}
	w.Flush()
}

func wipeCmd(opts *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Erase every student, course, book and loan",
		Long:  "Wipe erases all records and resets the id sequences. Back up with export first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to erase all data without --yes")
			}

			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.services.Maintenance.Wipe(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Successfully erased all the data.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the wipe")
	return cmd
}

func userCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage staff accounts",
	}

	var req dto.RegisterRequest
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUsers(cmd, opts, func(users services.UserService) error {
				user, err := users.Register(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created account %s\n", user.Username)
				return nil
			})
		},
	}
	add.Flags().StringVarP(&req.Username, "username", "u", "", "Username")
	add.Flags().StringVarP(&req.Password, "password", "p", "", "Password")
	add.Flags().StringVarP(&req.Email, "email", "e", "", "Email")

	remove := &cobra.Command{
		Use:   "remove <username>",
		Short: "Remove an account other than the admin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUsers(cmd, opts, func(users services.UserService) error {
				if err := users.Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Successfully removed the user.")
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUsers(cmd, opts, func(users services.UserService) error {
				all, err := users.List(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "USERNAME\tEMAIL")
				for _, u := range all {
					fmt.Fprintf(w, "%s\t%s\n", u.Username, u.Email)
				}
				return w.Flush()
			})
		},
	}

	cmd.AddCommand(add, remove, list)
	return cmd
}

func withUsers(cmd *cobra.Command, opts *globalOptions, fn func(services.UserService) error) error {
	a, err := openApp(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a.services.User)
}
