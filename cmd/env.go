package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ddalabctl/internal/backend"
	"ddalabctl/internal/cli"
	"ddalabctl/internal/envedit"
	"ddalabctl/pkg/logging"
)

const envSubsystem = "Env"

func newEnvCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Inspect and edit the installation's .env configuration",
		Long: `Inspect and edit the .env file of the selected DDALAB installation.

Every change is validated by the manager before it is written. Secret
values are redacted in output unless --show-secrets is given.`,
	}
	cmd.AddCommand(
		newEnvShowCmd(opts),
		newEnvFileCmd(opts),
		newEnvValidateCmd(opts),
		newEnvSetCmd(opts),
		newEnvSaveCmd(opts),
		newEnvExportCmd(opts),
		newEnvImportCmd(opts),
	)
	return cmd
}

func newEnvShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show where the web interface is served",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			cfg, err := s.backend.EnvConfig(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get env config: %w", err)
			}
			return s.printer.Print(cli.EnvConfigView(*cfg))
		},
	}
}

func newEnvFileCmd(opts *rootOptions) *cobra.Command {
	var (
		showSecrets  bool
		sortBy       string
		search       string
		requiredOnly bool
		secretOnly   bool
	)
	cmd := &cobra.Command{
		Use:   "file",
		Short: "List the variables of the .env file grouped by section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := envedit.ParseSortMode(sortBy)
			if err != nil {
				return err
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			ed, err := loadEditor(cmd.Context(), s.backend)
			if err != nil {
				return err
			}
			ed.Sort = mode
			ed.Filter = envedit.Filter{Query: search, RequiredOnly: requiredOnly, SecretOnly: secretOnly}
			return s.printer.Print(cli.NewEnvFileView(ed, showSecrets))
		},
	}
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print secret values")
	cmd.Flags().StringVar(&sortBy, "sort", string(envedit.DefaultSort), "Sort order (section, name, required)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only variables whose key, value, comment or section contains this text")
	cmd.Flags().BoolVar(&requiredOnly, "required", false, "Only required variables")
	cmd.Flags().BoolVar(&secretOnly, "secret", false, "Only secret variables")
	return cmd
}

func newEnvValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [KEY=VALUE...]",
		Short: "Validate the .env file, optionally with changed values, without saving",
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(args)
			if err != nil {
				return err
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			ed, err := editorWith(cmd.Context(), s.backend, values)
			if err != nil {
				return err
			}
			res, err := s.backend.ValidateEnvFile(cmd.Context(), ed.Merged())
			if err != nil {
				return fmt.Errorf("failed to validate env file: %w", err)
			}
			return printValidation(s, res)
		},
	}
}

func newEnvSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY=VALUE...",
		Short: "Change variables and save the .env file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(args)
			if err != nil {
				return err
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			return saveValues(cmd.Context(), s, values)
		},
	}
}

func newEnvSaveCmd(opts *rootOptions) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save KEY=VALUE lines read from a file or stdin",
		Long: `Read KEY=VALUE lines from --from (or stdin when it is "-") and save them
into the .env file. Blank lines and lines starting with # are ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if from != "-" {
				f, err := os.Open(from)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", from, err)
				}
				defer f.Close()
				r = f
			}
			values, err := readAssignments(r)
			if err != nil {
				return err
			}
			if len(values) == 0 {
				return fmt.Errorf("no KEY=VALUE lines to save")
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			return saveValues(cmd.Context(), s, values)
		},
	}
	cmd.Flags().StringVar(&from, "from", "-", "File with KEY=VALUE lines, - for stdin")
	return cmd
}

func newEnvExportCmd(opts *rootOptions) *cobra.Command {
	var (
		dir    string
		stdout bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a redacted JSON snapshot of the .env file",
		Long: `Write a JSON snapshot of the .env file. Secret values are replaced by
` + envedit.RedactedValue + ` so the file can be shared.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			ed, err := loadEditor(cmd.Context(), s.backend)
			if err != nil {
				return err
			}
			exp := ed.Export(time.Now())
			if stdout {
				return envedit.WriteExport(cmd.OutOrStdout(), exp)
			}
			if dir == "" {
				dir = s.app.Settings().Export.Dir
			}
			if dir == "" {
				dir = "."
			}
			path := filepath.Join(dir, envedit.ExportFileName(exp.ExportedAt))
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := envedit.WriteExport(f, exp); err != nil {
				f.Close()
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			return s.printer.Print(cli.OK("Configuration exported to %s", path))
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory for the export file (default from config export.dir)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the export instead of writing a file")
	return cmd
}

func newEnvImportCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Apply the values of an exported snapshot and save",
		Long: `Apply the values of a snapshot written by 'env export'. Secrets and
variables unknown to the current file are skipped. With --dry-run the
result is only validated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			ed, err := loadEditor(cmd.Context(), s.backend)
			if err != nil {
				return err
			}
			applied, skipped, err := ed.Import(f)
			if err != nil {
				return err
			}
			if len(skipped) > 0 {
				logging.Warn(envSubsystem, "Import skipped unknown keys: %s", strings.Join(skipped, ", "))
			}
			logging.Info(envSubsystem, "Imported %d values from %s", applied, filepath.Base(args[0]))

			if dryRun {
				res, err := s.backend.ValidateEnvFile(cmd.Context(), ed.Merged())
				if err != nil {
					return fmt.Errorf("failed to validate env file: %w", err)
				}
				return printValidation(s, res)
			}
			return save(cmd.Context(), s, ed)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate without saving")
	return cmd
}

func loadEditor(ctx context.Context, b backend.Backend) (*envedit.Editor, error) {
	ef, err := b.EnvFile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	ed := envedit.NewEditor()
	ed.Load(ef)
	return ed, nil
}

// editorWith loads the env file and applies values in key order.
func editorWith(ctx context.Context, b backend.Backend, values map[string]string) (*envedit.Editor, error) {
	ed, err := loadEditor(ctx, b)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := ed.Set(k, values[k]); err != nil {
			return nil, err
		}
	}
	return ed, nil
}

func saveValues(ctx context.Context, s *session, values map[string]string) error {
	ed, err := editorWith(ctx, s.backend, values)
	if err != nil {
		return err
	}
	return save(ctx, s, ed)
}

func save(ctx context.Context, s *session, ed *envedit.Editor) error {
	res, err := s.backend.SaveEnvFile(ctx, ed.Merged())
	if err != nil {
		return fmt.Errorf("failed to save env file: %w", err)
	}
	if !res.Valid {
		return printValidation(s, res)
	}
	return s.printer.Print(cli.OK("Environment configuration saved (%d changed)", ed.Pending()))
}

// printValidation prints res and fails the command when it is invalid.
func printValidation(s *session, res *backend.ValidationResult) error {
	if err := s.printer.Print(cli.ValidationView(*res)); err != nil {
		return err
	}
	if !res.Valid {
		return fmt.Errorf("configuration is invalid")
	}
	return nil
}

// parseAssignments turns KEY=VALUE arguments into a map. The value may be
// empty; the key may not.
func parseAssignments(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q (want KEY=VALUE)", arg)
		}
		values[key] = value
	}
	return values, nil
}

func readAssignments(r io.Reader) (map[string]string, error) {
	var args []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args = append(args, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read assignments: %w", err)
	}
	return parseAssignments(args)
}
