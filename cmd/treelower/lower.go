package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"treelower/internal/diag"
	"treelower/internal/diagfmt"
	"treelower/internal/driver"
	"treelower/internal/ir"
	"treelower/internal/observ"
	"treelower/internal/project"
	"treelower/internal/source"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [flags] [file.astpack...]",
	Short: "Lower source tree snapshots and report diagnostics",
	Long: `Lower every given snapshot. Without arguments the inputs listed in the
nearest treelower.toml are used.`,
	RunE: runLower,
}

func init() {
	lowerCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	lowerCmd.Flags().Int("jobs", 0, "max parallel workers (0=manifest or auto)")
	lowerCmd.Flags().Bool("emit-ir", false, "print the output tree of every lowered file")
	lowerCmd.Flags().String("out", "", "write output trees as <name>.ir files into this directory instead of stdout")
	lowerCmd.Flags().Bool("verify", false, "check every output tree after lowering")
	lowerCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	lowerCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	lowerCmd.Flags().String("ui", "auto", "progress view on stderr (auto|on|off)")
	lowerCmd.Flags().String("manifest", "", "path to treelower.toml (default: search upwards from the working directory)")
}

type lowerFlags struct {
	format    string
	jobs      int
	emitIR    bool
	outDir    string
	verify    bool
	withNotes bool
	fullPath  bool
	manifest  string
	ui        uiMode
	maxDiags  int
	timings   bool
	quiet     bool
}

func readLowerFlags(cmd *cobra.Command) (lowerFlags, error) {
	var f lowerFlags
	var err error
	flags := cmd.Flags()
	if f.format, err = flags.GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.emitIR, err = flags.GetBool("emit-ir"); err != nil {
		return f, fmt.Errorf("failed to get emit-ir flag: %w", err)
	}
	if f.outDir, err = flags.GetString("out"); err != nil {
		return f, fmt.Errorf("failed to get out flag: %w", err)
	}
	if f.verify, err = flags.GetBool("verify"); err != nil {
		return f, fmt.Errorf("failed to get verify flag: %w", err)
	}
	if f.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.fullPath, err = flags.GetBool("fullpath"); err != nil {
		return f, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if f.manifest, err = flags.GetString("manifest"); err != nil {
		return f, fmt.Errorf("failed to get manifest flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	root := cmd.Root().PersistentFlags()
	if f.maxDiags, err = root.GetInt("max-diagnostics"); err != nil {
		return f, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if f.timings, err = root.GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f.quiet, err = root.GetBool("quiet"); err != nil {
		return f, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	f.format = strings.ToLower(f.format)
	if f.format != "pretty" && f.format != "json" {
		return f, fmt.Errorf("unknown format %q (must be pretty or json)", f.format)
	}
	return f, nil
}

func runLower(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	flags, err := readLowerFlags(cmd)
	if err != nil {
		return err
	}

	manifest, err := openManifest(flags.manifest)
	if err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		if manifest == nil {
			return errors.New("no inputs given and no " + project.ManifestName + " found")
		}
		if inputs, err = manifest.Inputs(); err != nil {
			return err
		}
		if len(inputs) == 0 {
			return fmt.Errorf("%s: [lower].inputs matched no files", manifest.Path)
		}
	}

	jobs, verify := flags.jobs, flags.verify
	if manifest != nil {
		if jobs <= 0 {
			jobs = manifest.Config.Lower.Jobs
		}
		verify = verify || manifest.Config.Lower.Verify
	}

	fileSet := source.NewFileSet()
	loadLimit := flags.maxDiags
	if loadLimit <= 0 {
		loadLimit = math.MaxUint16
	}
	loadBag := diag.NewBag(loadLimit)
	timer := observ.NewTimer()

	loadIdx := timer.Begin("load")
	files := driver.LoadSnapshots(inputs, fileSet, loadBag)
	timer.End(loadIdx, fmt.Sprintf("%d files", len(files)))

	opts := driver.Options{
		Jobs:           jobs,
		MaxDiagnostics: flags.maxDiags,
		Manifest:       manifest,
		FileSet:        fileSet,
		Verify:         verify,
		Timings:        flags.timings,
		Timer:          timer,
	}
	var res *driver.Result
	var lowerErr error
	if !flags.quiet && shouldUseTUI(flags.ui, len(files)) {
		res, lowerErr = lowerWithUI(cmd.Context(), "lowering", files, opts)
	} else {
		res, lowerErr = driver.LowerFiles(cmd.Context(), files, opts)
	}
	if lowerErr != nil && res == nil {
		return lowerErr
	}
	if ctxErr := cmd.Context().Err(); ctxErr != nil {
		return ctxErr
	}

	if flags.emitIR {
		if err := emitIR(cmd.OutOrStdout(), flags.outDir, res); err != nil {
			return err
		}
	}

	bag := res.Diagnostics()
	bag.Merge(loadBag)
	bag.Sort()
	if flags.quiet {
		bag = withoutInfo(bag)
	}

	if err := renderDiagnostics(cmd, bag, fileSet, flags); err != nil {
		return err
	}

	if flags.timings && !flags.quiet && flags.format == "pretty" {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	if bag.HasErrors() || lowerErr != nil || res.HasErrors() {
		return errors.New("lowering failed")
	}
	if !flags.quiet && flags.format == "pretty" {
		fmt.Fprintf(cmd.ErrOrStderr(), "lowered %d file(s)\n", len(res.Files))
	}
	return nil
}

func openManifest(path string) (*project.Manifest, error) {
	if path == "" {
		found, ok, err := project.FindManifest(".")
		if err != nil || !ok {
			return nil, err
		}
		path = found
	}
	return project.LoadManifest(path)
}

func renderDiagnostics(cmd *cobra.Command, bag *diag.Bag, fileSet *source.FileSet, flags lowerFlags) error {
	pathMode := diagfmt.PathModeAuto
	if flags.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	baseDir, _ := os.Getwd()

	if flags.format == "json" {
		return diagfmt.JSON(cmd.OutOrStdout(), bag, fileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			BaseDir:          baseDir,
			Max:              flags.maxDiags,
			IncludeNotes:     flags.withNotes,
		})
	}

	colored, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	diagfmt.Pretty(cmd.OutOrStdout(), bag, fileSet, diagfmt.PrettyOpts{
		Color:     colored,
		Context:   1,
		PathMode:  pathMode,
		BaseDir:   baseDir,
		ShowNotes: flags.withNotes,
		Max:       flags.maxDiags,
	})
	return nil
}

func withoutInfo(bag *diag.Bag) *diag.Bag {
	out := diag.NewBag(bag.Len())
	for _, d := range bag.Items() {
		if d.Severity != diag.SevInfo {
			out.Add(d)
		}
	}
	return out
}

func emitIR(stdout io.Writer, outDir string, res *driver.Result) error {
	for _, f := range res.Files {
		if f.Lowered == nil {
			continue
		}
		if outDir == "" {
			if err := ir.Dump(stdout, f.Lowered.File, f.Lowered.Types); err != nil {
				return err
			}
			for _, ext := range f.Lowered.Externals {
				if err := ir.DumpElement(stdout, ext, f.Lowered.Types); err != nil {
					return err
				}
			}
			continue
		}
		if err := writeIRFile(outDir, f); err != nil {
			return err
		}
	}
	return nil
}

func writeIRFile(outDir string, f driver.FileResult) (err error) {
	if err = os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(f.Lowered.File.Name), filepath.Ext(f.Lowered.File.Name)) + ".ir"
	// #nosec G304 -- outDir comes from the --out flag
	out, err := os.Create(filepath.Join(outDir, name))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	if err = ir.Dump(out, f.Lowered.File, f.Lowered.Types); err != nil {
		return err
	}
	for _, ext := range f.Lowered.Externals {
		if err = ir.DumpElement(out, ext, f.Lowered.Types); err != nil {
			return err
		}
	}
	return nil
}
