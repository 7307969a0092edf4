package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"drift/internal/diagfmt"
	"drift/internal/driver"
	"drift/internal/project"
	"drift/internal/source"
	"drift/internal/trace"
)

var scopesCmd = &cobra.Command{
	Use:   "scopes [flags] <file.scopes.json|directory>",
	Short: "Resolve debug scopes for lowered functions",
	Long:  `Resolve the debug scope tree for a lowered function fixture, or for every *.scopes.json file within a directory`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScopes,
}

func init() {
	scopesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	scopesCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	scopesCmd.Flags().String("ui", "auto", "progress UI for directory runs (auto|on|off)")
	scopesCmd.Flags().String("debug", "", "debug level override (full|none)")
	scopesCmd.Flags().Bool("cache", false, "enable persistent scope cache")
	scopesCmd.Flags().Bool("clear-cache", false, "drop the persistent scope cache before resolving")
	scopesCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	scopesCmd.Flags().Bool("show-table", false, "include the lowered scope table under each tree")
	scopesCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

// fileJSON is the per-file entry of the json output format.
type fileJSON struct {
	Scopes      *diagfmt.ScopesOutput     `json:"scopes,omitempty"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

// runScopes executes the "scopes" command: it resolves the given path (single
// fixture file or directory), renders the resulting scope trees in the chosen
// format and exits with a non-zero status when any diagnostics contain errors.
func runScopes(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	debugStr, err := cmd.Flags().GetString("debug")
	if err != nil {
		return fmt.Errorf("failed to get debug flag: %w", err)
	}

	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}

	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	showTable, err := cmd.Flags().GetBool("show-table")
	if err != nil {
		return fmt.Errorf("failed to get show-table flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	st, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	// Манифест проекта задаёт дефолты, флаги их перебивают.
	debugLevel := project.DebugFull
	startDir := targetPath
	if !st.IsDir() {
		startDir = filepath.Dir(targetPath)
	}
	if manifestPath, ok, findErr := project.FindDriftToml(startDir); findErr == nil && ok {
		manifest, loadErr := project.LoadManifest(manifestPath)
		if loadErr != nil {
			return loadErr
		}
		debugLevel = manifest.DebugLevel
		if manifest.MaxDiags > 0 && !cmd.Root().PersistentFlags().Changed("max-diagnostics") {
			maxDiagnostics = manifest.MaxDiags
		}
	}
	if debugStr != "" {
		debugLevel, err = project.ParseDebugLevel(debugStr)
		if err != nil {
			return err
		}
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	var cache *driver.ScopeCache
	if useCache || clearCache {
		cache, err = driver.OpenScopeCache("drift")
		if err != nil {
			return fmt.Errorf("failed to open scope cache: %w", err)
		}
		if clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clear scope cache: %w", err)
			}
		}
		if !useCache {
			cache = nil
		}
	}

	cleanupTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanupTrace()

	cleanupProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanupProf()

	opts := driver.ResolveOptions{
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
		DebugLevel:     debugLevel,
		Timings:        showTimings,
		Cache:          cache,
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	scopesOpts := diagfmt.ScopesOpts{
		Color:     useColor,
		PathMode:  pathMode,
		ShowTable: showTable,
	}
	prettyOpts := diagfmt.PrettyOpts{
		Color:      useColor,
		PathMode:   pathMode,
		ShowNotes:  withNotes,
		ShowSource: true,
	}
	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         pathMode,
		IncludeNotes:     withNotes,
	}

	var (
		fset    *source.FileSet
		results []*driver.ResolveResult
	)

	if !st.IsDir() {
		fset = source.NewFileSet()
		res, resolveErr := driver.ResolveFile(cmd.Context(), fset, targetPath, opts)
		if resolveErr != nil {
			return fmt.Errorf("scope resolution failed: %w", resolveErr)
		}
		results = []*driver.ResolveResult{res}
	} else {
		useTUI := format == "pretty" && !quiet && shouldUseTUI(mode)
		if useTUI {
			files, listErr := driver.ListFixtureFiles(targetPath)
			if listErr != nil {
				return fmt.Errorf("scope resolution failed: %w", listErr)
			}
			fset, results, err = runResolveDirWithUI(cmd.Context(), "resolving scopes", targetPath, files, opts)
		} else {
			fset, results, err = driver.ResolveDir(cmd.Context(), targetPath, opts)
		}
		if err != nil {
			return fmt.Errorf("scope resolution failed: %w", err)
		}
	}

	exit := 0
	for _, r := range results {
		r.Bag.Sort()
		if r.Bag.HasErrors() {
			exit = 1
		}
	}

	switch format {
	case "pretty":
		for idx, r := range results {
			if idx > 0 {
				fmt.Fprintln(os.Stdout)
			}
			if len(results) > 1 {
				fmt.Fprintf(os.Stdout, "== %s ==\n", displayPath(r.Path, fullPath))
			}
			if !quiet && r.Recorder != nil && r.Recorder.Len() > 0 {
				diagfmt.ScopesPretty(os.Stdout, scopesInput(r), fset, scopesOpts)
			}
			diagfmt.Pretty(os.Stdout, r.Bag, fset, prettyOpts)
		}
	case "json":
		output := make(map[string]fileJSON, len(results))
		for _, r := range results {
			entry := fileJSON{
				Diagnostics: diagfmt.BuildDiagnosticsOutput(r.Bag, fset, jsonOpts),
			}
			if r.Recorder != nil && r.Recorder.Len() > 0 {
				scopes := diagfmt.BuildScopesOutput(scopesInput(r), fset, scopesOpts)
				entry.Scopes = &scopes
			}
			output[displayPath(r.Path, fullPath)] = entry
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode scopes output: %w", err)
		}
	}

	if exit != 0 {
		// Cleanup tracer explicitly because PersistentPostRun is not called on error
		if tracer := trace.FromContext(cmd.Context()); tracer != nil && tracer != trace.Nop {
			_ = tracer.Flush()
			_ = tracer.Close()
		}
		// Suppress cobra usage output on diagnostic errors
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // Silent error - diagnostics already printed
	}
	return nil
}

func scopesInput(r *driver.ResolveResult) diagfmt.ScopesInput {
	return diagfmt.ScopesInput{
		Name:      r.Name,
		Recorder:  r.Recorder,
		Table:     r.MirTable,
		NodeCount: r.NodeCount,
		FromCache: r.FromCache,
	}
}

func displayPath(path string, fullPath bool) string {
	if !fullPath {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
