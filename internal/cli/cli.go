// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"projscan/internal/config"
	"projscan/internal/output"
	"projscan/internal/scan"
	"projscan/internal/services/clipboard"
	"projscan/internal/types"
	"projscan/internal/utils"
)

const (
	outputFlagName         = "output"
	outputFlagShorthand    = "o"
	prettyFlagName         = "pretty"
	prettyFlagShorthand    = "p"
	treeMarkdownFlagName   = "tree-md"
	ignoreFlagName         = "ignore"
	ignoreFlagShorthand    = "i"
	discardFilesInFlagName = "discard-files-in"
	discardAllInFlagName   = "discard-all-in"
	discardFilesFlagName   = "discard-files"
	manifestsFlagName      = "manifests"
	copyFlagName           = "copy"
	configFlagName         = "config"
	versionFlagName        = "version"
	versionTemplate        = "projscan version: %s\n"

	defaultPath          = "."
	rootUse              = "projscan"
	rootShortDescription = "projscan command line interface"
	rootLongDescription  = `projscan walks a project directory and describes its structure.
It writes a JSON document of the tree, can embed a plain tree in markdown,
and can print a styled tree to the console. Use --version to print the
application version.`

	scanUse              = "scan [path]"
	scanAlias            = "s"
	scanShortDescription = "scan a project directory (" + scanAlias + ")"
	// scanLongDescription provides detailed help for the scan command.
	scanLongDescription = `Walk the given directory (default ".") and write its structure.
Entries whose bare name is in the ignore set are skipped at any depth.
Discard options take comma- or newline-separated values.`
	// scanUsageExample demonstrates scan command usage.
	scanUsageExample = `  # Scan the current project and print the styled tree
  projscan scan --pretty

  # Skip vendored files but keep their directory structure
  projscan scan --discard-files-in vendor .

  # Also extract Cargo.toml and go.mod manifests
  projscan scan --manifests cargo,gomod .`

	versionFlagDescription        = "display application version"
	outputFlagDescription         = "structure document path (empty disables the JSON artifact)"
	prettyFlagDescription         = "print a styled tree to the console"
	treeMarkdownFlagDescription   = "write the plain tree to a markdown file"
	ignoreFlagDescription         = "entry names to skip at any depth (replaces the default set)"
	discardFilesInFlagDescription = "relative path prefixes below which files are discarded"
	discardAllInFlagDescription   = "relative directory paths recorded without descent"
	discardFilesFlagDescription   = "file names to discard globally"
	manifestsFlagDescription      = "additional manifest recognizers (cargo, pyproject, gomod)"
	copyFlagDescription           = "copy the JSON document to the clipboard"
	configFlagDescription         = "configuration file path"

	// errWorkingDirectoryFormat reports a failure to determine the working directory.
	errWorkingDirectoryFormat = "unable to determine working directory: %w"
	// errWriteArtifactFormat reports an output artifact that could not be written.
	errWriteArtifactFormat = "writing %s: %w"
	// errCopyArtifactFormat reports a clipboard copy failure.
	errCopyArtifactFormat = "copying structure document to clipboard: %w"

	// structureWrittenMessage confirms the JSON artifact.
	structureWrittenMessage = "structure document written"
	// treeWrittenMessage confirms the markdown artifact.
	treeWrittenMessage = "tree document written"

	// artifactFileMode is the permission set for written artifacts.
	artifactFileMode = 0o644
)

// Execute runs the projscan application with the provided logger.
func Execute(loggerInstance *zap.Logger) error {
	rootCommand := createRootCommand(loggerInstance)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(loggerInstance *zap.Logger) *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(createScanCommand(loggerInstance))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// scanOptions stores the scan command's flag values.
type scanOptions struct {
	outputPath       string
	pretty           bool
	treeMarkdownPath string
	ignoreNames      []string
	discardFilesIn   string
	discardAllIn     string
	discardFiles     string
	manifestNames    []string
	copyToClipboard  bool
	configFilePath   string
}

// createScanCommand returns the scan subcommand.
func createScanCommand(loggerInstance *zap.Logger) *cobra.Command {
	var options scanOptions

	scanCommand := &cobra.Command{
		Use:     scanUse,
		Aliases: []string{scanAlias},
		Short:   scanShortDescription,
		Long:    scanLongDescription,
		Example: scanUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootPath := defaultPath
			if len(arguments) > 0 {
				rootPath = arguments[0]
			}
			return runScan(command, rootPath, options, loggerInstance)
		},
	}

	scanCommand.Flags().StringVarP(&options.outputPath, outputFlagName, outputFlagShorthand, types.DefaultOutputFileName, outputFlagDescription)
	scanCommand.Flags().BoolVarP(&options.pretty, prettyFlagName, prettyFlagShorthand, false, prettyFlagDescription)
	scanCommand.Flags().StringVar(&options.treeMarkdownPath, treeMarkdownFlagName, "", treeMarkdownFlagDescription)
	scanCommand.Flags().StringArrayVarP(&options.ignoreNames, ignoreFlagName, ignoreFlagShorthand, nil, ignoreFlagDescription)
	scanCommand.Flags().StringVar(&options.discardFilesIn, discardFilesInFlagName, "", discardFilesInFlagDescription)
	scanCommand.Flags().StringVar(&options.discardAllIn, discardAllInFlagName, "", discardAllInFlagDescription)
	scanCommand.Flags().StringVar(&options.discardFiles, discardFilesFlagName, "", discardFilesFlagDescription)
	scanCommand.Flags().StringSliceVar(&options.manifestNames, manifestsFlagName, nil, manifestsFlagDescription)
	scanCommand.Flags().BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	scanCommand.Flags().StringVar(&options.configFilePath, configFlagName, "", configFlagDescription)
	return scanCommand
}

// runScan resolves configuration, builds the tree, and writes the requested
// artifacts. Scan warnings flow through the logger; only the root
// precondition and artifact failures abort with an error.
func runScan(command *cobra.Command, rootPath string, options scanOptions, loggerInstance *zap.Logger) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(errWorkingDirectoryFormat, workingDirectoryError)
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configFilePath,
	})
	if configurationError != nil {
		return configurationError
	}
	effective := resolveEffectiveOptions(command.Flags(), options, applicationConfiguration.Scan)

	builder := scan.NewBuilder(scan.NewFilterSet(scan.FilterOptions{
		IgnoreNames:         effective.ignoreNames,
		DiscardFilePrefixes: effective.discardFilesIn,
		DiscardAllPaths:     effective.discardAllIn,
		DiscardFileNames:    effective.discardFiles,
	}))
	builder.Warn = func(message string) {
		loggerInstance.Warn(message)
	}
	if activationError := builder.Recognizers.Activate(effective.manifestNames); activationError != nil {
		return activationError
	}

	rootNode, rootName, buildError := builder.Build(rootPath)
	if buildError != nil {
		return buildError
	}

	if effective.pretty {
		output.RenderTreeStyled(command.OutOrStdout(), rootName, rootNode)
	}

	return writeArtifacts(effective, rootName, rootNode, loggerInstance)
}

// effectiveOptions is the scan configuration after merging file configuration
// and flags, flags winning for every flag the user set explicitly.
type effectiveOptions struct {
	outputPath       string
	pretty           bool
	treeMarkdownPath string
	ignoreNames      []string
	discardFilesIn   []string
	discardAllIn     []string
	discardFiles     []string
	manifestNames    []string
	copyToClipboard  bool
}

// resolveEffectiveOptions overlays flag values onto configuration defaults.
// Flags the user set explicitly always win over configuration files.
func resolveEffectiveOptions(flags *pflag.FlagSet, options scanOptions, configuration config.ScanConfiguration) effectiveOptions {
	effective := effectiveOptions{
		outputPath:       options.outputPath,
		pretty:           options.pretty,
		treeMarkdownPath: options.treeMarkdownPath,
		ignoreNames:      options.ignoreNames,
		discardFilesIn:   config.ParseListOption(options.discardFilesIn),
		discardAllIn:     config.ParseListOption(options.discardAllIn),
		discardFiles:     config.ParseListOption(options.discardFiles),
		manifestNames:    options.manifestNames,
		copyToClipboard:  options.copyToClipboard,
	}

	if !flags.Changed(outputFlagName) && configuration.Output != "" {
		effective.outputPath = configuration.Output
	}
	if !flags.Changed(prettyFlagName) && configuration.Pretty != nil {
		effective.pretty = *configuration.Pretty
	}
	if !flags.Changed(treeMarkdownFlagName) && configuration.TreeMarkdown != "" {
		effective.treeMarkdownPath = configuration.TreeMarkdown
	}
	if !flags.Changed(ignoreFlagName) && configuration.Ignore != nil {
		effective.ignoreNames = configuration.Ignore
	}
	if !flags.Changed(discardFilesInFlagName) && len(configuration.DiscardFilesIn) > 0 {
		effective.discardFilesIn = configuration.DiscardFilesIn
	}
	if !flags.Changed(discardAllInFlagName) && len(configuration.DiscardAllIn) > 0 {
		effective.discardAllIn = configuration.DiscardAllIn
	}
	if !flags.Changed(discardFilesFlagName) && len(configuration.DiscardFiles) > 0 {
		effective.discardFiles = configuration.DiscardFiles
	}
	if !flags.Changed(manifestsFlagName) && len(configuration.Manifests) > 0 {
		effective.manifestNames = configuration.Manifests
	}
	if !flags.Changed(copyFlagName) && configuration.Clipboard != nil {
		effective.copyToClipboard = *configuration.Clipboard
	}
	return effective
}

// writeArtifacts renders the structure document once and writes the JSON
// file, the markdown tree, and the clipboard copy. The artifacts are
// independent, so they are written through an errgroup.
func writeArtifacts(effective effectiveOptions, rootName string, rootNode *types.Node, loggerInstance *zap.Logger) error {
	structureDocument := output.NewStructureDocument(rootName, rootNode)
	renderedJSON, renderError := output.RenderStructureJSON(structureDocument)
	if renderError != nil {
		return renderError
	}

	var group errgroup.Group

	if effective.outputPath != "" {
		outputPath := effective.outputPath
		group.Go(func() error {
			if writeError := os.WriteFile(outputPath, []byte(renderedJSON+"\n"), artifactFileMode); writeError != nil {
				return fmt.Errorf(errWriteArtifactFormat, outputPath, writeError)
			}
			absoluteOutputPath, absoluteError := filepath.Abs(outputPath)
			if absoluteError != nil {
				absoluteOutputPath = outputPath
			}
			loggerInstance.Info(structureWrittenMessage, zap.String("path", absoluteOutputPath))
			return nil
		})
	}

	if effective.treeMarkdownPath != "" {
		treeMarkdownPath := effective.treeMarkdownPath
		renderedMarkdown := output.RenderTreeMarkdown(rootName, rootNode)
		group.Go(func() error {
			if writeError := os.WriteFile(treeMarkdownPath, []byte(renderedMarkdown), artifactFileMode); writeError != nil {
				return fmt.Errorf(errWriteArtifactFormat, treeMarkdownPath, writeError)
			}
			loggerInstance.Info(treeWrittenMessage, zap.String("path", treeMarkdownPath))
			return nil
		})
	}

	if effective.copyToClipboard {
		group.Go(func() error {
			if copyError := clipboard.NewService().Copy(renderedJSON); copyError != nil {
				return fmt.Errorf(errCopyArtifactFormat, copyError)
			}
			return nil
		})
	}

	return group.Wait()
}
