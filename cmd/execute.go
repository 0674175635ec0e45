package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ComedicChimera/olive"

	"mano/build"
	"mano/common"
	"mano/logging"
	"mano/mods"
	"mano/syntax"
)

// Execute runs the main `mano` application
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("mano", "mano is a tool for managing Mano projects", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "compile a module", true)
	buildCmd.AddPrimaryArg("module-path", "the path to the module to build", true)

	checkCmd := cli.AddSubcommand("check", "analyze a module and report errors without building", true)
	checkCmd.AddPrimaryArg("module-path", "the path to the module to check", true)

	modCmd := cli.AddSubcommand("mod", "manage modules", true)
	modInitCmd := modCmd.AddSubcommand("init", "initialize a module", true)
	modInitCmd.AddPrimaryArg("module-name", "the name of the new module", true)

	cli.AddSubcommand("version", "print the Mano version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		return
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build", "check":
		execBuildCommand(subResult, result.Arguments["loglevel"].(string))
	case "mod":
		execModCommand(subResult)
	case "version":
		logging.PrintInfoMessage("Mano Version", common.ManoVersion)
	}
}

// execBuildCommand executes the build and check subcommands and handles all
// errors.  Code generation does not exist yet, so both run the front-end
// pipeline and report its diagnostics.
func execBuildCommand(result *olive.ArgParseResult, loglevel string) {
	moduleRelPath, _ := result.PrimaryArg()

	modulePath, err := filepath.Abs(moduleRelPath)
	if err != nil {
		logging.PrintErrorMessage("Path Error", err)
		return
	}

	// attempt to load the module
	mod, err := mods.LoadModule(modulePath)
	if err != nil {
		logging.PrintErrorMessage("Module Load Error", err)
		return
	}

	// the module file's log level applies unless the CLI overrides the
	// default
	if loglevel == "verbose" && mod.LogLevel != "" {
		loglevel = mod.LogLevel
	}

	// run the front-end pipeline over the entry file
	c := build.NewCompiler()
	entryPath := filepath.Join(mod.ModuleRoot, mod.EntryFile)
	ok, err := c.CompileFile(entryPath)
	if err != nil {
		logging.PrintErrorMessage("File Error", err)
		return
	}

	displayResults(c, ok, loglevel)
}

// displayResults renders the collector's diagnostics and, at verbose level,
// the token and tree dumps
func displayResults(c *build.Compiler, ok bool, loglevel string) {
	if loglevel == "silent" {
		return
	}

	for _, d := range c.Log().Diagnostics() {
		if d.Severity == logging.SeverityWarning && loglevel == "error" {
			continue
		}

		d.Display(c.SrcPath)
	}

	if ok && loglevel == "verbose" {
		fmt.Println()
		syntax.DumpTokens(os.Stdout, c.Tokens)
		fmt.Println()
		syntax.DumpAST(os.Stdout, c.Program)
	}

	if loglevel != "error" || !ok {
		logging.DisplayCompilationFinished(ok, c.Log().ErrorCount(), c.Log().WarningCount())
	}
}

// execModCommand executes the `mod` subcommand and its subcommands
func execModCommand(result *olive.ArgParseResult) {
	subcmdName, subResult, _ := result.Subcommand()

	workDir, err := os.Getwd()
	if err != nil {
		logging.PrintErrorMessage("Path Error", err)
		return
	}

	switch subcmdName {
	case "init":
		modName, _ := subResult.PrimaryArg()
		if err := mods.InitModule(modName, workDir); err != nil {
			logging.PrintErrorMessage("Module Init Error", err)
		}
	}
}
