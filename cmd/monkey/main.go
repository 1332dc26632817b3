package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"monkey/internal/evaluator"
	"monkey/internal/lexer"
	"monkey/internal/log"
	"monkey/internal/object"
	"monkey/internal/parser"
	"monkey/internal/repl"
	"monkey/internal/util"
)

var (
	// Version is stamped at build time via -ldflags.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"

	help    bool
	version bool
	evalStr string
	// config vars
	configPath string
	astJSON    bool
	astText    bool
	// logging
	logLevel string
	logFile  string
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&evalStr, "e", "", "Evaluate the given code snippet and exit")
	// parser config
	flag.BoolVar(&astJSON, "ast-json", false, "Render the parsed AST as JSON to stderr")
	flag.BoolVar(&astText, "ast-text", false, "Render the parsed AST as indented text to stderr")
	// config file
	flag.StringVar(&configPath, "config", "", "Load configuration from the given TOML file")
	// log config
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	flag.Parse()

	config, err := util.LoadConfiguration(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "monkey: %v\n", err)
		os.Exit(1)
	}

	// Command line flags win over the configuration file
	if logLevel != "" {
		config.LogLevel = logLevel
	}
	if logFile != "" {
		config.LogFile = logFile
	}
	if astJSON {
		config.DebugJsonAST = true
	}
	if astText {
		config.DebugTxtAST = true
	}
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit

	log.Setup(config.LogLevel, config.LogFile)

	if version {
		printVersion()
		return
	}

	if help {
		printHelp()
		return
	}

	code := run(config)
	log.Close()
	os.Exit(code)
}

func run(config util.Configuration) int {
	switch {
	case evalStr != "":
		return runProgram(evalStr, config, true)
	case flag.Arg(0) != "":
		return runFile(flag.Arg(0), config)
	default:
		repl.NewSession(config, os.Stdout).Run()
		return 0
	}
}

func runFile(path string, config util.Configuration) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "monkey: cannot read %s: %v\n", path, err)
		return 1
	}

	// File mode is silent on success; scripts speak through puts
	return runProgram(string(src), config, false)
}

func runProgram(src string, config util.Configuration, printResult bool) int {
	errc := color.New(color.FgRed)

	p := parser.New(lexer.New(src), src)
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		errc.Fprintln(os.Stderr, "parser errors:")
		for _, msg := range p.Errors() {
			errc.Fprintf(os.Stderr, "\t%s\n", msg)
		}
		return 1
	}

	if config.DebugJsonAST {
		if rendered, err := parser.RenderASTAsJSON(program); err == nil {
			fmt.Fprintln(os.Stderr, rendered)
		} else {
			slog.Warn("failed to render AST", slog.Any("error", err))
		}
	}
	if config.DebugTxtAST {
		fmt.Fprintln(os.Stderr, parser.RenderASTAsText(program, 0))
	}

	e := evaluator.New()
	evaluated := e.Eval(program, object.NewEnvironment())
	if errObj, ok := evaluated.(*object.Error); ok {
		errc.Fprintln(os.Stderr, errObj.Inspect())
		return 1
	}

	if printResult && evaluated != nil {
		fmt.Println(evaluated.Inspect())
	}
	return 0
}

func printVersion() {
	fmt.Printf("monkey version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: monkey [options] [filename]

Options:
  -e <code>          Evaluate the given code snippet, print the result and exit.
  -config <path>     Load configuration from the given TOML file.
  -ast-json          Render the parsed AST as JSON to stderr.
  -ast-text          Render the parsed AST as indented text to stderr.
  -help              Display this help information and exit.
  -version           Display version information and exit.
  -log-level <level> Set the log level: debug, info, warn, error. Default is 'error'.
  -log-file <path>   Specify a log file to write logs. Default is stderr.

Details:
This is the Monkey programming language.

Examples:
  monkey                          Start an interactive session
  monkey myfile.monkey            Execute the provided Monkey file
  monkey -e '1 + 2'               Evaluate a snippet and print the result
  monkey -ast-json myfile.monkey  Dump the AST while executing a file

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}
