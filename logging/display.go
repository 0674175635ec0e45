package logging

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// PrintErrorMessage prints a standard Go error to the console.  This is used
// for driver and configuration errors that are not tied to a source position.
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message to the console
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message to the user
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// -----------------------------------------------------------------------------
// This section contains the display functions for compile diagnostics.  The
// pipeline never prints anything itself; the CLI walks the collector and
// renders each diagnostic here.

// Display renders a single diagnostic with its banner and, when the source
// file is available, the offending line with a caret marker.
func (d Diagnostic) Display(filePath string) {
	d.displayBanner(filePath)
	fmt.Println(d.Message)

	if d.Line > 0 && filePath != "" {
		d.displayCodeSelection(filePath)
	}
}

// displayBanner displays the banner on top of all compile diagnostics
func (d Diagnostic) displayBanner(filePath string) {
	fmt.Print("\n\n-- ")
	kindStr := d.Phase.String()
	kindLen := len(kindStr)
	if d.Severity == SeverityError {
		ErrorStyleBG.Print(kindStr + " Error")
		kindLen += 7
	} else {
		WarnStyleBG.Print(kindStr + " Warning")
		kindLen += 9
	}

	fmt.Print(" ")

	fileName := filepath.Base(filePath)

	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}

	dashCount := bannerLen - len(fileName) - kindLen - 1
	if dashCount < 1 {
		dashCount = 1
	}

	fmt.Print(strings.Repeat("-", dashCount) + " ")
	InfoColorFG.Println(fileName)
}

// displayCodeSelection displays the erroneous line (with its line number) and
// a caret under the reported column
func (d Diagnostic) displayCodeSelection(filePath string) {
	f, err := os.Open(filePath)
	if err != nil {
		return
	}
	defer f.Close()

	fmt.Println()

	sc := bufio.NewScanner(f)
	sc.Split(bufio.ScanLines)

	var selected string
	for lineNumber := 1; sc.Scan(); lineNumber++ {
		if lineNumber == d.Line {
			selected = sc.Text()
			break
		}
	}

	lineNumberWidth := len(strconv.Itoa(d.Line)) + 1
	lineNumberFmtStr := "%-" + strconv.Itoa(lineNumberWidth) + "v"

	InfoColorFG.Print(fmt.Sprintf(lineNumberFmtStr, d.Line))
	fmt.Print("|  ")
	fmt.Println(strings.ReplaceAll(selected, "\t", "    "))

	fmt.Print(strings.Repeat(" ", lineNumberWidth), "|  ")
	if d.Column > 1 {
		fmt.Print(strings.Repeat(" ", d.Column-1))
	}
	ErrorColorFG.Println("^")
	fmt.Println()
}

// DisplayCompilationFinished displays a compilation finished message with the
// final error and warning tallies
func DisplayCompilationFinished(success bool, errorCount, warningCount int) {
	fmt.Print("\n")

	if success {
		SuccessColorFG.Print("All done! ")
	} else {
		ErrorColorFG.Print("Oh no! ")
	}

	fmt.Print("(")

	switch errorCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Print(" errors, ")
	case 1:
		ErrorColorFG.Print(1)
		fmt.Print(" error, ")
	default:
		ErrorColorFG.Print(errorCount)
		fmt.Print(" errors, ")
	}

	switch warningCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Println(" warnings)")
	case 1:
		WarnColorFG.Print(1)
		fmt.Println(" warning)")
	default:
		WarnColorFG.Print(warningCount)
		fmt.Println(" warnings)")
	}
}
