// Command ddcirq converts dynamic decoupling sequences into gate-level
// OPENQASM circuits and shows them in a terminal viewer.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time
var Version = "0.1.0"

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "ddcirq",
	Short: "Dynamic decoupling sequences as single-qubit gate circuits",
	Long: `ddcirq turns a dynamic decoupling sequence into a circuit of u3, u1 and id
gates on a fixed gate-time lattice.

Commands:
  convert    - Print or write the circuit as OPENQASM 2.0
  view       - Browse the circuit in the terminal
  sequences  - List the predefined sequences

Example:
  ddcirq convert --kind cpmg --pulses 4 --gate-time 0.05
  ddcirq convert --file sequences.hcl --sequence echo --targets 0,2 --out echo.qasm
  ddcirq view --kind xy4 --pulses 2`,
	Version:      Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./ddcirq.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(sequencesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
