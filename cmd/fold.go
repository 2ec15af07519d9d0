package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fncnt/rafft/config"
	"github.com/fncnt/rafft/internal/fold"
)

var (
	inPath    string
	outPath   string
	asJSON    bool
	withGraph bool
	timeout   time.Duration
)

// foldCmd represents the fold command
var foldCmd = &cobra.Command{
	Use:   "fold [sequence]",
	Short: "Predict secondary structures for an RNA sequence",
	Long: `Predict secondary structures for an RNA sequence.

The sequence is passed as an argument or read from a FASTA file (first
record). The top-ranked structures are written in dot-bracket notation
with their free energies; --graph additionally reports the trajectory
graph of the whole search, whose root-to-leaf paths read as plausible
folding pathways.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runFold,
}

func init() {
	rootCmd.AddCommand(foldCmd)

	foldCmd.Flags().StringVarP(&inPath, "in", "i", "", "path to a FASTA file with the sequence to fold")
	foldCmd.Flags().StringVarP(&outPath, "out", "o", "", "path to write results to (default stdout)")
	foldCmd.Flags().BoolVar(&asJSON, "json", false, "write results as a JSON document")
	foldCmd.Flags().BoolVar(&withGraph, "graph", false, "include the trajectory graph (implies --json)")
	foldCmd.Flags().DurationVar(&timeout, "timeout", 0, "abort the search after this long, keeping the best structures found")

	foldCmd.Flags().IntP("beam-width", "b", 16, "max structures retained per search depth")
	foldCmd.Flags().Int("max-structures", 1000, "global cap on created structures")
	foldCmd.Flags().Int("min-helix-length", 3, "shortest helix accepted")
	foldCmd.Flags().Int("min-loop-size", 3, "shortest unpaired hairpin loop allowed")
	foldCmd.Flags().IntP("top-k", "k", 1, "number of structures to report")
	foldCmd.Flags().Int("max-lags", 100, "correlation lags scanned per expansion")
	foldCmd.Flags().Int("workers", 0, "worker goroutines (0 = one per CPU)")
	foldCmd.Flags().Float64("au", 2.0, "A-U pair weight")
	foldCmd.Flags().Float64("gc", 3.0, "G-C pair weight")
	foldCmd.Flags().Float64("gu", 1.0, "G-U wobble pair weight")

	// Bind the parameters to viper
	viper.BindPFlag("search.beam-width", foldCmd.Flags().Lookup("beam-width"))
	viper.BindPFlag("search.max-structures", foldCmd.Flags().Lookup("max-structures"))
	viper.BindPFlag("search.min-helix-length", foldCmd.Flags().Lookup("min-helix-length"))
	viper.BindPFlag("search.min-loop-size", foldCmd.Flags().Lookup("min-loop-size"))
	viper.BindPFlag("search.top-k", foldCmd.Flags().Lookup("top-k"))
	viper.BindPFlag("search.max-lags", foldCmd.Flags().Lookup("max-lags"))
	viper.BindPFlag("search.workers", foldCmd.Flags().Lookup("workers"))
	viper.BindPFlag("pairing.au", foldCmd.Flags().Lookup("au"))
	viper.BindPFlag("pairing.gc", foldCmd.Flags().Lookup("gc"))
	viper.BindPFlag("pairing.gu", foldCmd.Flags().Lookup("gu"))
}

func runFold(cmd *cobra.Command, args []string) {
	seq, err := readSequence(args)
	if err != nil {
		log.Fatalf("failed to read the input sequence: %v", err)
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	engine := fold.New(config.New())
	engine.KeepGraph = withGraph

	res, err := engine.Predict(ctx, seq)
	switch {
	case res == nil:
		log.Fatalf("failed to fold the sequence: %v", err)
	case errors.Is(err, fold.ErrEngineExhausted):
		log.Printf("reporting the unpaired structure: %v", err)
	case errors.Is(err, context.DeadlineExceeded):
		log.Printf("search timed out, reporting the best structures found")
	case err != nil:
		log.Fatalf("failed to fold the sequence: %v", err)
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			log.Fatalf("failed to create the output file: %v", err)
		}
		defer f.Close()
		out = f
	}

	if asJSON || withGraph {
		err = fold.WriteJSON(out, res)
	} else {
		err = fold.WritePlain(out, res)
	}
	if err != nil {
		log.Fatalf("failed to write results: %v", err)
	}
}

// readSequence returns the raw sequence from the positional argument
// or the first record of the FASTA file behind --in
func readSequence(args []string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	if inPath == "" {
		return "", fmt.Errorf("pass a sequence as an argument or a FASTA file via --in")
	}

	f, err := os.Open(inPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var seq strings.Builder
	sawHeader := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			if sawHeader {
				break // only the first record
			}
			sawHeader = true
			continue
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	if seq.Len() == 0 {
		return "", fmt.Errorf("no sequence found in %s", inPath)
	}
	return seq.String(), nil
}
