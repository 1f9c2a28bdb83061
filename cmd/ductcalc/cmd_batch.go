package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"SizeWise/internal/calc/batch"
	"SizeWise/internal/calc/importer"
)

var batchWorkers int

var batchCmd = &cobra.Command{
	Use:   "batch <segments.xlsx>",
	Short: "Friction loss for every duct segment in a workbook",
	Long: `Reads duct segments from the first sheet of an xlsx workbook and
calculates each one. The header row is skipped; columns are
id, velocity, diameter, length, material, age, surface, method,
temperature, altitude, humidity. Only the first four are required.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel workers (0 = one per CPU)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	segments, rowErrs, err := importer.ReadSegments(f)
	if err != nil {
		return err
	}
	for _, re := range rowErrs {
		log.WithFields(log.Fields{"file": args[0], "row": re.Row}).Warn(re.Err)
	}

	res, err := batch.Calculate(cmd.Context(), eng, segments, batchWorkers)
	if err != nil {
		return err
	}
	return printJSON(cmd, struct {
		batch.Result
		Skipped []importer.RowError `json:"skipped_rows,omitempty"`
	}{res, rowErrs})
}
