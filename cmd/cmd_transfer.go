package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"employee-bot/internal/codec"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all employees as JSON or YAML",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load employees from a JSON or YAML export",
	Long: `Reads a list of employees. Every record is validated before any is
written. Records carrying an id overwrite that id, the rest are added.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runExport(cmd *cobra.Command, args []string) error {
	switch exportFormat {
	case "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q", exportFormat)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	records, err := a.employees.List(commandContext(cmd))
	if err != nil {
		return err
	}
	var data []byte
	if exportFormat == "yaml" {
		data, err = codec.EncodeYAML(records)
	} else {
		data, err = codec.EncodeJSONList(records)
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if exportOutput != "" {
		return os.WriteFile(exportOutput, data, 0o644)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runImport(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}
	records, err := codec.DecodeList(data)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	added, updated, err := a.employees.Import(commandContext(cmd), records)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d employees: %d added, %d updated.\n", added+updated, added, updated)
	return nil
}
