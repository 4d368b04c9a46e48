package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gray-logic-dpt/internal/bridges/knx"
	"github.com/nerrad567/gray-logic-dpt/internal/dpt"
	"github.com/nerrad567/gray-logic-dpt/internal/dpt/export"
)

// Command flags
var (
	outputFormat string
	groupAddress string
	familyFilter int
	exportFormat string
	exportPath   string
)

const formatText = "text"

func init() {
	decodeCmd.Flags().StringVar(&outputFormat, "format", formatText, "Output format (text, json, yaml)")
	parseCmd.Flags().StringVar(&outputFormat, "format", formatText, "Output format (text, json, yaml)")
	parseCmd.Flags().StringVar(&groupAddress, "ga", "", "Also print a GroupValue_Write telegram for this group address")
	listCmd.Flags().IntVar(&familyFilter, "family", 0, "Only list types of this main number")
	exportCmd.Flags().StringVar(&exportFormat, "format", string(export.FormatYAML), "Output format (yaml, json, cbor)")
	exportCmd.Flags().StringVarP(&exportPath, "out", "o", "", "Write to file instead of stdout")

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
}

// decodeCmd turns bus bytes into a value
var decodeCmd = &cobra.Command{
	Use:   "decode <dpt> <hex>...",
	Short: "Decode a payload",
	Long: `Decode a bus payload with a datapoint type.

The type is any registered id or alias. The payload is hexadecimal, with
or without a 0x prefix, and may be split over several arguments.`,
	Example: `  # 2-octet float temperature
  dptctl decode 9.001 0c33

  # Date time as JSON
  dptctl decode DPST-19-1 0x7C 06 0F CE 1E 23 01 80 --format json`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDecode,
}

func runDecode(cmd *cobra.Command, args []string) error {
	t, err := dpt.Default().Lookup(args[0])
	if err != nil {
		return err
	}
	data, err := parseHex(args[1:])
	if err != nil {
		return err
	}
	v, err := dpt.ParseBytes(t, data)
	if err != nil {
		return err
	}
	return printValue(cmd.OutOrStdout(), v, outputFormat)
}

// parseHex joins hex arguments, each optionally 0x-prefixed.
func parseHex(args []string) ([]byte, error) {
	var sb strings.Builder
	for _, a := range args {
		a = strings.TrimPrefix(strings.TrimPrefix(a, "0x"), "0X")
		sb.WriteString(a)
	}
	data, err := hex.DecodeString(sb.String())
	if err != nil {
		return nil, fmt.Errorf("invalid hex payload %q: %w", strings.Join(args, " "), err)
	}
	return data, nil
}

// parseCmd turns user tokens into a value
var parseCmd = &cobra.Command{
	Use:   "parse <dpt> <token>...",
	Short: "Parse a value and show its encoding",
	Long: `Parse a value typed in the type's own syntax, or as 0x-prefixed hex,
and print its text form and bus encoding.`,
	Example: `  dptctl parse 9.001 21.5
  dptctl parse 1.001 on --ga 0/0/1
  dptctl parse 20.102 comfort --format json
  dptctl parse 10.001 14:30 wednesday`,
	Args: cobra.MinimumNArgs(2),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	t, err := dpt.Default().Lookup(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if groupAddress == "" {
		v, err := dpt.ParseTokens(t, args[1:]...)
		if err != nil {
			return err
		}
		return printValue(out, v, outputFormat)
	}

	ga, err := knx.ParseGroupAddress(groupAddress)
	if err != nil {
		return err
	}
	tg, v, err := knx.EncodeWrite(t, ga, args[1:]...)
	if err != nil {
		return err
	}
	if err := printValue(out, v, outputFormat); err != nil {
		return err
	}
	fmt.Fprintf(out, "telegram: %s\n", hex.EncodeToString(tg.Encode()))
	return nil
}

func printValue(w io.Writer, v dpt.Value, format string) error {
	if format == formatText || format == "" {
		fmt.Fprintf(w, "%s %s\n", v.Type().ID(), v.Type().Description())
		fmt.Fprintf(w, "  value: %s\n", v.Text())
		fmt.Fprintf(w, "  bytes: %s\n", hex.EncodeToString(v.Bytes()))
		return nil
	}

	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	if f == export.FormatCBOR {
		return fmt.Errorf("format %q is not printable, use export for binary output", format)
	}
	return export.Encode(w, export.Value(v), f)
}

// listCmd prints the registered types
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered datapoint types",
	Example: `  dptctl list
  dptctl list --family 9`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	reg := dpt.Default()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tALIASES\tUNIT\tDESCRIPTION")

	n := 0
	for _, t := range reg.Types() {
		if familyFilter > 0 {
			if major, _, ok := dpt.SplitID(t.ID()); !ok || major != familyFilter {
				continue
			}
		}
		unit, _ := t.Unit()
		aliases := reg.Aliases(t)[1:]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID(), strings.Join(aliases, ","), unit, t.Description())
		n++
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if n == 0 {
		return fmt.Errorf("no datapoint types in family %d", familyFilter)
	}
	return nil
}

// exportCmd writes the catalog document
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the datapoint type catalog",
	Example: `  dptctl export
  dptctl export --format json
  dptctl export --format cbor --out catalog.cbor`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	f, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if exportPath != "" {
		file, err := os.Create(exportPath) //nolint:gosec // path is supplied by the operator
		if err != nil {
			return fmt.Errorf("creating %s: %w", exportPath, err)
		}
		defer file.Close()
		w = file
	}

	if err := export.Encode(w, export.Catalog(dpt.Default()), f); err != nil {
		return err
	}
	if exportPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d types to %s\n", dpt.Default().Len(), exportPath)
	}
	return nil
}
