package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/telwick/selq"
	"github.com/telwick/selq/htmlnode"
)

var (
	firstOnly bool
	countOnly bool
	showText  bool
	attrName  string
	noColor   bool

	logger *zap.Logger
)

var (
	fileStyle = color.New(color.FgCyan, color.Bold)
	tagStyle  = color.New(color.FgYellow, color.Bold)
	attrStyle = color.New(color.FgGreen)
)

var rootCmd = &cobra.Command{
	Use:   "selq <selector> [files...]",
	Short: "selq queries HTML documents with CSS selectors",
	Long: `selq compiles a CSS selector and runs it over HTML documents,
printing the matching elements. Reads stdin when no files are given.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
		ev, err := selq.Parse(args[0])
		if err != nil {
			logger.Fatal("Invalid selector", zap.Error(err))
		}

		files := args[1:]
		if len(files) == 0 {
			if err := queryReader(cmd.OutOrStdout(), ev, "", os.Stdin); err != nil {
				logger.Fatal("Failed to query stdin", zap.Error(err))
			}
			return
		}
		for _, path := range files {
			f, err := os.Open(path)
			if err != nil {
				logger.Fatal("Failed to open input", zap.String("file", path), zap.Error(err))
			}
			err = queryReader(cmd.OutOrStdout(), ev, path, f)
			f.Close()
			if err != nil {
				logger.Fatal("Failed to query input", zap.String("file", path), zap.Error(err))
			}
		}
	},
}

// Execute runs the selq command.
func Execute() error {
	logger, _ = zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolVar(&firstOnly, "first", false, "Print only the first match per document")
	rootCmd.Flags().BoolVar(&countOnly, "count", false, "Print only the number of matches per document")
	rootCmd.Flags().BoolVar(&showText, "text", false, "Print the matched elements' text instead of their outline")
	rootCmd.Flags().StringVar(&attrName, "attr", "", "Print the named attribute of each match")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func queryReader(w io.Writer, ev selq.Evaluator, name string, r io.Reader) error {
	root, err := htmlnode.Parse(r)
	if err != nil {
		return err
	}

	var matches []*htmlnode.Element
	if firstOnly {
		if m := htmlnode.SelectFirst(ev, root); m != nil {
			matches = append(matches, m)
		}
	} else {
		matches = htmlnode.Select(ev, root)
	}

	if countOnly {
		if name != "" {
			fmt.Fprintf(w, "%s: %d\n", fileStyle.Sprint(name), len(matches))
		} else {
			fmt.Fprintf(w, "%d\n", len(matches))
		}
		return nil
	}
	for _, m := range matches {
		fmt.Fprintln(w, formatMatch(name, m))
	}
	return nil
}

// formatMatch renders one matched element per the output flags: its
// text, a single attribute, or a tag#id.class outline.
func formatMatch(name string, el *htmlnode.Element) string {
	prefix := ""
	if name != "" {
		prefix = fileStyle.Sprint(name) + ": "
	}
	switch {
	case showText:
		return prefix + el.Text()
	case attrName != "":
		return prefix + attrStyle.Sprint(el.Attr(attrName))
	default:
		return prefix + tagStyle.Sprint(outline(el))
	}
}

func outline(el *htmlnode.Element) string {
	s := el.TagName()
	if id := el.ID(); id != "" {
		s += "#" + id
	}
	for _, c := range el.Classes() {
		s += "." + c
	}
	return s
}
