package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/hieroset/backend/gfx"
	"github.com/npillmayer/hieroset/core"
	"github.com/npillmayer/hieroset/core/parameters"
	"github.com/npillmayer/hieroset/engine/glyphtree"
	"github.com/npillmayer/hieroset/input/restree"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// app holds the state shared by all sub-commands.
type app struct {
	configPath string
	traceLevel string
	conf       testconfig.Conf
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "hieroset",
		Short:         "Typeset hieroglyphic inscriptions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(a.configPath)
			if err != nil {
				return err
			}
			a.conf = conf
			return setupTracing(conf, a.traceLevel)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "TOML configuration file")
	root.PersistentFlags().StringVar(&a.traceLevel, "trace", "Error", "trace level [Debug|Info|Error]")
	root.AddCommand(a.newRenderCmd(), a.newCheckCmd(), a.newParamsCmd())
	return root
}

// --- render ----------------------------------------------------------------

type renderOpts struct {
	output    string  // PNG file, defaults to the input name with suffix .png
	zoom      float64 // resampling of the final image
	unitPx    float64 // overrides hieroset.unitpx
	direction string  // overrides the direction of the tree
	strict    bool    // fail on problems like unknown signs
}

func (a *app) newRenderCmd() *cobra.Command {
	opts := renderOpts{}
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a JSON inscription tree to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PNG file")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", 1, "scale the rendered image by this factor")
	cmd.Flags().Float64Var(&opts.unitPx, "unit", 0, "font size in pixels")
	cmd.Flags().StringVar(&opts.direction, "dir", "", "text direction [hlr|hrl|vlr|vrl]")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error if problems were reported")
	return cmd
}

func (a *app) render(ctx context.Context, input string, opts renderOpts) error {
	frag, err := a.readTree(input, opts)
	if err != nil {
		return err
	}
	ts, err := newTypesetter(ctx, a.conf)
	if err != nil {
		return err
	}
	res, err := ts.Render(ctx, frag)
	if res == nil {
		return err
	}
	reportProblems(err)
	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
	}
	if err := writePNG(output, gfx.Scaled(res.Image, opts.zoom)); err != nil {
		return err
	}
	pterm.Success.Printf("wrote %s (%d groups, %d passes)\n", output, len(res.Groups), res.Passes)
	if opts.strict && err != nil {
		return core.WrapError(err, core.Codes(err)[0], "rendering %s reported problems", input)
	}
	return nil
}

func (a *app) readTree(input string, opts renderOpts) (*glyphtree.Fragment, error) {
	frag, err := restree.ReadFile(input)
	if err != nil {
		return nil, err
	}
	if opts.direction != "" {
		if frag.Direction, err = glyphtree.ParseDirection(opts.direction); err != nil {
			return nil, err
		}
	}
	if opts.unitPx > 0 {
		a.conf.Set("hieroset.unitpx", strconv.FormatFloat(opts.unitPx, 'g', -1, 64))
	}
	return frag, nil
}

// reportProblems lists the problems collected while rendering. They do not
// prevent output.
func reportProblems(err error) {
	for _, msg := range userMessages(err) {
		pterm.Warning.Println(msg)
	}
}

// userMessages splits joined errors and returns their user messages.
func userMessages(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, userMessages(e)...)
		}
		return msgs
	}
	return []string{core.UserMessage(err)}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot create %s", path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return core.WrapError(err, core.EINTERNAL, "cannot encode %s", path)
	}
	return f.Close()
}

// --- check -----------------------------------------------------------------

func (a *app) newCheckCmd() *cobra.Command {
	var opts renderOpts
	var normalize bool
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate and format a JSON inscription tree without drawing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frag, err := a.readTree(args[0], opts)
			if err != nil {
				return err
			}
			if normalize {
				return restree.Write(os.Stdout, frag)
			}
			return a.check(cmd.Context(), frag)
		},
	}
	cmd.Flags().BoolVar(&normalize, "normalize", false, "print the tree as normalized JSON")
	cmd.Flags().Float64Var(&opts.unitPx, "unit", 0, "font size in pixels")
	cmd.Flags().StringVar(&opts.direction, "dir", "", "text direction [hlr|hrl|vlr|vrl]")
	return cmd
}

// check formats frag and lists the extent of its top-level groups.
func (a *app) check(ctx context.Context, frag *glyphtree.Fragment) error {
	ts, err := newTypesetter(ctx, a.conf)
	if err != nil {
		return err
	}
	fmtg, err := ts.Format(ctx, frag)
	if err != nil {
		return err
	}
	reportProblems(fmtg.Err())
	data := pterm.TableData{{"#", "group", "width", "height"}}
	if frag.Hiero != nil {
		for i, g := range frag.Hiero.Groups {
			sz := fmtg.GroupSize(g)
			data = append(data, []string{strconv.Itoa(i + 1), g.String(),
				fmt.Sprintf("%.3f", sz.W), fmt.Sprintf("%.3f", sz.H)})
		}
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	size := fmtg.Size()
	pterm.Info.Printf("%s inscription of %.3f×%.3f units, %.0f×%.0f pixels\n",
		frag.Direction, size.W, size.H, ts.Params().Px(size.W), ts.Params().Px(size.H))
	return nil
}

// --- params ----------------------------------------------------------------

func (a *app) newParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "List the typesetting parameters and their configured values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := parameters.FromConfig(a.conf); err != nil {
				return err
			}
			keys := parameters.Keys()
			sort.Strings(keys)
			data := pterm.TableData{{"key", "value"}}
			for _, k := range keys {
				v := a.conf.GetString("hieroset." + k)
				if v == "" {
					v = "(default)"
				}
				data = append(data, []string{"hieroset." + k, v})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}
}
