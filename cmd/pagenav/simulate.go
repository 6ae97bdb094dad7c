package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dgallion1/pagenav/internal/dom"
	"github.com/dgallion1/pagenav/internal/nav"
	"github.com/dgallion1/pagenav/internal/observer"
	"github.com/dgallion1/pagenav/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	simHeight       float64
	simLineHeight   float64
	simCharsPerLine int
	simScroll       []float64
	simClick        []string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <file>",
	Short: "Lay a document out in a virtual viewport and report the current section",
	Long: `simulate builds the in-page navigation for a document inside a virtual
viewport, lays its blocks out as lines of text, then replays the given
scroll offsets and link clicks, printing the current section after each.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		log := newLogger()
		w := pipeline.NewWorker(log, cfg.Shell(), cfg.NavConfig(), cfg.PDFFallbackPdftotext)
		doc, err := w.Parse(data, filepath.Base(args[0]))
		if err != nil {
			return err
		}

		vp := observer.NewViewport(simHeight)
		comp := nav.New(doc, vp.Factory(), vp, nav.WithConfig(cfg.NavConfig()), nav.WithLogger(log))
		panels, err := comp.Init(nil)
		if len(panels) == 0 {
			if err == nil {
				err = pipeline.ErrNoPanel
			}
			return err
		}
		defer comp.Close()

		out := cmd.OutOrStdout()
		total := vp.LayoutFlow(doc.Root(), simLineHeight, simCharsPerLine)
		fmt.Fprintf(out, "layout: %d sections, %.0fpx content, %.0fpx viewport\n",
			len(panels[0].Sections), total, simHeight)
		vp.Evaluate()
		report(out, "load", vp, comp)

		for _, y := range simScroll {
			vp.SetScroll(y)
			report(out, fmt.Sprintf("scroll %.0f", y), vp, comp)
		}
		for _, id := range simClick {
			links := comp.Tracker().Links(id)
			if len(links) == 0 {
				return fmt.Errorf("%w: %s", nav.ErrLinkNotFound, id)
			}
			doc.Dispatch(dom.NewEvent(dom.EventClick, links[0].Node))
			vp.Settle()
			report(out, "click "+id, vp, comp)
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().Float64Var(&simHeight, "height", 800, "viewport height in px")
	simulateCmd.Flags().Float64Var(&simLineHeight, "line-height", 24, "line height in px")
	simulateCmd.Flags().IntVar(&simCharsPerLine, "chars-per-line", 80, "characters per laid-out line")
	simulateCmd.Flags().Float64SliceVar(&simScroll, "scroll", nil, "scroll offsets to visit, in order")
	simulateCmd.Flags().StringSliceVar(&simClick, "click", nil, "section ids whose links are clicked after scrolling")
	rootCmd.AddCommand(simulateCmd)
}

func report(out io.Writer, step string, vp *observer.Viewport, comp *nav.Component) {
	cur := comp.Tracker().Current()
	if cur == nil {
		fmt.Fprintf(out, "%-14s y=%-7.0f current=-\n", step, vp.ScrollY())
		return
	}
	fmt.Fprintf(out, "%-14s y=%-7.0f current=%s %q\n", step, vp.ScrollY(), cur.ID, cur.Label)
}
