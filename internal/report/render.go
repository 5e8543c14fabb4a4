package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/markwingerd/dft-old/internal/game/catalog"
	"github.com/markwingerd/dft-old/internal/game/fitting"
)

// EmptySlot labels an unused slot in the slot table.
const EmptySlot = "[empty]"

// Renderer writes report sections to an io.Writer.
type Renderer struct {
	w       io.Writer
	palette Palette
}

// NewRenderer returns a Renderer writing to w, colorized when color is true.
func NewRenderer(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, palette: Palette{Enabled: color}}
}

func (r *Renderer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
}

func (r *Renderer) heading(title string) error {
	_, err := fmt.Fprintln(r.w, r.palette.Colorize(Bold+Cyan, title))
	return err
}

// Slots writes one row per slot of f: fitted items then empty placeholders.
func (r *Renderer) Slots(f *fitting.Fitting) error {
	if err := r.heading(f.Dropsuit().Name); err != nil {
		return err
	}
	tw := r.table()
	fmt.Fprintln(tw, "SLOT\tITEM\tCPU\tPG")
	for _, row := range f.AllModules() {
		if row.Empty {
			fmt.Fprintf(tw, "%s\t%s\t\t\n", row.Icon, EmptySlot)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Icon, row.Name, num(row.CPU), num(row.PG))
	}
	return tw.Flush()
}

// Summary writes the resource budget and every derived statistic.
func (r *Renderer) Summary(s fitting.Summary) error {
	if err := r.heading("Resources"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.w, r.resource("CPU", s.CPU, s.MaxCPU, s.CPUOver)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.w, r.resource("PG", s.PG, s.MaxPG, s.PGOver)); err != nil {
		return err
	}
	if err := r.heading("Statistics"); err != nil {
		return err
	}
	tw := r.table()
	for _, stat := range []struct {
		name  string
		value float64
	}{
		{"Shield HP", s.ShieldHP},
		{"Shield recharge", s.ShieldRecharge},
		{"Shield recharge delay", s.ShieldRechargeDelay},
		{"Depleted recharge delay", s.ShieldDepletedRechargeDelay},
		{"Armor HP", s.ArmorHP},
		{"Armor repair rate", s.ArmorRepairRate},
		{"Movement speed", s.MovementSpeed},
		{"Sprint speed", s.SprintSpeed},
		{"Scan profile", s.ScanProfile},
		{"Stamina", s.Stamina},
	} {
		fmt.Fprintf(tw, "%s\t%s\n", stat.name, num(stat.value))
	}
	return tw.Flush()
}

func (r *Renderer) resource(label string, used, max float64, over string) string {
	line := fmt.Sprintf("%-4s %s / %s", label+":", num(used), num(max))
	if over == "" {
		return r.palette.Colorize(Green, line)
	}
	return r.palette.Colorize(Red, line+" ("+over+")")
}

// Members writes a catalog category listing with CPU and PG costs.
func (r *Renderer) Members(category string, members []catalog.Member) error {
	if err := r.heading(category); err != nil {
		return err
	}
	tw := r.table()
	for _, m := range members {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", m.Name, num(m.CPU), num(m.PG))
	}
	return tw.Flush()
}

// Names writes a titled list, one name per line.
func (r *Renderer) Names(title string, names []string) error {
	if err := r.heading(title); err != nil {
		return err
	}
	if len(names) == 0 {
		_, err := fmt.Fprintln(r.w, r.palette.Colorize(Dim, "  (none)"))
		return err
	}
	for _, n := range names {
		if _, err := fmt.Fprintf(r.w, "  %s\n", n); err != nil {
			return err
		}
	}
	return nil
}

// Rejected writes a warning for an add that left the fitting unchanged.
func (r *Renderer) Rejected(name string, res fitting.AddResult) error {
	_, err := fmt.Fprintln(r.w, r.palette.Colorf(Yellow, "%s not fitted: %s (%s)", name, res.Reason, res.Slot.Key()))
	return err
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
