// Package initcmd writes a starter gencode.toml and example manifest. Every
// file goes through codefile, so reruns skip identical files and refuse to
// replace edited ones unless forced.
package initcmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/unkn0wn-root/gencode/internal/errdef"
)

type Command struct {
	store TemplateStore
}

// NewCommand uses the built-in templates when store is nil.
func NewCommand(store TemplateStore) *Command {
	if store == nil {
		store = BuiltinTemplates{}
	}
	return &Command{store: store}
}

// Run scaffolds with the built-in templates.
func Run(o Opt) error {
	return NewCommand(nil).Run(o)
}

func (c *Command) Run(o Opt) error {
	o = withDefaults(o)
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.List {
		return c.list(o.Out)
	}

	tpl, ok := c.store.Find(o.Template)
	if !ok {
		return errdef.New(errdef.CodeConfig,
			"init: unknown template %q (available: %s)",
			o.Template, strings.Join(c.store.Names(), ", "))
	}
	r := runner{o: o, t: tpl}
	return r.run()
}

func (c *Command) list(w io.Writer) error {
	width := c.store.Width()
	for _, t := range c.store.List() {
		line := runewidth.FillRight(t.Name, width) + "  " + t.Description
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("init: list templates: %w", err)
		}
	}
	return nil
}
