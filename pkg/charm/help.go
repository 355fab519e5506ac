package charm

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kr/text"
	"golang.org/x/term"
)

var Help = &Spec{
	Name:  "help",
	Usage: "help [command]",
	Short: "display help for a command",
	Long: `
For help on the top-level command just type "help".
For help on a sub-command, type "help command" where command is the name
of the command.`,
	HiddenFlags: "v",
	New: func(parent Command, f *flag.FlagSet) (Command, error) {
		c := &HelpCommand{}
		f.BoolVar(&c.vflag, "v", false, "show hidden commands and flags")
		return c, nil
	},
}

type HelpCommand struct {
	vflag bool
}

func (c *HelpCommand) Run(args []string) error {
	p, err := search(Help.Root(), args)
	if err != nil {
		return err
	}
	displayHelp(p, c.vflag)
	return nil
}

// search instantiates the commands named by args without parsing flags so
// that their flag sets can be displayed.
func search(root *Spec, args []string) (path, error) {
	inst, err := newInstance(nil, root)
	if err != nil {
		return nil, err
	}
	p := path{inst}
	for k, arg := range args {
		spec := p.last().spec.lookupSub(arg)
		if spec == nil {
			return nil, fmt.Errorf("no such command: %s", strings.Join(args[:k+1], " "))
		}
		inst, err := newInstance(p.last().command, spec)
		if err != nil {
			return nil, err
		}
		p = append(p, inst)
	}
	return p, nil
}

// flagMap returns the set of names in a comma-separated list.
func flagMap(names string) map[string]bool {
	m := make(map[string]bool)
	for _, name := range strings.Split(names, ",") {
		if name = strings.TrimSpace(name); name != "" {
			m[name] = true
		}
	}
	return m
}

const tab = "    "

func lineWidth() int {
	w, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || w <= 0 {
		w = 80
	}
	return w - len(tab) - 5
}

func formatParagraph(body string, width int) string {
	var chunks []string
	for _, paragraph := range strings.Split(strings.TrimSpace(body), "\n\n") {
		paragraph = text.Wrap(strings.Join(strings.Fields(paragraph), " "), width)
		chunks = append(chunks, text.Indent(paragraph, tab))
	}
	return strings.Join(chunks, "\n\n")
}

func header(heading string) string {
	return "\033[1m" + heading + "\033[0m"
}

func helpSection(w io.Writer, heading string, lines []string) {
	fmt.Fprintf(w, "%s\n%s%s\n\n", header(heading), tab, strings.Join(lines, "\n"+tab))
}

func displayHelp(p path, vflag bool) {
	w := os.Stderr
	inst := p.last()
	spec := inst.spec
	helpSection(w, "NAME", []string{p.pathname() + " - " + spec.Short})
	if spec.Usage != "" {
		helpSection(w, "USAGE", []string{spec.Usage})
	}
	if len(p) > 1 {
		helpSection(w, "OPTIONS", options(inst, vflag))
	} else {
		helpSection(w, "GLOBAL OPTIONS", options(inst, vflag))
	}
	if commands := commands(spec, vflag); len(commands) > 0 {
		helpSection(w, "COMMANDS", commands)
	}
	if spec.Long != "" {
		fmt.Fprintf(w, "%s\n%s\n\n", header("DESCRIPTION"), formatParagraph(spec.Long, lineWidth()))
	}
}

func options(inst *instance, vflag bool) []string {
	hidden := flagMap(inst.spec.HiddenFlags)
	var lines []string
	inst.flags.VisitAll(func(f *flag.Flag) {
		name := "-" + f.Name
		if hidden[f.Name] {
			if !vflag {
				return
			}
			name = "[" + name + "]"
		}
		line := name + " " + f.Usage
		if f.DefValue != "" {
			line = fmt.Sprintf("%s (default %q)", line, f.DefValue)
		}
		lines = append(lines, line)
	})
	if len(lines) == 0 {
		return []string{"no flags for this command"}
	}
	return lines
}

func commands(spec *Spec, vflag bool) []string {
	var lines []string
	for _, child := range spec.children {
		name := child.Name
		if child.Hidden {
			if !vflag {
				continue
			}
			name = "[" + name + "]"
		}
		lines = append(lines, name+" - "+child.Short)
	}
	return lines
}
