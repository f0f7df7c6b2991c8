package console

import (
	"strings"

	"blecmd/console/format"

	"github.com/c-bata/go-prompt"
)

// help table column widths; the description takes the rest of the line
const (
	helpCommandWidth   = 20
	helpAliasesWidth   = 15
	helpArgumentsWidth = 29
	helpSpacer         = " "
)

func (r *Registry) helpCommand() *Command {
	return &Command{
		Name:        "help",
		Aliases:     []string{"h", "?", "man"},
		Description: "Shows this help. Specifying a command name as first argument shows more help for the given command.",
		Group:       GroupGeneral,
		Args:        []ArgSpec{{Name: "command", Source: EveryTime(r.commandCandidates)}},
		Execute: func(ctx *Context, args []string) ([]string, error) {
			var lines []string
			if len(args) == 1 {
				if cmd, ok := r.Lookup(args[0]); ok {
					return cmd.ExtendedHelp(ctx), nil
				}
				lines = append(lines, "", "Unknown command "+args[0])
			}
			return append(lines, r.helpTable(ctx.Formatter)...), nil
		},
		Help: func(ctx *Context) []string {
			return []string{
				"",
				"help [command]",
				"  Without arguments lists every supported command.",
				"  With a command name or alias shows the detailed help of that command.",
				"",
			}
		},
	}
}

func exitCommand() *Command {
	return &Command{
		Name:        "exit",
		Aliases:     []string{"quit"},
		Description: "Exit this shell",
		Group:       GroupGeneral,
		Execute: func(ctx *Context, args []string) ([]string, error) {
			return nil, ErrExit
		},
	}
}

// commandCandidates offers every name and alias for "help <command>"
func (r *Registry) commandCandidates() []prompt.Suggest {
	var suggests []prompt.Suggest
	for _, cmd := range r.PrimaryCommands() {
		suggests = append(suggests, prompt.Suggest{Text: cmd.Name, Description: cmd.GetDescription()})
		for _, alias := range r.reachableAliases(cmd) {
			suggests = append(suggests, prompt.Suggest{Text: alias, Description: "alias of " + cmd.Name})
		}
	}
	return suggests
}

// helpTable lists each command once with its aliases, arguments and description
func (r *Registry) helpTable(f *format.Formatter) []string {
	descriptionWidth := r.helpWidth - helpCommandWidth - helpAliasesWidth - helpArgumentsWidth - 3*len(helpSpacer)
	table := format.NewTableColumnFormatter(helpSpacer, helpCommandWidth, helpAliasesWidth, helpArgumentsWidth, descriptionWidth).
		KeepWhole(0)

	lines := []string{
		"",
		"Supported Commands:",
		table.FillLine('='),
	}
	lines = append(lines, table.FormatLine("Command", "Aliases", "Arguments", "Description")...)
	lines = append(lines, table.FillLine('-'))

	for _, cmd := range r.PrimaryCommands() {
		args := make([]string, 0, len(cmd.Args))
		for _, a := range cmd.Args {
			args = append(args, a.String())
		}
		lines = append(lines, table.FormatLine(
			f.Render(format.Styled(cmd.Name, format.Cyan)),
			f.Render(aliasList(r.reachableAliases(cmd))),
			strings.Join(args, ", "),
			cmd.GetDescription(),
		)...)
		lines = append(lines, "")
	}

	return append(lines, "Use help [command] to get additional help for each command")
}

// reachableAliases returns the aliases of cmd that still map to it
func (r *Registry) reachableAliases(cmd *Command) []string {
	var aliases []string
	for _, alias := range cmd.Aliases {
		if r.commands[alias] == cmd {
			aliases = append(aliases, alias)
		}
	}
	return aliases
}

// aliasList renders aliases as "[a, b]", or nothing when there are none
func aliasList(aliases []string) *format.Text {
	text := format.NewText("")
	if len(aliases) == 0 {
		return text
	}
	text.AppendStyled("[", format.Yellow)
	for i, alias := range aliases {
		if i > 0 {
			text.AppendStyled(", ", format.Yellow)
		}
		text.AppendStyled(alias, format.Blue)
	}
	return text.AppendStyled("]", format.Yellow)
}
