package console

import (
	"strings"

	"github.com/c-bata/go-prompt"
	"golang.org/x/exp/slices"
)

// positionCompleter yields the candidates for one word position of a command line
type positionCompleter func() []prompt.Suggest

// completerChain holds one completer per word position of a command:
// the command name, each argument in order, and a trailing sentinel.
type completerChain struct {
	command   *Command
	positions []positionCompleter
}

func newCompleterChain(cmd *Command) *completerChain {
	positions := make([]positionCompleter, 0, len(cmd.Args)+2)
	positions = append(positions, func() []prompt.Suggest {
		return []prompt.Suggest{{Text: cmd.Name, Description: cmd.GetDescription()}}
	})
	for _, arg := range cmd.Args {
		positions = append(positions, arg.Candidates)
	}
	// sentinel: nothing follows the last argument
	positions = append(positions, func() []prompt.Suggest { return nil })

	return &completerChain{command: cmd, positions: positions}
}

// candidates returns the candidates for the word at index pos
func (c *completerChain) candidates(pos int) []prompt.Suggest {
	if pos < 0 || pos >= len(c.positions) {
		return nil
	}
	return c.positions[pos]()
}

func (c *completerChain) matches(word string) bool {
	return c.command.Name == word || slices.Contains(c.command.Aliases, word)
}

// Completer combines the chains of every registered command.
// It implements readline.AutoCompleter.
type Completer struct {
	chains  []*completerChain
	resolve func(string) *Command
}

func newCompleter(resolve func(string) *Command) *Completer {
	return &Completer{resolve: resolve}
}

func (c *Completer) add(chain *completerChain) {
	c.chains = append(c.chains, chain)
}

func (c *Completer) remove(cmd *Command) {
	c.chains = slices.DeleteFunc(c.chains, func(chain *completerChain) bool {
		return chain.command == cmd
	})
}

// Complete returns the candidates matching the last word of words.
// The first word selects the command chain; the word count selects the position.
func (c *Completer) Complete(words []string) []prompt.Suggest {
	if len(words) == 0 {
		words = []string{""}
	}
	last := words[len(words)-1]

	if len(words) == 1 {
		return prompt.FilterHasPrefix(c.commandNames(), last, false)
	}

	var candidates []prompt.Suggest
	for _, chain := range c.chains {
		if !c.selects(chain, words[0]) {
			continue
		}
		candidates = append(candidates, chain.candidates(len(words)-1)...)
	}
	return prompt.FilterHasPrefix(candidates, last, false)
}

// selects reports whether word invokes the command of chain
func (c *Completer) selects(chain *completerChain, word string) bool {
	if c.resolve != nil {
		return c.resolve(word) == chain.command
	}
	return chain.matches(word)
}

// commandNames returns every command name ordered by group, then by name
func (c *Completer) commandNames() []prompt.Suggest {
	chains := slices.Clone(c.chains)
	slices.SortStableFunc(chains, func(a, b *completerChain) int {
		if g := strings.Compare(a.command.GetGroup(), b.command.GetGroup()); g != 0 {
			return g
		}
		return strings.Compare(a.command.Name, b.command.Name)
	})

	var names []prompt.Suggest
	for _, chain := range chains {
		names = append(names, chain.candidates(0)...)
	}
	return names
}

// Do implements readline.AutoCompleter. Candidates are returned as the
// remainder of the word under the cursor followed by a space.
func (c *Completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	if pos > len(line) {
		pos = len(line)
	}
	words := splitWords(string(line[:pos]))
	lastWord := ""
	if len(words) > 0 {
		lastWord = words[len(words)-1]
	}

	seen := make(map[string]struct{})
	result := [][]rune{}
	for _, s := range c.Complete(words) {
		if _, dup := seen[s.Text]; dup {
			continue
		}
		seen[s.Text] = struct{}{}
		result = append(result, []rune(strings.TrimPrefix(s.Text, lastWord)+" "))
	}
	return result, len([]rune(lastWord))
}

// splitWords splits an input line on runs of spaces and tabs.
// A trailing blank yields an empty last word, which is the word being typed.
func splitWords(line string) []string {
	if line == "" {
		return []string{}
	}

	words := make([]string, 0)
	var word strings.Builder
	lastWasSpace := true

	for _, r := range line {
		switch r {
		case ' ', '\t':
			if !lastWasSpace && word.Len() > 0 {
				words = append(words, word.String())
				word.Reset()
			}
			lastWasSpace = true
		default:
			word.WriteRune(r)
			lastWasSpace = false
		}
	}

	if word.Len() > 0 {
		words = append(words, word.String())
	}
	if lastWasSpace {
		words = append(words, "")
	}
	return words
}
