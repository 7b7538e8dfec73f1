package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start a session that loads the config once and runs several commands",
		Long: `Start a session for editing a month: assign shifts, handle overtime requests
and re-validate without reloading the configuration between commands.

Type 'help' to see available commands, 'exit' or 'quit' to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\nRoster session started, type 'help' for commands")
			return runSession(siblingCommands(cmd), os.Stdin)
		},
	}
}

// siblingCommands indexes the root's runnable commands by name
func siblingCommands(cmd *cobra.Command) map[string]*cobra.Command {
	commands := make(map[string]*cobra.Command)
	for _, sub := range cmd.Parent().Commands() {
		switch sub.Name() {
		case "interactive", "completion", "help":
			continue
		}
		commands[sub.Name()] = sub
	}
	return commands
}

func runSession(commands map[string]*cobra.Command, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		if done := runLine(commands, scanner.Text()); done {
			fmt.Println("Bye")
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

// runLine executes one session line and reports whether the session should end.
// Commands run through RunE directly so PersistentPreRunE is not repeated.
func runLine(commands map[string]*cobra.Command, line string) bool {
	parts, err := parseCommandLine(line)
	if err != nil {
		fmt.Printf("%s✗ %v%s\n\n", colorRed, err, colorReset)
		return false
	}
	if len(parts) == 0 {
		return false
	}

	name, args := parts[0], parts[1:]
	switch name {
	case "exit", "quit":
		return true
	case "help":
		printSessionHelp(commands)
		return false
	}

	target, ok := commands[name]
	if !ok {
		fmt.Printf("%s✗ Unknown command: %s%s\n\n", colorRed, name, colorReset)
		return false
	}

	// Flags keep their values between runs unless reset
	target.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		_ = flag.Value.Set(flag.DefValue)
	})
	if err := target.ParseFlags(args); err != nil {
		fmt.Printf("%s✗ %v%s\n\n", colorRed, err, colorReset)
		return false
	}
	args = target.Flags().Args()

	if target.Args != nil {
		if err := target.Args(target, args); err != nil {
			fmt.Printf("%s✗ %v%s\n\n", colorRed, err, colorReset)
			return false
		}
	}
	if target.RunE != nil {
		if err := target.RunE(target, args); err != nil {
			fmt.Printf("%s✗ %v%s\n\n", colorRed, err, colorReset)
		}
	}
	return false
}

func printSessionHelp(commands map[string]*cobra.Command) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nAvailable commands:")
	for _, name := range names {
		fmt.Printf("  %-36s %s\n", commands[name].Use, commands[name].Short)
	}
	fmt.Printf("  %-36s %s\n\n", "exit, quit", "End the session")
}

// parseCommandLine splits a line into arguments; single or double quotes group words
func parseCommandLine(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		quoted  bool
	)

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			quoted = true
		case unicode.IsSpace(r):
			if current.Len() > 0 || quoted {
				args = append(args, current.String())
				current.Reset()
				quoted = false
			}
		default:
			current.WriteRune(r)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", quote)
	}
	if current.Len() > 0 || quoted {
		args = append(args, current.String())
	}

	return args, nil
}
