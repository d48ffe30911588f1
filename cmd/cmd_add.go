package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"employee-bot/internal/app/controller"
	"employee-bot/internal/app/intake"
	"employee-bot/internal/validator"
	"employee-bot/internal/wizard"
)

var errInputEnded = errors.New("input ended before the employee was submitted")

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Register an employee interactively",
	Long: `Asks for every field page by page. After each page its values are
shown and you can type next, back, edit <n>, submit or cancel.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	s := intake.NewSession()
	logger.Debug("registration started", zap.String("session", s.ID))

	p := s.Prompt()
	for {
		if p.Kind != intake.Review {
			askField(out, p)
			line, ok := readLine(in)
			if !ok {
				return errInputEnded
			}
			p, err = s.Answer(line)
			if err != nil {
				return err
			}
			continue
		}

		fmt.Fprintf(out, "\n%s:\n%s\n", p.Question, numbered(intake.Summary(s.State().Group(p.Page))))
		fmt.Fprintln(out, reviewHelp(p))
		fmt.Fprint(out, "> ")
		line, ok := readLine(in)
		if !ok {
			return errInputEnded
		}
		word, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		switch strings.ToLower(word) {
		case "next", "n":
			p, err = s.Next()
		case "back", "b":
			p, err = s.Back()
		case "edit", "e":
			fields := validator.Fields(p.Page)
			n, convErr := strconv.Atoi(strings.TrimSpace(arg))
			if convErr != nil || n < 1 || n > len(fields) {
				fmt.Fprintf(out, "! choose a field between 1 and %d\n", len(fields))
				continue
			}
			p, err = s.Edit(fields[n-1])
		case "submit", "s":
			rec, subErr := s.Submit()
			if subErr != nil {
				err = subErr
				break
			}
			reg := controller.NewRegistration(a.employees)
			if _, err := reg.Submit(commandContext(cmd), rec); err != nil {
				return err
			}
			st := reg.State()
			fmt.Fprintf(out, "%s (ID %d)\n", st.Added, st.ID)
			return nil
		case "cancel", "q":
			fmt.Fprintln(out, "Registration cancelled.")
			return nil
		default:
			fmt.Fprintln(out, "! unknown command")
			continue
		}
		if err != nil {
			fmt.Fprintln(out, "!", reviewError(err))
		}
	}
}

func askField(out io.Writer, p intake.Prompt) {
	if p.Failure != "" {
		fmt.Fprintln(out, "!", p.Failure)
	}
	fmt.Fprintf(out, "[%d/3 %s] %s", int(p.Page)+1, p.Page, p.Question)
	switch p.Kind {
	case intake.AskChoice:
		fmt.Fprintln(out)
		for i, o := range p.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, o)
		}
	case intake.AskDate:
		fmt.Fprint(out, " (YYYY-MM-DD)")
	case intake.AskDocument:
		fmt.Fprint(out, " (path or reference)")
	}
	if p.Current != "" {
		fmt.Fprintf(out, " [%s]", p.Current)
	}
	fmt.Fprint(out, ": ")
}

func readLine(in *bufio.Scanner) (string, bool) {
	if !in.Scan() {
		return "", false
	}
	return in.Text(), true
}

func numbered(summary string) string {
	lines := strings.Split(summary, "\n")
	for i, l := range lines {
		lines[i] = fmt.Sprintf("  %d. %s", i+1, l)
	}
	return strings.Join(lines, "\n")
}

func reviewHelp(p intake.Prompt) string {
	cmds := []string{"edit <n>"}
	if p.CanBack {
		cmds = append(cmds, "back")
	}
	if p.CanNext {
		cmds = append(cmds, "next")
	}
	if p.CanSubmit {
		cmds = append(cmds, "submit")
	}
	cmds = append(cmds, "cancel")
	return "Commands: " + strings.Join(cmds, ", ")
}

func reviewError(err error) string {
	switch {
	case errors.Is(err, wizard.ErrPageIncomplete):
		return "complete this page first"
	case errors.Is(err, wizard.ErrFirstPage):
		return "this is the first page"
	case errors.Is(err, wizard.ErrLastPage):
		return "this is the last page, submit instead"
	case errors.Is(err, wizard.ErrNotLastPage):
		return "submit is available on the last page"
	}
	return err.Error()
}
