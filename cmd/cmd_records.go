package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"employee-bot/internal/app/controller"
)

var searchTerm string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees sorted by name",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one employee",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one employee",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	list := controller.NewList(a.employees, logger)
	defer list.Close()
	if err := list.Activate(commandContext(cmd)); err != nil {
		return err
	}
	list.Search(searchTerm)

	visible := list.Visible()
	out := cmd.OutOrStdout()
	if len(visible) == 0 {
		fmt.Fprintln(out, "No employees found.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESIGNATION\tEXPERIENCE")
	for _, r := range visible {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.ID, r.Employment.EmployeeName, r.Employment.Designation, r.Employment.Experience)
	}
	return tw.Flush()
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	rec, err := controller.NewDetail(a.employees).Load(commandContext(cmd), id)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), controller.Describe(rec))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	list := controller.NewList(a.employees, logger)
	if err := list.Delete(commandContext(cmd), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Employee %d deleted.\n", id)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid employee id %q", s)
	}
	return id, nil
}
