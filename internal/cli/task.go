package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmot-dev/marmot/pkg/platform"
)

// taskCommand creates the task command group.
func (c *CLI) taskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Inspect project tasks",
	}

	cmd.AddCommand(c.taskListCommand())
	cmd.AddCommand(c.taskDependsOnCommand())

	return cmd
}

// taskListCommand creates the "task list" subcommand.
func (c *CLI) taskListCommand() *cobra.Command {
	var platformFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks available on a platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject()
			if err != nil {
				return err
			}
			plat, err := resolvePlatform(platformFlag)
			if err != nil {
				return err
			}

			names := p.TaskNames(&plat)
			if len(names) == 0 {
				printInfo("No tasks defined")
				return nil
			}
			for _, name := range names {
				t := p.TaskOpt(name, &plat)
				line := StyleHighlight.Render(name) + "  " + StyleDim.Render(t.Cmd)
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&platformFlag, "platform", "p", "", "target platform (defaults to the current host)")
	return cmd
}

// taskDependsOnCommand creates the "task depends-on" subcommand, listing the
// tasks whose dependency lists reference the given task on the host platform.
func (c *CLI) taskDependsOnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "depends-on <task>",
		Short: "List tasks that depend on the given task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject()
			if err != nil {
				return err
			}

			name := args[0]
			host := platform.Current()
			if p.TaskOpt(name, &host) == nil {
				return fmt.Errorf("no task named %q on %s", name, host)
			}

			dependents := p.TaskNamesDependingOn(name)
			if len(dependents) == 0 {
				printInfo("No tasks depend on %s", StyleHighlight.Render(name))
				return nil
			}
			for _, dep := range dependents {
				fmt.Println(StyleValue.Render(dep))
			}
			return nil
		},
	}
}
