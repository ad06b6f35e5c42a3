package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"audiyo/internal/audio"
	"audiyo/internal/tui"
)

var defaultShowTypes = []string{"input", "output", "system"}

func (c *cli) newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, d := range c.registry.InputDevices() {
				printDevice(w, audio.RoleInput.String(), d)
			}
			for _, d := range c.registry.OutputDevices() {
				printDevice(w, audio.RoleOutput.String(), d)
			}
			return nil
		},
	}
}

func (c *cli) newShowCommand() *cobra.Command {
	var types []string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current default devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.show(cmd.OutOrStdout(), types)
		},
	}

	showCmd.Flags().StringSliceVarP(&types, "types", "t", defaultShowTypes,
		"Roles to show, in order: input, output, system")

	return showCmd
}

func (c *cli) show(w io.Writer, types []string) error {
	roles := make([]audio.Role, 0, len(types))
	for _, t := range types {
		role, err := audio.ParseRole(t)
		if err != nil {
			return err
		}
		roles = append(roles, role)
	}

	for _, role := range roles {
		if d, ok := c.registry.CurrentDevice(role); ok {
			printDevice(w, role.String(), d)
		}
	}
	return nil
}

func (c *cli) newSetCommand() *cobra.Command {
	var roleName string

	setCmd := &cobra.Command{
		Use:   "set <device>",
		Short: "Make a device the default for a role",
		Long: "Make a device the default for a role. The device is given by id or by name;\n" +
			"anything that parses as a number is treated as an id.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := audio.ParseRole(roleName)
			if err != nil {
				return err
			}

			device, err := c.registry.Resolve(args[0])
			if err != nil {
				return err
			}

			return c.assign(cmd.OutOrStdout(), role, device)
		},
	}

	setCmd.Flags().StringVarP(&roleName, "type", "t", audio.RoleOutput.String(),
		"Role to assign: input, output or system")

	return setCmd
}

func (c *cli) assign(w io.Writer, role audio.Role, device audio.Device) error {
	if err := c.registry.AssignRole(role, device); err != nil {
		return err
	}

	current, _ := c.registry.CurrentDevice(role)
	printDevice(w, role.String(), current)
	return nil
}

func (c *cli) newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <device>",
		Short: "Show details of one device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			device, err := c.registry.Resolve(args[0])
			if err != nil {
				return err
			}

			roles := []string{}
			for _, role := range c.registry.RolesOf(device.ID) {
				roles = append(roles, role.String())
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "id\t%d\n", device.ID)
			fmt.Fprintf(w, "name\t%s\n", device.Name)
			fmt.Fprintf(w, "input\t%t\n", device.Input)
			fmt.Fprintf(w, "output\t%t\n", device.Output)
			fmt.Fprintf(w, "roles\t%s\n", strings.Join(roles, ","))
			return nil
		},
	}
}

func (c *cli) newPickCommand() *cobra.Command {
	var roleName string

	pickCmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose the default device for a role interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := audio.ParseRole(roleName)
			if err != nil {
				return err
			}

			var devices []audio.Device
			for _, d := range c.registry.AllDevices() {
				if d.Capable(role) {
					devices = append(devices, d)
				}
			}
			if len(devices) == 0 {
				devices = c.registry.AllDevices()
			}

			current, ok := c.registry.CurrentDevice(role)
			device, chosen, err := c.picker(role, devices, current, ok)
			if err != nil {
				return err
			}
			if !chosen {
				c.logger.Debugw("Picker cancelled", "role", role)
				return nil
			}

			return c.assign(cmd.OutOrStdout(), role, device)
		},
	}

	pickCmd.Flags().StringVarP(&roleName, "type", "t", audio.RoleOutput.String(),
		"Role to assign: input, output or system")

	return pickCmd
}

// runPicker draws on stderr so stdout only carries the result line.
func runPicker(role audio.Role, devices []audio.Device, current audio.Device, hasCurrent bool) (audio.Device, bool, error) {
	model := tui.NewPickerModel(role, devices, current, hasCurrent)
	return tui.RunPicker(model, tea.WithOutput(os.Stderr))
}
