package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"camsync/internal/camera"
)

func newDevicesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List connected cameras",
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := ctx.newGateway()
			if err != nil {
				return err
			}
			devices, err := gateway.Enumerate(cmd.Context())
			if err != nil {
				return fmt.Errorf("enumerate cameras: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(devices) == 0 {
				fmt.Fprintln(out, "No cameras detected")
				return nil
			}

			rows := make([][]string, 0, len(devices))
			for _, dev := range devices {
				rows = append(rows, []string{
					strconv.Itoa(dev.Index),
					dev.Port(),
					humanizeIdentity(dev.Manufacturer),
					humanizeIdentity(dev.Product),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Port", "Manufacturer", "Product"}, rows, 1))
			return nil
		},
	}
}

// humanizeIdentity title-cases identity strings that sysfs reports in
// all-caps or all-lowercase, leaving mixed-case vendor branding alone.
func humanizeIdentity(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return camera.UnknownIdentity
	}
	if value == strings.ToUpper(value) || value == strings.ToLower(value) {
		return cases.Title(language.Und).String(strings.ToLower(value))
	}
	return value
}
