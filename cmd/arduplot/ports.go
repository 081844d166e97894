package main

import (
	"fmt"

	"arduplot/drivers"

	"github.com/spf13/cobra"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports, marking the ones 'auto' would pick from",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := drivers.ListPorts()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(ports) == 0 {
			fmt.Fprintln(out, "no serial ports found")
			return nil
		}
		for _, p := range ports {
			marker := " "
			if drivers.IsPreferred(p) {
				marker = "*"
			}
			if p.IsUSB {
				fmt.Fprintf(out, "%s %s (usb %s:%s %s)\n", marker, p.Name, p.VID, p.PID, p.Product)
			} else {
				fmt.Fprintf(out, "%s %s\n", marker, p.Name)
			}
		}
		return nil
	},
}
