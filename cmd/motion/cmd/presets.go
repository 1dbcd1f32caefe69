package cmd

import (
	"fmt"

	"github.com/go-drift/motion/pkg/easing"
	"github.com/go-drift/motion/pkg/spring"
)

func init() {
	RegisterCommand(&Command{
		Name:  "presets",
		Short: "List spring presets and easing curves",
		Long: `List the spring presets and easing curve names accepted in motion.yaml
and by the spring and ease commands.`,
		Usage: "motion presets",
		Run:   runPresets,
	})
}

func runPresets(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("presets takes no arguments")
	}
	fmt.Fprintln(stdout, "Springs:")
	for _, name := range spring.PresetNames() {
		cfg, _ := spring.Preset(name)
		fmt.Fprintf(stdout, "  %-10s stiffness=%-5g damping=%-5g mass=%-3g %s\n",
			name, cfg.Stiffness, cfg.Damping, cfg.Mass, cfg.Regime())
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Curves:")
	for _, name := range easing.Names() {
		fmt.Fprintf(stdout, "  %s\n", name)
	}
	return nil
}
