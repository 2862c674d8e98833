package cmd

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment for common problems",
	Long: `Doctor verifies that the configured AI executor is on PATH, that the
state directory is usable, and reports basic host capacity.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	failures := 0

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "✗ config: %v\n", err)
		return err
	}
	fmt.Fprintln(w, "✓ config loaded")

	if path, err := exec.LookPath(cfg.Executor.Command); err != nil {
		fmt.Fprintf(w, "✗ executor: %q not found on PATH\n", cfg.Executor.Command)
		failures++
	} else {
		fmt.Fprintf(w, "✓ executor: %s\n", path)
	}

	agents, err := cfg.AgentList()
	if err != nil {
		fmt.Fprintf(w, "✗ agents: %v\n", err)
		failures++
	} else {
		fmt.Fprintf(w, "✓ agents: %d personas configured\n", len(agents))
	}

	fmt.Fprintf(w, "  state backend: %s\n", cfg.State.Backend)
	fmt.Fprintf(w, "  go runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	if vm, err := mem.VirtualMemory(); err == nil {
		fmt.Fprintf(w, "  memory: %.1f GiB total, %.0f%% used\n",
			float64(vm.Total)/(1<<30), vm.UsedPercent)
	}
	if cores, err := cpu.Counts(true); err == nil {
		fmt.Fprintf(w, "  cpu: %d logical cores\n", cores)
	}
	if usage, err := disk.Usage("."); err == nil {
		fmt.Fprintf(w, "  disk: %.1f GiB free\n", float64(usage.Free)/(1<<30))
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	fmt.Fprintln(w, "All checks passed.")
	return nil
}
