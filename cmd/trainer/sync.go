// ABOUTME: CLI commands for Charm cloud sync when the charm backend is active.
// ABOUTME: Supports link, unlink, status, now, repair, reset, and wipe operations.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/charm/kv"
	"github.com/harperreed/trainer/internal/charm"
	"github.com/harperreed/trainer/internal/storage"
	"github.com/spf13/cobra"
)

var errNotCharm = errors.New(`sync needs the charm backend (use --backend charm or set "backend": "charm")`)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync training data across devices",
	Long: `Sync training data across devices using Charm Cloud.

Only available with the charm backend. Data is encrypted with your SSH key
before upload and syncs automatically after each write.

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show sync status and account info
  now         Sync immediately
  repair      Repair database corruption
  reset       Reset local data and restore from cloud (destructive)
  wipe        Delete cloud and local data (destructive)`,
}

func charmRepo() (*charm.Client, error) {
	c, ok := repo.(*charm.Client)
	if !ok {
		return nil, errNotCharm
	}
	return c, nil
}

func runCharmCLI(cmd *cobra.Command, arg string) error {
	c := exec.CommandContext(cmd.Context(), "charm", arg)
	c.Stdin = os.Stdin
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	return c.Run()
}

// confirm reads one line from in and reports whether it equals want.
func confirm(in io.Reader, out io.Writer, prompt string, want ...string) bool {
	fmt.Fprint(out, prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	line = strings.TrimSpace(line)
	for _, w := range want {
		if line == w {
			return true
		}
	}
	fmt.Fprintln(out, "Canceled.")
	return false
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := charmRepo()
		if err != nil {
			return err
		}
		if err := runCharmCLI(cmd, "link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}

		out := cmd.OutOrStdout()
		success(out, "Device linked to Charm")
		if err := c.Sync(); err != nil {
			warn(out, "⚠ Initial sync failed: %v", err)
		} else {
			success(out, "Initial sync complete")
		}
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := charmRepo(); err != nil {
			return err
		}
		if err := runCharmCLI(cmd, "unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}
		success(cmd.OutOrStdout(), "Device unlinked from Charm. Local data is preserved.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := charmRepo()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		id, err := c.ID()
		if err != nil {
			warn(out, "Not linked to Charm")
			fmt.Fprintln(out, "\nRun 'trainer sync link' to connect to Charm.")
			return nil
		}

		workouts, err := repo.ListWorkouts(cmd.Context(), storage.WorkoutFilter{UserID: userID})
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}
		prs, err := repo.ListPersonalRecords(cmd.Context(), storage.RecordFilter{UserID: userID})
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}

		fmt.Fprintln(out, "Charm ID:", id)
		fmt.Fprintln(out, "Server:  ", os.Getenv("CHARM_HOST"))
		if c.IsReadOnly() {
			warn(out, "Read-only: another process holds the database lock")
		}
		fmt.Fprintln(out)
		success(out, "Connected to Charm")
		fmt.Fprintf(out, "  Workouts: %d\n  Records:  %d\n", len(workouts), len(prs))
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Sync with Charm Cloud immediately",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := charmRepo()
		if err != nil {
			return err
		}
		if err := c.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		success(cmd.OutOrStdout(), "Synced")
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair database corruption",
	Long: `Repair database corruption by checkpointing WAL, removing SHM files,
checking integrity, and vacuuming.

Run with --force to attempt recovery even if integrity checks fail.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := charmRepo(); err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Repairing trainer database...")
		result, err := kv.Repair(charm.DefaultDBName, force)
		if result.WalCheckpointed {
			success(out, "WAL checkpointed")
		}
		if result.ShmRemoved {
			success(out, "SHM file removed")
		}
		if result.IntegrityOK {
			success(out, "Integrity check passed")
		} else {
			warn(out, "✗ Integrity check failed")
		}
		if result.Vacuumed {
			success(out, "Database vacuumed")
		}
		if err != nil {
			if !force {
				warn(out, "\nRun with --force to attempt recovery.")
			}
			return fmt.Errorf("repair failed: %w", err)
		}

		success(out, "Repair complete")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local data and restore from cloud",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := charmRepo()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "This will DELETE all local training data and restore from cloud.")
		if !confirm(cmd.InOrStdin(), out, "Continue? [y/N]: ", "y", "Y") {
			return nil
		}
		if err := c.Reset(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		success(out, "Local data reset and restored from cloud")
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all cloud and local data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := charmRepo(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "This will PERMANENTLY DELETE all cloud backups and local training data.")
		if !confirm(cmd.InOrStdin(), out, "Type 'wipe' to confirm: ", "wipe") {
			return nil
		}

		// The open handle holds the KV lock.
		if err := teardown(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		result, err := kv.Wipe(charm.DefaultDBName)
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		success(out, "Data wiped")
		fmt.Fprintf(out, "  Cloud backups deleted: %d\n", result.CloudBackupsDeleted)
		fmt.Fprintf(out, "  Local files deleted: %d\n", result.LocalFilesDeleted)
		return nil
	},
}

func init() {
	syncRepairCmd.Flags().Bool("force", false, "attempt recovery even if integrity checks fail")

	syncCmd.AddCommand(syncLinkCmd, syncUnlinkCmd, syncStatusCmd, syncNowCmd, syncRepairCmd, syncResetCmd, syncWipeCmd)
	rootCmd.AddCommand(syncCmd)
}
