// Package handlers implements the command execution logic behind the
// CLI commands.
package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/imamik/vcdmigrate/internal/cleanup"
	"github.com/imamik/vcdmigrate/internal/config"
	"github.com/imamik/vcdmigrate/internal/platform/nsxt"
	"github.com/imamik/vcdmigrate/internal/platform/vcd"
)

// Factory function variables - can be replaced in tests.
var (
	loadConfigFile = config.LoadFile

	newVCDClient = func(cfg config.VCDConfig) vcd.API {
		return vcd.NewRealClient(cfg)
	}

	newNSXTClient = func(cfg config.NSXTConfig) nsxt.API {
		return nsxt.NewRealClient(cfg)
	}

	newCleanupContext = cleanup.NewContext

	runWorkflow = cleanup.Run
)

// Cleanup handles the cleanup command.
//
// It loads the migration configuration, builds the Cloud Director and
// NSX-T clients, and runs the cleanup workflow against both endpoints.
func Cleanup(ctx context.Context, configPath string) error {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}

	log.Printf("Cleaning up org VDC %s in organization %s", cfg.VCD.SourceOrgVDC, cfg.VCD.Organization)

	vcdClient := newVCDClient(cfg.VCD)
	nsxtClient := newNSXTClient(cfg.NSXT)

	workflowCtx := newCleanupContext(ctx, cfg, vcdClient, nsxtClient)
	if err := runWorkflow(workflowCtx); err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	log.Printf("Org VDC %s cleaned up successfully", cfg.VCD.SourceOrgVDC)
	return nil
}
