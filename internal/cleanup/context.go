package cleanup

import (
	"context"

	"github.com/imamik/vcdmigrate/internal/config"
	"github.com/imamik/vcdmigrate/internal/platform/nsxt"
	"github.com/imamik/vcdmigrate/internal/platform/vcd"
)

// Context wraps all dependencies and state needed for a workflow step.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	VCD      vcd.API
	NSXT     nsxt.API
	Observer Observer
	Timeouts *config.Timeouts
}

// NewContext creates a new workflow context.
func NewContext(ctx context.Context, cfg *config.Config, vcdClient vcd.API, nsxtClient nsxt.API) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		VCD:      vcdClient,
		NSXT:     nsxtClient,
		Observer: NewConsoleObserver(),
		Timeouts: config.LoadTimeouts(),
	}
}
